package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagelab/reflow"
	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/htmldump"
	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

// pageOutput is the JSON form of one analyzed page.
type pageOutput struct {
	File       string                `json:"file,omitempty"`
	Page       model.Rect            `json:"page"`
	LineHeight float64               `json:"lineHeight"`
	Paragraphs []paragraphOutput     `json:"paragraphs"`
	Columns    *layout.ColumnReport  `json:"columns,omitempty"`
	Stats      layout.DetectionStats `json:"stats"`
}

type paragraphOutput struct {
	Rect        model.Rect `json:"rect"`
	Text        string     `json:"text"`
	FragmentIDs []int      `json:"fragmentIds"`
}

// analyzeCmd represents the analyze command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dump files...]",
	Short: "Reconstruct paragraph layout from fragment dumps",
	Long: `Run layout detection on one or more fragment dumps and print the
reconstructed paragraphs in reading order.

Inputs are JSON fragment dumps, or HTML page dumps when the file ends in
.html or .htm. Use "-" to read a single JSON dump from stdin. Multiple
inputs are analyzed concurrently as a batch.

Examples:
  reflow analyze page.json
  reflow analyze page.html --format text
  reflow analyze chapter-*.json --workers 4 --output result.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}
	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	engineConfig := cfg.EngineConfig()
	if linear, _ := cmd.Flags().GetBool("force-linear"); linear {
		engineConfig.ForceLinear = true
	}

	pages := make([]reflow.Page, 0, len(args))
	for _, path := range args {
		dump, err := loadDump(path)
		if err != nil {
			return err
		}
		pages = append(pages, reflow.Page{
			Rect:      dump.Page,
			Fragments: dump.Fragments,
			Scale:     dump.Scale,
		})
	}

	engine := reflow.NewWithConfig(engineConfig)
	results, err := engine.DetectPages(cmd.Context(), pages, workers)
	if err != nil {
		return fmt.Errorf("analyzing pages: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	for i, result := range results {
		slog.Debug("Analyzed page",
			"file", args[i],
			"paragraphs", result.Stats.ParagraphCount,
			"strips", result.Stats.StripCount,
			"iterations", result.Stats.Iterations)
	}

	switch format {
	case "text":
		return writeTextResults(out, results)
	default:
		return writeJSONResults(out, args, results)
	}
}

// loadDump reads one page dump: HTML page dumps by extension, JSON fragment
// dumps otherwise, with "-" standing for stdin.
func loadDump(path string) (*fragment.Dump, error) {
	if path == "-" {
		return fragment.ReadDump(os.Stdin)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return htmldump.Open(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dump, err := fragment.ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("reading dump %s: %w", path, err)
	}
	return dump, nil
}

func writeJSONResults(w io.Writer, files []string, results []*layout.Result) error {
	outputs := make([]pageOutput, len(results))
	for i, result := range results {
		outputs[i] = newPageOutput(files[i], result)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(outputs) == 1 {
		return enc.Encode(outputs[0])
	}
	return enc.Encode(outputs)
}

func writeTextResults(w io.Writer, results []*layout.Result) error {
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, p := range result.Paragraphs {
			if _, err := fmt.Fprintln(w, p.Text()); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func newPageOutput(file string, result *layout.Result) pageOutput {
	paragraphs := make([]paragraphOutput, len(result.Paragraphs))
	for i, p := range result.Paragraphs {
		paragraphs[i] = paragraphOutput{
			Rect:        p.Rect(),
			Text:        p.Text(),
			FragmentIDs: p.FragmentIDs(),
		}
	}
	return pageOutput{
		File:       file,
		Page:       result.Page,
		LineHeight: result.LineHeight,
		Paragraphs: paragraphs,
		Columns:    result.Columns,
		Stats:      result.Stats,
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("format", "f", "json", "output format (json, text)")
	analyzeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	analyzeCmd.Flags().IntP("workers", "w", 0, "batch worker count (0 = number of CPUs)")
	analyzeCmd.Flags().Bool("force-linear", false, "treat the page as a single linear column")
}
