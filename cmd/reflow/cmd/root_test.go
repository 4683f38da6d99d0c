package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// executeCommand runs the root command with the given args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "reflow", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommand(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "analyze")
	assert.Contains(t, output, "serve")
}

func TestRootCommandSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, subcmd := range rootCmd.Commands() {
		names = append(names, subcmd.Name())
	}

	for _, expected := range []string{"analyze", "render", "serve", "config"} {
		assert.Contains(t, names, expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	output, err := executeCommand(t, "--invalid-flag")
	require.Error(t, err)
	assert.Contains(t, output, "unknown flag")
}

func TestAnalyzeCommand_TextOutput(t *testing.T) {
	dumpFile := writeTestDump(t)

	output, err := executeCommand(t, "analyze", dumpFile, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, output, "first line")
	assert.Contains(t, output, "second line")
}

func TestAnalyzeCommand_JSONOutput(t *testing.T) {
	dumpFile := writeTestDump(t)

	output, err := executeCommand(t, "analyze", dumpFile, "--format", "json")
	require.NoError(t, err)

	var page pageOutput
	require.NoError(t, json.Unmarshal([]byte(output), &page))
	assert.Equal(t, dumpFile, page.File)
	assert.Equal(t, 2, page.Stats.FragmentCount)
	require.NotEmpty(t, page.Paragraphs)
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "analyze", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

// writeTestDump writes a two-line fragment dump to a temp file.
func writeTestDump(t *testing.T) string {
	t.Helper()

	dump := &fragment.Dump{
		Page:  model.NewRect(0, 0, 612, 792),
		Scale: 1,
		Fragments: []fragment.RawFragment{
			{Rect: model.NewRect(72, 100, 540, 112), Text: "first line", FontFamily: "Times", FontSizePx: 12},
			{Rect: model.NewRect(72, 120, 540, 132), Text: "second line", FontFamily: "Times", FontSizePx: 12},
		},
	}

	path := filepath.Join(t.TempDir(), "page.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, fragment.WriteDump(f, dump))
	require.NoError(t, f.Close())
	return path
}
