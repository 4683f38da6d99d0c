// Package reflow reconstructs paragraph layout from positioned text fragments.
//
// The input is a flat list of fragment rectangles with style attributes, as a
// DOM-side extractor produces for one rendered page. The engine detects column
// gutters, horizontal separators and layout regions, merges fragments into
// paragraphs through a multi-stage pipeline, and returns the paragraphs in
// reading order together with the detected structures.
//
// Basic usage:
//
//	engine := reflow.New()
//	result := engine.Detect(reflow.Page{
//	    Rect:      model.NewRect(0, 0, 612, 792),
//	    Fragments: raws,
//	})
//	for _, p := range result.Paragraphs {
//	    fmt.Println(p.Text())
//	}
//
// Detection never fails: degenerate input produces an empty result. Each call
// is independent; an Engine is safe for concurrent use and DetectPages runs a
// batch of pages through a worker pool.
package reflow

import (
	"context"
	"runtime"
	"sync"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

// Page is the input for one detection call: the page rectangle, the raw
// fragments on it, and the scale factor their coordinates were captured at.
// A zero Scale means unscaled.
type Page struct {
	// Rect is the page rectangle in the same coordinate space as the fragments
	Rect model.Rect

	// Fragments are the positioned text fragments of the page
	Fragments []fragment.RawFragment

	// Scale divides all coordinates during snapshot building
	Scale float64
}

// Engine runs layout detection. The zero value is not usable; construct with
// New or NewWithConfig. An Engine holds only configuration and is safe for
// concurrent use.
type Engine struct {
	config layout.Config
}

// New creates an engine with default configuration
func New() *Engine {
	return NewWithConfig(layout.DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration
func NewWithConfig(config layout.Config) *Engine {
	return &Engine{config: config}
}

// Config returns the engine's configuration record
func (e *Engine) Config() layout.Config {
	return e.config
}

// Detect reconstructs the paragraph layout of one page. It is total: pages
// with no usable fragments yield a result with no paragraphs.
func (e *Engine) Detect(page Page) *layout.Result {
	snap := fragment.NewSnapshot(page.Fragments, page.Rect, page.Scale)
	return layout.NewDetectorWithConfig(e.config).Detect(snap)
}

// DetectPages runs detection over a batch of pages with a worker pool and
// returns the results in input order. Workers <= 0 uses runtime.NumCPU().
// Detection itself never fails; the only error is context cancellation, in
// which case the partial results are discarded.
func (e *Engine) DetectPages(ctx context.Context, pages []Page, workers int) ([]*layout.Result, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(pages) == 1 || workers == 1 {
		results := make([]*layout.Result, 0, len(pages))
		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results = append(results, e.Detect(page))
		}
		return results, nil
	}

	type pageJob struct {
		index int
		page  Page
	}
	type pageResult struct {
		index  int
		result *layout.Result
	}

	jobs := make(chan pageJob, len(pages))
	results := make(chan pageResult, len(pages))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return
					}
					select {
					case results <- pageResult{index: job.index, result: e.Detect(job.page)}:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, page := range pages {
			select {
			case jobs <- pageJob{index: i, page: page}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*layout.Result, len(pages))
	for r := range results {
		ordered[r.index] = r.result
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ordered, nil
}
