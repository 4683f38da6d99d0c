package reflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

func makePage(lines int) Page {
	raws := make([]fragment.RawFragment, 0, lines)
	for i := 0; i < lines; i++ {
		y := 100 + float64(i)*20
		raws = append(raws, fragment.RawFragment{
			Rect:       model.NewRect(72, y, 540, y+12),
			Text:       fmt.Sprintf("line %d", i),
			FontFamily: "Times",
			FontSizePx: 12,
			FontWeight: "normal",
			FontStyle:  "normal",
			Color:      "rgb(0, 0, 0)",
		})
	}
	return Page{
		Rect:      model.NewRect(0, 0, 612, 792),
		Fragments: raws,
	}
}

func TestEngine_Detect(t *testing.T) {
	engine := New()

	result := engine.Detect(makePage(4))

	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Stats.FragmentCount != 4 {
		t.Errorf("expected 4 fragments, got %d", result.Stats.FragmentCount)
	}
	if len(result.Paragraphs) == 0 {
		t.Error("expected at least one paragraph")
	}
}

func TestEngine_Detect_EmptyPage(t *testing.T) {
	engine := New()

	result := engine.Detect(Page{Rect: model.NewRect(0, 0, 612, 792)})

	if len(result.Paragraphs) != 0 {
		t.Errorf("expected no paragraphs for an empty page, got %d", len(result.Paragraphs))
	}
}

func TestEngine_DetectPages_PreservesOrder(t *testing.T) {
	engine := New()

	pages := make([]Page, 8)
	for i := range pages {
		pages[i] = makePage(i + 1)
	}

	results, err := engine.DetectPages(context.Background(), pages, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(pages) {
		t.Fatalf("expected %d results, got %d", len(pages), len(results))
	}

	for i, r := range results {
		if r == nil {
			t.Fatalf("missing result for page %d", i)
		}
		if r.Stats.FragmentCount != i+1 {
			t.Errorf("page %d: expected %d fragments, got %d", i, i+1, r.Stats.FragmentCount)
		}
	}
}

func TestEngine_DetectPages_Empty(t *testing.T) {
	engine := New()

	results, err := engine.DetectPages(context.Background(), nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for no pages, got %v", results)
	}
}

func TestEngine_DetectPages_Cancelled(t *testing.T) {
	engine := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pages := make([]Page, 16)
	for i := range pages {
		pages[i] = makePage(10)
	}

	if _, err := engine.DetectPages(ctx, pages, 2); err == nil {
		t.Error("expected a cancellation error")
	}
}

func TestEngine_DetectPages_SingleWorker(t *testing.T) {
	engine := New()

	results, err := engine.DetectPages(context.Background(), []Page{makePage(3), makePage(5)}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Stats.FragmentCount != 3 || results[1].Stats.FragmentCount != 5 {
		t.Error("sequential fallback returned results out of order")
	}
}
