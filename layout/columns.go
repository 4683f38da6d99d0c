package layout

import (
	"math"
	"sort"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// ColumnRegion is one column of the diagnostic report.
type ColumnRegion struct {
	// Rect is the column's bounding box, tightened to its content
	Rect model.Rect `json:"rect"`

	// Index is the column's position, left to right
	Index int `json:"index"`

	// FragmentCount is the number of fragments whose center falls inside
	FragmentCount int `json:"fragmentCount"`

	// Edge marks the leftmost or rightmost column of the page
	Edge bool `json:"edge"`
}

// ColumnReport describes the column structure derived from the active
// strips. It is diagnostic output only; the merge pipeline never consumes
// it.
type ColumnReport struct {
	// Columns are the detected column regions, left to right
	Columns []ColumnRegion `json:"columns"`

	// GapX are the x positions of the inter-column gaps (strip centers)
	GapX []float64 `json:"gapX,omitempty"`

	// ContentLeft and ContentRight bound the observed content
	ContentLeft  float64 `json:"contentLeft"`
	ContentRight float64 `json:"contentRight"`
}

// ColumnCount returns the number of detected columns
func (r *ColumnReport) ColumnCount() int {
	if r == nil {
		return 0
	}
	return len(r.Columns)
}

// buildColumnReport derives the diagnostic column report from strips and
// fragments. Without strips the whole content width is one column.
func buildColumnReport(fragments []fragment.Fragment, strips []VerticalStrip, page model.Rect) *ColumnReport {
	report := &ColumnReport{}
	if len(fragments) == 0 {
		return report
	}

	report.ContentLeft = fragments[0].Rect.Left
	report.ContentRight = fragments[0].Rect.Right
	for _, f := range fragments[1:] {
		report.ContentLeft = math.Min(report.ContentLeft, f.Rect.Left)
		report.ContentRight = math.Max(report.ContentRight, f.Rect.Right)
	}

	for _, s := range strips {
		report.GapX = append(report.GapX, s.CenterX())
	}
	sort.Float64s(report.GapX)

	// Column edges: content bounds cut at every gap position.
	edges := append([]float64{report.ContentLeft}, report.GapX...)
	edges = append(edges, report.ContentRight)

	for i := 0; i+1 < len(edges); i++ {
		region := ColumnRegion{
			Index: i,
			Edge:  i == 0 || i+2 == len(edges),
			Rect:  model.NewRect(edges[i], page.Bottom, edges[i+1], page.Top),
		}

		// Tighten to content.
		first := true
		for _, f := range fragments {
			cx := f.Rect.CenterX()
			if cx < edges[i] || cx >= edges[i+1] {
				continue
			}
			region.FragmentCount++
			if first {
				region.Rect = f.Rect
				first = false
			} else {
				region.Rect = region.Rect.Union(f.Rect)
			}
		}
		if region.FragmentCount == 0 {
			continue
		}

		region.Index = len(report.Columns)
		report.Columns = append(report.Columns, region)
	}

	return report
}
