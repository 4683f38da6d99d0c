package layout

import (
	"math"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// GridDetector finds page-wide horizontal gutters by projection-profile
// analysis: the page is cut into thin rows, each row's fragment occupancy is
// counted, and maximal runs of empty rows bounded by occupied rows on both
// sides are reported as gutter lines. The orchestrator models each line as a
// thin, very high confidence horizontal band.
type GridDetector struct {
	config GridConfig
}

// NewGridDetector creates a grid detector with default configuration
func NewGridDetector() *GridDetector {
	return &GridDetector{config: DefaultGridConfig()}
}

// NewGridDetectorWithConfig creates a grid detector with custom configuration
func NewGridDetectorWithConfig(config GridConfig) *GridDetector {
	return &GridDetector{config: config}
}

// Detect returns the y positions of detected page-wide gutters, sorted top
// to bottom. Zero fragments yield no lines.
func (d *GridDetector) Detect(fragments []fragment.Fragment, page model.Rect, lineHeight float64) []float64 {
	if len(fragments) == 0 || page.IsEmpty() || lineHeight <= 0 {
		return nil
	}

	rowHeight := lineHeight * d.config.RowHeightMultiplier
	if rowHeight <= 0 {
		return nil
	}

	rows := int(math.Ceil(page.Height() / rowHeight))
	if rows <= 0 {
		return nil
	}

	occupancy := make([]int, rows)
	for _, f := range fragments {
		first := int((f.Rect.Top - page.Top) / rowHeight)
		last := int((f.Rect.Bottom - page.Top) / rowHeight)
		if first < 0 {
			first = 0
		}
		if last >= rows {
			last = rows - 1
		}
		for r := first; r <= last; r++ {
			occupancy[r]++
		}
	}

	minGutter := lineHeight * d.config.MinGutterMultiplier
	edgeMargin := lineHeight * d.config.EdgeMarginMultiplier

	var lines []float64
	runStart := -1
	for r := 0; r <= rows; r++ {
		empty := r < rows && occupancy[r] == 0
		if empty {
			if runStart < 0 {
				runStart = r
			}
			continue
		}
		if runStart >= 0 {
			top := page.Top + float64(runStart)*rowHeight
			bottom := page.Top + float64(r)*rowHeight

			interior := top > page.Top+edgeMargin && bottom < page.Bottom-edgeMargin
			if interior && bottom-top >= minGutter {
				lines = append(lines, (top+bottom)/2)
			}
			runStart = -1
		}
	}

	return lines
}
