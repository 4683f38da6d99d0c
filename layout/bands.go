package layout

import (
	"math"
	"sort"

	"github.com/pagelab/reflow/model"
)

// HorizontalBand is a candidate section separator: a horizontal run of
// whitespace such as the gap between a header and the body, with a
// confidence score in [0,1]. Bands come from three sources (the strip
// detector's sweep, the grid detector's projection profile, and inference
// from strip extents) and are merged into one authoritative list per page.
type HorizontalBand struct {
	// Y is the vertical center of the band
	Y float64

	// Height is the band's vertical extent
	Height float64

	// Confidence is the detection confidence in [0,1]
	Confidence float64
}

// Top returns the upper edge of the band
func (b HorizontalBand) Top() float64 {
	return b.Y - b.Height/2
}

// Bottom returns the lower edge of the band
func (b HorizontalBand) Bottom() float64 {
	return b.Y + b.Height/2
}

// SeparatesVertically reports whether the band lies strictly inside the
// vertical gap between the two rectangles. Overlapping rectangles are never
// separated.
func (b HorizontalBand) SeparatesVertically(upper, lower model.Rect) bool {
	if upper.Top > lower.Top {
		upper, lower = lower, upper
	}
	if upper.Bottom >= lower.Top {
		return false
	}
	return b.Y > upper.Bottom && b.Y < lower.Top
}

// BandsFromGrid models grid-detector gutter lines as thin, very high
// confidence bands of height lineHeight scaled by the gap multiplier.
func BandsFromGrid(lines []float64, lineHeight float64, config BandConfig) []HorizontalBand {
	bands := make([]HorizontalBand, 0, len(lines))
	for _, y := range lines {
		bands = append(bands, HorizontalBand{
			Y:          y,
			Height:     lineHeight * config.GapMultiplier,
			Confidence: config.GridConfidence,
		})
	}
	return bands
}

// BandsFromStrips synthesizes bands from the vertical extents of detected
// strips: when the column gutters stop short of the page top or bottom, the
// layout transitions there (a full-width header or footer) and a band marks
// the transition line.
func BandsFromStrips(strips []VerticalStrip, page model.Rect, lineHeight float64, config BandConfig) []HorizontalBand {
	if len(strips) == 0 {
		return nil
	}

	top := math.Inf(1)
	bottom := math.Inf(-1)
	for _, s := range strips {
		top = math.Min(top, s.Top)
		bottom = math.Max(bottom, s.Bottom)
	}

	margin := lineHeight * config.EdgeMarginMultiplier
	height := lineHeight * config.GapMultiplier

	var bands []HorizontalBand
	if top > page.Top+margin {
		bands = append(bands, HorizontalBand{
			Y:          top,
			Height:     height,
			Confidence: config.SynthesizedConfidence,
		})
	}
	if bottom < page.Bottom-margin {
		bands = append(bands, HorizontalBand{
			Y:          bottom,
			Height:     height,
			Confidence: config.SynthesizedConfidence,
		})
	}

	return bands
}

// MergeBands coalesces bands from all sources into the authoritative per-page
// list: bands whose extents touch or lie within the merge distance collapse
// into one band spanning both, keeping the best confidence.
func MergeBands(bands []HorizontalBand, lineHeight float64, config BandConfig) []HorizontalBand {
	if len(bands) == 0 {
		return nil
	}

	sorted := make([]HorizontalBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	maxDistance := lineHeight * config.MergeDistanceMultiplier

	merged := []HorizontalBand{sorted[0]}
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if b.Top()-last.Bottom() <= maxDistance {
			top := math.Min(last.Top(), b.Top())
			bottom := math.Max(last.Bottom(), b.Bottom())
			last.Y = (top + bottom) / 2
			last.Height = bottom - top
			last.Confidence = math.Max(last.Confidence, b.Confidence)
		} else {
			merged = append(merged, b)
		}
	}

	return merged
}
