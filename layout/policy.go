package layout

import (
	"math"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// mergePolicy decides the column- and band-aware questions of the merge
// pipeline. The policy is selected once at pipeline entry: geometric for
// normal operation, linear when the force-linear override is active. Every
// stage dispatches through the policy instead of re-checking the override.
type mergePolicy interface {
	// StyleMatch reports whether two fragments may belong to one paragraph
	StyleMatch(a, b *fragment.Fragment) bool

	// SameColumn reports whether two rectangles occupy the same column
	SameColumn(a, b model.Rect, strips []VerticalStrip) bool

	// SeparatedByBand reports whether a confident band lies between the rects
	SeparatedByBand(a, b model.Rect, bands []HorizontalBand) bool

	// SameRegion reports whether the rects share a layout segment
	SameRegion(a, b model.Rect, segments []Segment) bool

	// SplitsAtStrips reports whether strip-based splitting applies
	SplitsAtStrips() bool
}

// geometricPolicy is the default column/band-aware policy.
type geometricPolicy struct {
	config            MergeConfig
	bandMinConfidence float64
}

func (p *geometricPolicy) StyleMatch(a, b *fragment.Fragment) bool {
	if a.FontFamily != b.FontFamily {
		return false
	}
	if math.Abs(a.FontSize-b.FontSize) > p.config.MaxFontSizeDiff {
		return false
	}
	if a.Color.Distance(b.Color) >= p.config.MaxColorDistance {
		return false
	}
	if abs(a.Weight-b.Weight) > p.config.MaxWeightDiff {
		return false
	}
	if !p.config.AllowMixedStyles && a.Style != b.Style {
		return false
	}
	return true
}

func (p *geometricPolicy) SameColumn(a, b model.Rect, strips []VerticalStrip) bool {
	minWidth := math.Min(a.Width(), b.Width())
	if minWidth > 0 && a.HorizontalOverlap(b)/minWidth >= 0.5 {
		return true
	}

	if len(strips) == 0 {
		return false
	}

	gapLeft := math.Min(a.Right, b.Right)
	gapRight := math.Max(a.Left, b.Left)
	if gapRight <= gapLeft {
		// Horizontally interleaved without strong overlap; no gap to test.
		return true
	}

	pairTop := math.Min(a.Top, b.Top)
	pairBottom := math.Max(a.Bottom, b.Bottom)

	covered := 0.0
	for _, s := range strips {
		if s.Bottom < pairTop || s.Top > pairBottom {
			continue
		}
		overlap := math.Min(s.Right, gapRight) - math.Max(s.Left, gapLeft)
		if overlap > 0 {
			covered += overlap
		}
	}

	return covered/(gapRight-gapLeft) < p.config.CoverageRatioThreshold
}

func (p *geometricPolicy) SeparatedByBand(a, b model.Rect, bands []HorizontalBand) bool {
	for _, band := range bands {
		if band.Confidence >= p.bandMinConfidence && band.SeparatesVertically(a, b) {
			return true
		}
	}
	return false
}

func (p *geometricPolicy) SameRegion(a, b model.Rect, segments []Segment) bool {
	if len(segments) < 2 {
		return true
	}
	sa := SegmentAt(segments, a.CenterY())
	sb := SegmentAt(segments, b.CenterY())
	if sa < 0 || sb < 0 {
		return true
	}
	if sa == sb {
		return true
	}
	// Crossing a segment boundary is fine as long as the column structure
	// does not change there.
	return segments[sa].Columns == segments[sb].Columns
}

func (p *geometricPolicy) SplitsAtStrips() bool {
	return true
}

// linearPolicy is the force-linear override: style always matches, geometry
// never separates, and the pipeline degenerates to vertical-proximity
// concatenation in reading order.
type linearPolicy struct{}

func (linearPolicy) StyleMatch(a, b *fragment.Fragment) bool { return true }

func (linearPolicy) SameColumn(a, b model.Rect, strips []VerticalStrip) bool { return true }

func (linearPolicy) SeparatedByBand(a, b model.Rect, bands []HorizontalBand) bool { return false }

func (linearPolicy) SameRegion(a, b model.Rect, segments []Segment) bool { return true }

func (linearPolicy) SplitsAtStrips() bool { return false }

// selectPolicy picks the merge policy once for a pipeline run.
func selectPolicy(config Config) mergePolicy {
	if config.ForceLinear {
		return linearPolicy{}
	}
	return &geometricPolicy{
		config:            config.Merge,
		bandMinConfidence: config.Band.MinConfidence,
	}
}

// abs returns the absolute value of an int.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
