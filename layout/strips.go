package layout

import (
	"math"
	"sort"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// VerticalStrip is a candidate column gutter: a vertical run of whitespace
// separating text on its left and right, with a confidence score in [0,1].
// Strips are ephemeral, recomputed for every page.
type VerticalStrip struct {
	// Left and Right bound the whitespace horizontally
	Left  float64
	Right float64

	// Top and Bottom bound the whitespace vertically
	Top    float64
	Bottom float64

	// Confidence is the detection confidence in [0,1]
	Confidence float64
}

// CenterX returns the horizontal center of the strip
func (s VerticalStrip) CenterX() float64 {
	return (s.Left + s.Right) / 2
}

// Width returns the horizontal extent of the strip
func (s VerticalStrip) Width() float64 {
	return s.Right - s.Left
}

// Height returns the vertical extent of the strip
func (s VerticalStrip) Height() float64 {
	return s.Bottom - s.Top
}

// Rect returns the strip's extent as a rectangle
func (s VerticalStrip) Rect() model.Rect {
	return model.NewRect(s.Left, s.Top, s.Right, s.Bottom)
}

// StripDetector finds vertical whitespace strips (candidate column
// separators) and, secondarily, horizontal whitespace bands by sweeping the
// page in thin horizontal bands and clustering the gaps they expose.
type StripDetector struct {
	config StripConfig
}

// NewStripDetector creates a strip detector with default configuration
func NewStripDetector() *StripDetector {
	return &StripDetector{config: DefaultStripConfig()}
}

// NewStripDetectorWithConfig creates a strip detector with custom configuration
func NewStripDetectorWithConfig(config StripConfig) *StripDetector {
	return &StripDetector{config: config}
}

// gapInterval is one horizontal whitespace interval found in a sweep band.
type gapInterval struct {
	left, right float64
	band        int // index of the sweep band the gap was found in
	fullWidth   bool
}

func (g gapInterval) center() float64 {
	return (g.left + g.right) / 2
}

// gapCluster accumulates vertically adjacent gaps with similar centers.
type gapCluster struct {
	gaps       []gapInterval
	lastCenter float64
	firstBand  int
	lastBand   int
}

// Detect finds vertical strips and horizontal bands for a page. Fragments
// may be passed in any order. Zero fragments yield empty lists.
func (d *StripDetector) Detect(fragments []fragment.Fragment, page model.Rect) ([]VerticalStrip, []HorizontalBand) {
	if len(fragments) == 0 || page.IsEmpty() {
		return nil, nil
	}

	lineHeight := MedianLineHeight(fragments)

	byTop := make([]fragment.Fragment, len(fragments))
	copy(byTop, fragments)
	sort.Slice(byTop, func(i, j int) bool {
		return byTop[i].Rect.Top < byTop[j].Rect.Top
	})

	bandHeight := math.Max(6, lineHeight*d.config.SweepBandMultiplier)
	gaps, totalBands := d.sweep(byTop, page, bandHeight)

	contentLeft, contentRight := contentBounds(fragments)
	strips := d.clusterStrips(gaps, bandHeight, lineHeight, totalBands, page)
	strips = rejectMarginStrips(strips, contentLeft, contentRight)
	bands := d.emptyRowBands(gaps, bandHeight, lineHeight, page)

	return strips, bands
}

// sweep walks the page top to bottom in bands of the given height and
// records the horizontal whitespace intervals of each band. The fragment
// window advances with the sweep rather than rescanning per band.
func (d *StripDetector) sweep(byTop []fragment.Fragment, page model.Rect, bandHeight float64) ([]gapInterval, int) {
	var gaps []gapInterval
	var active []fragment.Fragment

	next := 0
	bandIndex := 0

	for y := page.Top; y < page.Bottom; y += bandHeight {
		bandBottom := y + bandHeight

		// Advance the window: admit fragments starting before the band's
		// bottom edge, evict those ending above its top edge.
		for next < len(byTop) && byTop[next].Rect.Top < bandBottom {
			active = append(active, byTop[next])
			next++
		}
		live := active[:0]
		for _, f := range active {
			if f.Rect.Bottom > y {
				live = append(live, f)
			}
		}
		active = live

		gaps = append(gaps, d.bandGaps(active, page, bandIndex)...)
		bandIndex++
	}

	return gaps, bandIndex
}

// bandGaps inverts the occupied horizontal intervals of one sweep band
// against the page width.
func (d *StripDetector) bandGaps(active []fragment.Fragment, page model.Rect, band int) []gapInterval {
	if len(active) == 0 {
		return []gapInterval{{left: page.Left, right: page.Right, band: band, fullWidth: true}}
	}

	occupied := make([]span, 0, len(active))
	for _, f := range active {
		occupied = append(occupied, span{f.Rect.Left, f.Rect.Right})
	}
	merged := mergeSpans(occupied)

	var gaps []gapInterval
	cursor := page.Left
	for _, s := range merged {
		if s.left-cursor >= d.config.MinGapWidth {
			gaps = append(gaps, gapInterval{left: cursor, right: s.left, band: band})
		}
		if s.right > cursor {
			cursor = s.right
		}
	}
	if page.Right-cursor >= d.config.MinGapWidth {
		gaps = append(gaps, gapInterval{left: cursor, right: page.Right, band: band})
	}

	return gaps
}

// span is a closed horizontal interval.
type span struct {
	left, right float64
}

// mergeSpans merges overlapping or touching spans into maximal intervals.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].left < spans[j].left
	})

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right {
			if s.right > last.right {
				last.right = s.right
			}
		} else {
			merged = append(merged, s)
		}
	}

	return merged
}

// clusterStrips groups band gaps by center proximity across consecutive
// bands and converts tall enough clusters into strips.
func (d *StripDetector) clusterStrips(gaps []gapInterval, bandHeight, lineHeight float64, totalBands int, page model.Rect) []VerticalStrip {
	tolerance := math.Max(4, lineHeight*d.config.ClusterToleranceMultiplier)

	var clusters []*gapCluster
	for _, g := range gaps {
		if g.fullWidth {
			continue
		}

		var best *gapCluster
		bestDist := tolerance
		for _, c := range clusters {
			dist := math.Abs(g.center() - c.lastCenter)
			if dist <= bestDist && g.band >= c.lastBand {
				best = c
				bestDist = dist
			}
		}

		if best != nil {
			best.gaps = append(best.gaps, g)
			best.lastCenter = g.center()
			best.lastBand = g.band
		} else {
			clusters = append(clusters, &gapCluster{
				gaps:       []gapInterval{g},
				lastCenter: g.center(),
				firstBand:  g.band,
				lastBand:   g.band,
			})
		}
	}

	minHeight := lineHeight * d.config.MinHeightMultiplier

	var strips []VerticalStrip
	for _, c := range clusters {
		top := page.Top + float64(c.firstBand)*bandHeight
		bottom := page.Top + float64(c.lastBand+1)*bandHeight
		if bottom > page.Bottom {
			bottom = page.Bottom
		}
		if bottom-top < minHeight {
			continue
		}

		strip := d.clusterToStrip(c, top, bottom, totalBands)
		if strip.Confidence >= d.config.MinConfidence {
			strips = append(strips, strip)
		}
	}

	strips = d.mergeDuplicates(strips)

	sort.Slice(strips, func(i, j int) bool {
		return strips[i].CenterX() < strips[j].CenterX()
	})

	return strips
}

// clusterToStrip derives a strip's bounds and confidence from its gaps.
// Left/right are medians for robustness against ragged line ends; the
// confidence rewards band coverage and consistent width and center.
func (d *StripDetector) clusterToStrip(c *gapCluster, top, bottom float64, totalBands int) VerticalStrip {
	lefts := make([]float64, len(c.gaps))
	rights := make([]float64, len(c.gaps))
	widths := make([]float64, len(c.gaps))
	centers := make([]float64, len(c.gaps))
	seen := make(map[int]struct{}, len(c.gaps))

	for i, g := range c.gaps {
		lefts[i] = g.left
		rights[i] = g.right
		widths[i] = g.right - g.left
		centers[i] = g.center()
		seen[g.band] = struct{}{}
	}

	coverage := 0.0
	if totalBands > 0 {
		coverage = float64(len(seen)) / float64(totalBands)
	}

	meanWidth := mean(widths)
	widthTerm := 0.0
	centerTerm := 0.0
	if meanWidth > 0 {
		widthTerm = 1 - stddev(widths)/meanWidth
		centerTerm = 1 - stddev(centers)/meanWidth
	}

	confidence := clamp01(0.5*coverage + 0.25*clamp01(widthTerm) + 0.25*clamp01(centerTerm))

	return VerticalStrip{
		Left:       median(lefts),
		Right:      median(rights),
		Top:        top,
		Bottom:     bottom,
		Confidence: confidence,
	}
}

// mergeDuplicates merges strips whose centers nearly coincide and whose
// vertical extents overlap, widening bounds and keeping the best confidence.
func (d *StripDetector) mergeDuplicates(strips []VerticalStrip) []VerticalStrip {
	sort.Slice(strips, func(i, j int) bool {
		return strips[i].CenterX() < strips[j].CenterX()
	})

	var merged []VerticalStrip
	for _, s := range strips {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			closeCenter := math.Abs(s.CenterX()-last.CenterX()) <= d.config.DuplicateCenterDistance
			overlaps := s.Top < last.Bottom && s.Bottom > last.Top
			if closeCenter && overlaps {
				last.Left = math.Min(last.Left, s.Left)
				last.Right = math.Max(last.Right, s.Right)
				last.Top = math.Min(last.Top, s.Top)
				last.Bottom = math.Max(last.Bottom, s.Bottom)
				last.Confidence = math.Max(last.Confidence, s.Confidence)
				continue
			}
		}
		merged = append(merged, s)
	}

	return merged
}

// emptyRowBands converts runs of consecutive full-width sweep gaps into
// horizontal band candidates. Confidence grows with the run height but stays
// below the grid detector's, which sees whole-page evidence.
func (d *StripDetector) emptyRowBands(gaps []gapInterval, bandHeight, lineHeight float64, page model.Rect) []HorizontalBand {
	empty := make(map[int]bool)
	maxBand := -1
	for _, g := range gaps {
		if g.fullWidth {
			empty[g.band] = true
			if g.band > maxBand {
				maxBand = g.band
			}
		}
	}
	if maxBand < 0 {
		return nil
	}

	var bands []HorizontalBand
	runStart := -1
	for b := 0; b <= maxBand+1; b++ {
		if empty[b] {
			if runStart < 0 {
				runStart = b
			}
			continue
		}
		if runStart >= 0 {
			top := page.Top + float64(runStart)*bandHeight
			bottom := page.Top + float64(b)*bandHeight
			// Runs touching the page top are margins, not separators, and
			// runs no taller than normal leading are just line spacing.
			if runStart > 0 && bottom-top >= lineHeight*1.5 {
				rows := b - runStart
				bands = append(bands, HorizontalBand{
					Y:          (top + bottom) / 2,
					Height:     bottom - top,
					Confidence: clamp01(0.5 + 0.1*float64(rows)),
				})
			}
			runStart = -1
		}
	}

	return bands
}

// contentBounds returns the horizontal extent of the fragment set.
func contentBounds(fragments []fragment.Fragment) (float64, float64) {
	left := fragments[0].Rect.Left
	right := fragments[0].Rect.Right
	for _, f := range fragments[1:] {
		left = math.Min(left, f.Rect.Left)
		right = math.Max(right, f.Rect.Right)
	}
	return left, right
}

// rejectMarginStrips drops strips with no text on one side: page margins are
// whitespace too, but they separate nothing.
func rejectMarginStrips(strips []VerticalStrip, contentLeft, contentRight float64) []VerticalStrip {
	var kept []VerticalStrip
	for _, s := range strips {
		if s.Left > contentLeft && s.Right < contentRight {
			kept = append(kept, s)
		}
	}
	return kept
}

// MedianLineHeight estimates the working line height as the median fragment
// height, ignoring degenerate heights of 3 units or less. With no usable
// samples it falls back to 12 units.
func MedianLineHeight(fragments []fragment.Fragment) float64 {
	var heights []float64
	for _, f := range fragments {
		if h := f.Rect.Height(); h > 3 {
			heights = append(heights, h)
		}
	}
	if len(heights) == 0 {
		return 12
	}
	return median(heights)
}

// median returns the middle value of the data set. It sorts a copy.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mean returns the arithmetic mean of the data set.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation of the data set.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// clamp01 clamps a value to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
