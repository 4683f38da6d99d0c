package layout

import (
	"math"
	"sort"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// Segment is a vertical range of the page with a constant detected column
// count. Segments are computed independently of the strip system and guard
// the merger against joining paragraphs across layout transitions, such as a
// full-width heading above a two-column body.
type Segment struct {
	// Top and Bottom bound the segment vertically
	Top    float64
	Bottom float64

	// Columns is the detected column count inside the segment
	Columns int

	// Left and Right bound the content observed inside the segment
	Left  float64
	Right float64
}

// Height returns the vertical extent of the segment
func (s Segment) Height() float64 {
	return s.Bottom - s.Top
}

// ContainsY reports whether the y coordinate falls inside the segment
func (s Segment) ContainsY(y float64) bool {
	return y >= s.Top && y <= s.Bottom
}

// RegionDetector segments the page vertically by column count using a
// density profile of fragment left edges.
type RegionDetector struct {
	config RegionConfig
}

// NewRegionDetector creates a region detector with default configuration
func NewRegionDetector() *RegionDetector {
	return &RegionDetector{config: DefaultRegionConfig()}
}

// NewRegionDetectorWithConfig creates a region detector with custom configuration
func NewRegionDetectorWithConfig(config RegionConfig) *RegionDetector {
	return &RegionDetector{config: config}
}

// profileSample is one row of the density profile.
type profileSample struct {
	y           float64
	columns     int
	left, right float64
}

// Detect segments the page by column count. Degenerate input yields a single
// full-page, one-column segment.
func (d *RegionDetector) Detect(fragments []fragment.Fragment, page model.Rect, lineHeight float64) []Segment {
	if len(fragments) == 0 || page.IsEmpty() {
		return []Segment{{
			Top:     page.Top,
			Bottom:  page.Bottom,
			Columns: 1,
			Left:    page.Left,
			Right:   page.Right,
		}}
	}

	profile := d.sampleProfile(fragments, page, lineHeight)
	segments := d.walkProfile(profile, page, lineHeight)
	segments = d.consolidate(segments, lineHeight)
	segments = d.addBuffers(segments, page, lineHeight)

	return segments
}

// sampleProfile samples the active-fragment density top to bottom. The
// active window advances with the sweep: fragments sorted by top are added
// once their top passes the sample and evicted once their bottom does.
func (d *RegionDetector) sampleProfile(fragments []fragment.Fragment, page model.Rect, lineHeight float64) []profileSample {
	byTop := make([]fragment.Fragment, len(fragments))
	copy(byTop, fragments)
	sort.Slice(byTop, func(i, j int) bool {
		return byTop[i].Rect.Top < byTop[j].Rect.Top
	})

	step := math.Max(5, lineHeight*d.config.SampleStepMultiplier)
	gapThreshold := lineHeight * d.config.ColumnGapMultiplier

	var samples []profileSample
	var active []fragment.Fragment
	next := 0

	for y := page.Top; y <= page.Bottom; y += step {
		for next < len(byTop) && byTop[next].Rect.Top <= y {
			active = append(active, byTop[next])
			next++
		}
		live := active[:0]
		for _, f := range active {
			if f.Rect.Bottom >= y {
				live = append(live, f)
			}
		}
		active = live

		sample := profileSample{y: y}
		if len(active) > 0 {
			sample.columns = countColumns(active, gapThreshold)
			sample.left = active[0].Rect.Left
			sample.right = active[0].Rect.Right
			for _, f := range active[1:] {
				sample.left = math.Min(sample.left, f.Rect.Left)
				sample.right = math.Max(sample.right, f.Rect.Right)
			}
		}
		samples = append(samples, sample)
	}

	return samples
}

// countColumns estimates the column count at one sample by greedy 1-D
// clustering of the active fragments' left edges: an edge joins the nearest
// existing cluster within the gap threshold, otherwise it founds a new one.
func countColumns(active []fragment.Fragment, gapThreshold float64) int {
	var centers []float64

	for _, f := range active {
		left := f.Rect.Left

		best := -1
		bestDist := gapThreshold
		for i, c := range centers {
			dist := math.Abs(left - c)
			if dist <= bestDist {
				best = i
				bestDist = dist
			}
		}

		if best >= 0 {
			// Nudge the cluster center toward the new member.
			centers[best] = (centers[best] + left) / 2
		} else {
			centers = append(centers, left)
		}
	}

	return len(centers)
}

// walkProfile emits a segment boundary wherever the column count changes or
// the content extent shifts far enough from the running segment's extent.
// Empty samples carry no column information: inter-line whitespace keeps the
// last observed count, so line spacing wider than the sample step does not
// shatter a constant-count region into micro-segments.
func (d *RegionDetector) walkProfile(profile []profileSample, page model.Rect, lineHeight float64) []Segment {
	if len(profile) == 0 {
		return nil
	}

	maxShift := lineHeight * d.config.ExtentShiftMultiplier

	var segments []Segment
	current := Segment{
		Top:     profile[0].y,
		Columns: profile[0].columns,
		Left:    profile[0].left,
		Right:   profile[0].right,
	}

	for _, s := range profile[1:] {
		if s.columns == 0 {
			continue
		}
		if current.Columns == 0 {
			// Leading whitespace folds into the first populated segment.
			current.Columns = s.columns
			current.Left = s.left
			current.Right = s.right
			continue
		}

		countChanged := s.columns != current.Columns
		extentShifted := math.Abs(s.left-current.Left) > maxShift ||
			math.Abs(s.right-current.Right) > maxShift

		if countChanged || extentShifted {
			current.Bottom = s.y
			segments = append(segments, current)
			current = Segment{
				Top:     s.y,
				Columns: s.columns,
				Left:    s.left,
				Right:   s.right,
			}
			continue
		}

		current.Left = math.Min(current.Left, s.left)
		current.Right = math.Max(current.Right, s.right)
	}

	current.Bottom = page.Bottom
	if current.Columns == 0 && len(segments) == 0 {
		// Every sample missed the fragments; fall back to one linear segment.
		current.Columns = 1
		current.Left = page.Left
		current.Right = page.Right
	}
	segments = append(segments, current)

	return segments
}

// consolidate merges undersized segments into a neighbor, collapses adjacent
// segments sharing a column count, and drops what remains below the minimum
// height. Empty segments (zero columns) always fold into a neighbor.
func (d *RegionDetector) consolidate(segments []Segment, lineHeight float64) []Segment {
	minHeight := lineHeight * d.config.MinHeightMultiplier

	changed := true
	for changed && len(segments) > 1 {
		changed = false
		for i := range segments {
			if segments[i].Height() >= minHeight && segments[i].Columns > 0 {
				continue
			}
			if i > 0 {
				segments[i-1] = absorb(segments[i-1], segments[i])
				segments = append(segments[:i], segments[i+1:]...)
			} else {
				segments[1] = absorbInto(segments[1], segments[0])
				segments = segments[1:]
			}
			changed = true
			break
		}
	}

	// Collapse adjacent segments with the same column count.
	var collapsed []Segment
	for _, s := range segments {
		if len(collapsed) > 0 && collapsed[len(collapsed)-1].Columns == s.Columns {
			collapsed[len(collapsed)-1] = absorb(collapsed[len(collapsed)-1], s)
			continue
		}
		collapsed = append(collapsed, s)
	}

	var kept []Segment
	for _, s := range collapsed {
		if s.Height() >= minHeight {
			kept = append(kept, s)
		}
	}

	return kept
}

// absorb extends the keeper downward over the absorbed segment, widening its
// horizontal bounds. The keeper's column count wins.
func absorb(keeper, absorbed Segment) Segment {
	keeper.Bottom = math.Max(keeper.Bottom, absorbed.Bottom)
	keeper.Top = math.Min(keeper.Top, absorbed.Top)
	if absorbed.Columns > 0 {
		keeper.Left = math.Min(keeper.Left, absorbed.Left)
		keeper.Right = math.Max(keeper.Right, absorbed.Right)
	}
	return keeper
}

// absorbInto is absorb with the keeper below the absorbed segment.
func absorbInto(keeper, absorbed Segment) Segment {
	return absorb(keeper, absorbed)
}

// addBuffers expands each segment by a small top/bottom margin, clipped to
// the page, so boundary fragments are not orphaned by sampling quantization.
func (d *RegionDetector) addBuffers(segments []Segment, page model.Rect, lineHeight float64) []Segment {
	for i := range segments {
		buffer := math.Min(lineHeight*d.config.BufferMultiplier, segments[i].Height()*0.1)
		segments[i].Top = math.Max(page.Top, segments[i].Top-buffer)
		segments[i].Bottom = math.Min(page.Bottom, segments[i].Bottom+buffer)
	}
	return segments
}

// SegmentAt returns the index of the segment containing the y coordinate,
// or -1 when no segment does.
func SegmentAt(segments []Segment, y float64) int {
	for i, s := range segments {
		if s.ContainsY(y) {
			return i
		}
	}
	return -1
}
