package layout

import (
	"math"
	"sort"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// Result holds everything one layout detection run produced: the ordered
// paragraphs plus the intermediate structures and statistics. The result is
// immutable once returned.
type Result struct {
	// Paragraphs are the reconstructed paragraphs in reading order
	Paragraphs []*Paragraph

	// Strips are the detected vertical gutters
	Strips []VerticalStrip

	// Bands is the authoritative merged horizontal band set
	Bands []HorizontalBand

	// Segments are the column-count segments of the page
	Segments []Segment

	// Columns is the diagnostic column report
	Columns *ColumnReport

	// LineHeight is the estimated global line height
	LineHeight float64

	// Page is the page rectangle the run was given
	Page model.Rect

	// Stats counts what the run detected
	Stats DetectionStats
}

// DetectionStats contains counts of detected structures from one run.
type DetectionStats struct {
	FragmentCount  int `json:"fragmentCount"`
	StripCount     int `json:"stripCount"`
	BandCount      int `json:"bandCount"`
	SegmentCount   int `json:"segmentCount"`
	ParagraphCount int `json:"paragraphCount"`
	Iterations     int `json:"iterations"`
}

// FragmentIDs returns the ordered fragment identifier lists of all
// paragraphs, the caller-facing output contract.
func (r *Result) FragmentIDs() [][]int {
	ids := make([][]int, len(r.Paragraphs))
	for i, p := range r.Paragraphs {
		ids[i] = p.FragmentIDs()
	}
	return ids
}

// Detector orchestrates the full layout reconstruction pipeline.
type Detector struct {
	config  Config
	strips  *StripDetector
	regions *RegionDetector
	grid    *GridDetector
}

// NewDetector creates a layout detector with default configuration
func NewDetector() *Detector {
	return NewDetectorWithConfig(DefaultConfig())
}

// NewDetectorWithConfig creates a layout detector with custom configuration
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{
		config:  config,
		strips:  NewStripDetectorWithConfig(config.Strip),
		regions: NewRegionDetectorWithConfig(config.Region),
		grid:    NewGridDetectorWithConfig(config.Grid),
	}
}

// Detect reconstructs the paragraph layout of one page snapshot. It never
// fails: degenerate input yields an empty paragraph list and a single
// full-page segment.
func (d *Detector) Detect(snap *fragment.Snapshot) *Result {
	page := snap.Page
	result := &Result{
		Page:    page,
		Columns: &ColumnReport{},
		Stats:   DetectionStats{FragmentCount: snap.Len()},
	}

	fragments := sortedByReadingOrder(snap.Fragments)

	if len(fragments) == 0 {
		result.Segments = d.regions.Detect(nil, page, 12)
		result.LineHeight = 12
		result.Stats.SegmentCount = len(result.Segments)
		return result
	}

	workingLH := MedianLineHeight(fragments)

	strips, sweepBands := d.strips.Detect(fragments, page)
	segments := d.regions.Detect(fragments, page, workingLH)
	gridLines := d.grid.Detect(fragments, page, workingLH)

	merger := NewMerger(d.config, workingLH)
	paragraphs := merger.GroupInitial(fragments)

	lineHeight := d.globalLineHeight(paragraphs, fragments)
	merger.SetLineHeight(lineHeight)

	bands := d.buildBands(sweepBands, gridLines, strips, page, lineHeight)
	merger.SetGeometry(strips, bands, segments)

	paragraphs = merger.SplitAtStrips(paragraphs)
	paragraphs = merger.MergeStacked(paragraphs)
	paragraphs, iterations := merger.Converge(paragraphs)
	paragraphs = merger.FinalPass(paragraphs)
	merger.StitchRuns(paragraphs)
	paragraphs = merger.Dedupe(paragraphs)

	d.orderParagraphs(paragraphs, strips, bands, page)

	result.Paragraphs = paragraphs
	result.Strips = strips
	result.Bands = bands
	result.Segments = segments
	result.LineHeight = lineHeight
	result.Columns = buildColumnReport(fragments, strips, page)
	result.Stats.StripCount = len(strips)
	result.Stats.BandCount = len(bands)
	result.Stats.SegmentCount = len(segments)
	result.Stats.ParagraphCount = len(paragraphs)
	result.Stats.Iterations = iterations

	return result
}

// globalLineHeight estimates the page line height as the larger of the
// trimmed-mean vertical gap between lines of already-merged paragraphs and a
// font-size fallback. The gap estimate needs at least five samples, trims
// 15% from each tail, and scales the mean by 1.25 to account for leading.
func (d *Detector) globalLineHeight(paragraphs []*Paragraph, fragments []fragment.Fragment) float64 {
	sizes := make([]float64, 0, len(fragments))
	for _, f := range fragments {
		if f.FontSize > 0 {
			sizes = append(sizes, f.FontSize)
		}
	}
	fallback := median(sizes) * 1.6 * 0.8

	var gaps []float64
	for _, p := range paragraphs {
		lastTop := math.Inf(-1)
		for _, f := range p.Fragments {
			if lastTop > math.Inf(-1) {
				if gap := f.Rect.Top - lastTop; gap > 0 {
					gaps = append(gaps, gap)
				}
			}
			lastTop = f.Rect.Top
		}
	}

	if len(gaps) < 5 {
		return math.Max(fallback, 1)
	}

	sort.Float64s(gaps)
	trim := int(float64(len(gaps)) * 0.15)
	trimmed := gaps[trim : len(gaps)-trim]
	estimate := mean(trimmed) * 1.25

	return math.Max(estimate, fallback)
}

// buildBands merges the three band sources into the authoritative per-page
// band list.
func (d *Detector) buildBands(sweepBands []HorizontalBand, gridLines []float64, strips []VerticalStrip, page model.Rect, lineHeight float64) []HorizontalBand {
	all := make([]HorizontalBand, 0, len(sweepBands)+len(gridLines)+2)
	all = append(all, sweepBands...)
	all = append(all, BandsFromGrid(gridLines, lineHeight, d.config.Band)...)
	all = append(all, BandsFromStrips(strips, page, lineHeight, d.config.Band)...)
	return MergeBands(all, lineHeight, d.config.Band)
}

// orderParagraphs performs the final band-aware column ordering: each
// paragraph is assigned to its best-overlapping band slice (ties broken by
// center distance) and, within a slice, to a column region derived from the
// active strips; the list is then sorted band-then-column, (top, left)
// within each bucket. With fewer than two columns the ordering degrades to a
// plain (top, left) sort. Fragments within each paragraph stay sorted by
// (top, left) throughout.
func (d *Detector) orderParagraphs(paragraphs []*Paragraph, strips []VerticalStrip, bands []HorizontalBand, page model.Rect) {
	if d.config.ForceLinear || len(strips) < 1 {
		sortParagraphs(paragraphs)
		return
	}

	slices := bandSlices(bands, page)

	cuts := make([]float64, len(strips))
	for i, s := range strips {
		cuts[i] = s.CenterX()
	}
	sort.Float64s(cuts)

	sort.SliceStable(paragraphs, func(i, j int) bool {
		ri, rj := paragraphs[i].Rect(), paragraphs[j].Rect()

		si := bestSlice(slices, ri)
		sj := bestSlice(slices, rj)
		if si != sj {
			return si < sj
		}

		ci := bucketIndex(cuts, ri.CenterX())
		cj := bucketIndex(cuts, rj.CenterX())
		if ci != cj {
			return ci < cj
		}

		if ri.Top != rj.Top {
			return ri.Top < rj.Top
		}
		return ri.Left < rj.Left
	})
}

// bandSlice is one horizontal slice of the page between separator bands.
type bandSlice struct {
	top, bottom float64
}

// bandSlices cuts the page at every band center.
func bandSlices(bands []HorizontalBand, page model.Rect) []bandSlice {
	sorted := make([]HorizontalBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var slices []bandSlice
	top := page.Top
	for _, b := range sorted {
		if b.Y <= top || b.Y >= page.Bottom {
			continue
		}
		slices = append(slices, bandSlice{top: top, bottom: b.Y})
		top = b.Y
	}
	slices = append(slices, bandSlice{top: top, bottom: page.Bottom})

	return slices
}

// bestSlice picks the slice with the greatest vertical overlap with the
// rectangle, breaking ties by distance from the slice center.
func bestSlice(slices []bandSlice, r model.Rect) int {
	best := 0
	bestOverlap := -1.0
	bestDist := math.Inf(1)

	for i, s := range slices {
		overlap := math.Min(r.Bottom, s.bottom) - math.Max(r.Top, s.top)
		if overlap < 0 {
			overlap = 0
		}
		dist := math.Abs(r.CenterY() - (s.top+s.bottom)/2)

		if overlap > bestOverlap || (overlap == bestOverlap && dist < bestDist) {
			best = i
			bestOverlap = overlap
			bestDist = dist
		}
	}

	return best
}

// sortedByReadingOrder returns a copy of the fragments sorted by (top, left).
func sortedByReadingOrder(fragments []fragment.Fragment) []fragment.Fragment {
	sorted := make([]fragment.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Rect, sorted[j].Rect
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
	return sorted
}
