package layout

import (
	"math"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// Merger runs the multi-stage paragraph state machine. Each stage maps one
// paragraph list to the next; the orchestrator applies the stages in fixed
// order and re-runs the splitting and stacking stages inside the convergence
// loop. A Merger is scoped to a single detection call.
type Merger struct {
	config     Config
	policy     mergePolicy
	lineHeight float64
	strips     []VerticalStrip
	bands      []HorizontalBand
	segments   []Segment
}

// NewMerger creates a merger for one pipeline run. The merge policy is
// selected here, once, from the force-linear switch.
func NewMerger(config Config, lineHeight float64) *Merger {
	return &Merger{
		config:     config,
		policy:     selectPolicy(config),
		lineHeight: lineHeight,
	}
}

// SetGeometry installs the detected strips, bands and segments the
// column-aware stages consult.
func (m *Merger) SetGeometry(strips []VerticalStrip, bands []HorizontalBand, segments []Segment) {
	m.strips = strips
	m.bands = bands
	m.segments = segments
}

// SetLineHeight updates the global line height once the orchestrator has
// refined its estimate from merged paragraphs.
func (m *Merger) SetLineHeight(lineHeight float64) {
	m.lineHeight = lineHeight
}

// linear reports whether the linear policy is active, bypassing the
// alignment checks that only make sense with column geometry.
func (m *Merger) linear() bool {
	_, ok := m.policy.(linearPolicy)
	return ok
}

// GroupInitial is stage 1: a single linear pass over fragments pre-sorted by
// (top, left). A fragment extends the open paragraph when it style-matches
// the paragraph's last fragment and is vertically adjacent with compatible
// alignment, continues the line inline, or continues a hyphenated word.
func (m *Merger) GroupInitial(fragments []fragment.Fragment) []*Paragraph {
	if len(fragments) == 0 {
		return nil
	}

	var paragraphs []*Paragraph
	current := newParagraph(fragments[0])

	for _, f := range fragments[1:] {
		if m.extendsInitial(current, f) {
			current.add(f)
			continue
		}
		paragraphs = append(paragraphs, current)
		current = newParagraph(f)
	}
	paragraphs = append(paragraphs, current)

	for _, p := range paragraphs {
		p.sortFragments()
	}
	return paragraphs
}

// extendsInitial decides whether a fragment continues the open paragraph.
func (m *Merger) extendsInitial(p *Paragraph, f fragment.Fragment) bool {
	last := p.Last()
	if !m.policy.StyleMatch(last, &f) {
		return false
	}

	maxFont := math.Max(last.FontSize, f.FontSize)
	if maxFont <= 0 {
		maxFont = m.lineHeight
	}

	// (c) hyphen continuation ignores the vertical gap entirely.
	if last.EndsWithHyphen() && f.Rect.Top >= last.Rect.Top {
		if m.linear() || math.Abs(f.Rect.Left-p.Rect().Left) <= maxFont*m.config.Merge.HyphenAlignMultiplier {
			return true
		}
	}

	// (b) inline continuation: matching baseline, near-zero horizontal gap.
	if m.inlineContinues(last, &f, maxFont) {
		return true
	}

	// (a) next line: small vertical gap with compatible alignment.
	mathPair := last.IsMath || f.IsMath
	gapLimit := math.Min(m.lineHeight*m.config.Merge.VerticalGapMultiplier, maxFont*m.config.Merge.VerticalGapFontMultiplier)
	if mathPair {
		gapLimit = math.Max(gapLimit, m.lineHeight*m.config.Merge.MathVerticalGapMultiplier)
	}

	vGap := f.Rect.Top - last.Rect.Bottom
	if vGap > gapLimit {
		return false
	}
	if m.linear() {
		return true
	}

	alignTol := maxFont * m.config.Merge.AlignToleranceMultiplier
	if mathPair {
		alignTol = maxFont * m.config.Merge.MathAlignMultiplier
	}

	r := p.Rect()
	leftAligned := math.Abs(f.Rect.Left-r.Left) <= alignTol
	rightAligned := math.Abs(f.Rect.Right-r.Right) <= alignTol
	return leftAligned || rightAligned
}

// inlineContinues reports near-zero horizontal gap at a matching baseline,
// reading direction aware: RTL text continues to the left.
func (m *Merger) inlineContinues(last, f *fragment.Fragment, maxFont float64) bool {
	baselineTol := maxFont * m.config.Merge.BaselineToleranceMultiplier
	if math.Abs(f.Rect.Bottom-last.Rect.Bottom) > baselineTol {
		return false
	}

	kern := maxFont * m.config.Merge.KerningMultiplier
	if last.Direction == fragment.DirectionRTL || f.Direction == fragment.DirectionRTL {
		return math.Abs(last.Rect.Left-f.Rect.Right) <= kern
	}
	return math.Abs(f.Rect.Left-last.Rect.Right) <= kern
}

// SplitAtStrips is stage 2: paragraphs straddling a qualified strip are cut
// at per-line horizontal gaps into left-to-right buckets, one per column
// region. A paragraph is replaced only when the split yields at least two
// non-empty buckets. Skipped entirely under the linear policy.
func (m *Merger) SplitAtStrips(paragraphs []*Paragraph) []*Paragraph {
	if !m.policy.SplitsAtStrips() || len(m.strips) == 0 {
		return paragraphs
	}

	var out []*Paragraph
	for _, p := range paragraphs {
		cuts := m.qualifiedCuts(p)
		if len(cuts) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, m.splitParagraph(p, cuts)...)
	}

	sortParagraphs(out)
	return out
}

// qualifiedCuts returns the center x of every strip that passes the
// confidence, width and height filters and crosses the paragraph.
func (m *Merger) qualifiedCuts(p *Paragraph) []float64 {
	r := p.Rect()
	minWidth := m.lineHeight * m.config.Strip.MinWidthMultiplier
	minHeight := m.lineHeight * m.config.Strip.MinHeightMultiplier

	var cuts []float64
	for _, s := range m.strips {
		if s.Confidence < m.config.Strip.MinConfidence {
			continue
		}
		if s.Width() < minWidth || s.Height() < minHeight {
			continue
		}
		if s.Bottom < r.Top || s.Top > r.Bottom {
			continue
		}
		center := s.CenterX()
		if center > r.Left && center < r.Right {
			cuts = append(cuts, center)
		}
	}
	sort.Float64s(cuts)
	return cuts
}

// splitParagraph cuts the paragraph's text lines at large horizontal gaps
// and distributes the pieces into buckets keyed by cut position.
func (m *Merger) splitParagraph(p *Paragraph, cuts []float64) []*Paragraph {
	buckets := make([][]fragment.Fragment, len(cuts)+1)

	for _, line := range groupLines(p.Fragments, m.lineHeight) {
		for _, piece := range m.cutLine(line) {
			idx := bucketIndex(cuts, pieceCenter(piece))
			buckets[idx] = append(buckets[idx], piece...)
		}
	}

	var nonEmpty []*Paragraph
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		np := &Paragraph{Fragments: b}
		np.sortFragments()
		nonEmpty = append(nonEmpty, np)
	}

	if len(nonEmpty) < 2 {
		return []*Paragraph{p}
	}
	return nonEmpty
}

// cutLine splits one text line at horizontal gaps exceeding the larger of
// the inter-word and column gap thresholds, both scaled by font size.
func (m *Merger) cutLine(line []fragment.Fragment) [][]fragment.Fragment {
	sort.Slice(line, func(i, j int) bool {
		return line[i].Rect.Left < line[j].Rect.Left
	})

	var pieces [][]fragment.Fragment
	current := []fragment.Fragment{line[0]}

	for _, f := range line[1:] {
		prev := current[len(current)-1]
		font := math.Max(prev.FontSize, f.FontSize)
		threshold := font * math.Max(m.config.Merge.InterWordGapMultiplier, m.config.Merge.ColumnGapMultiplier)

		if f.Rect.Left-prev.Rect.Right > threshold {
			pieces = append(pieces, current)
			current = []fragment.Fragment{f}
			continue
		}
		current = append(current, f)
	}
	pieces = append(pieces, current)

	return pieces
}

// MergeStacked is stage 3: a greedy scan over paragraphs sorted by (top,
// left), merging each with its successor when they style-match, share a
// column, are not separated by a confident band, and sit close enough
// vertically with compatible alignment.
func (m *Merger) MergeStacked(paragraphs []*Paragraph) []*Paragraph {
	if len(paragraphs) < 2 {
		return paragraphs
	}

	sortParagraphs(paragraphs)

	out := []*Paragraph{paragraphs[0]}
	for _, p := range paragraphs[1:] {
		last := out[len(out)-1]
		if m.stackedMergeable(last, p) {
			last.absorb(p)
			last.sortFragments()
			continue
		}
		out = append(out, p)
	}

	return out
}

// stackedMergeable applies the stage 3 / stage 5 merge criteria to a pair.
func (m *Merger) stackedMergeable(a, b *Paragraph) bool {
	if !m.styleMatchParagraphs(a, b) {
		return false
	}

	ra, rb := a.Rect(), b.Rect()
	if !m.policy.SameColumn(ra, rb, m.strips) {
		return false
	}
	if !m.policy.SameRegion(ra, rb, m.segments) {
		return false
	}
	if m.policy.SeparatedByBand(ra, rb, m.bands) {
		return false
	}

	maxFont := math.Max(a.MaxFontSize(), b.MaxFontSize())
	if maxFont <= 0 {
		maxFont = m.lineHeight
	}
	gapLimit := math.Min(m.lineHeight*m.config.Merge.StackedVerticalGapMultiplier, maxFont*m.config.Merge.StackedFontGapMultiplier)
	if ra.VerticalGap(rb) > gapLimit {
		return false
	}
	if m.linear() {
		return true
	}

	alignTol := maxFont * m.config.Merge.AlignToleranceMultiplier
	leftAligned := math.Abs(ra.Left-rb.Left) <= alignTol
	rightAligned := math.Abs(ra.Right-rb.Right) <= alignTol
	minWidth := math.Min(ra.Width(), rb.Width())
	strongOverlap := minWidth > 0 && ra.HorizontalOverlap(rb)/minWidth >= 0.5

	return leftAligned || rightAligned || strongOverlap
}

// Converge is stage 4: the bounded fixed-point loop. Each iteration runs the
// nested/overlap merge pass, then re-runs strip splitting and stacked
// merging. The loop stops when a pass produces no merges or the iteration
// cap is reached. Returns the final list and the iterations used.
func (m *Merger) Converge(paragraphs []*Paragraph) ([]*Paragraph, int) {
	iterations := 0
	for iterations < m.config.MaxIterations {
		iterations++

		var merges int
		paragraphs, merges = m.overlapPass(paragraphs)
		paragraphs = m.SplitAtStrips(paragraphs)
		paragraphs = m.MergeStacked(paragraphs)

		if merges == 0 {
			break
		}
	}
	return paragraphs, iterations
}

// overlapPass merges every style-matching, same-column pair whose boxes
// nest, overlap strongly, or satisfy the math proximity heuristic.
func (m *Merger) overlapPass(paragraphs []*Paragraph) ([]*Paragraph, int) {
	merges := 0

	for i := 0; i < len(paragraphs); i++ {
		for j := i + 1; j < len(paragraphs); j++ {
			a, b := paragraphs[i], paragraphs[j]
			if !m.overlapMergeable(a, b) {
				continue
			}
			a.absorb(b)
			a.sortFragments()
			paragraphs = append(paragraphs[:j], paragraphs[j+1:]...)
			j--
			merges++
		}
	}

	sortParagraphs(paragraphs)
	return paragraphs, merges
}

// overlapMergeable applies the stage 4 merge criteria to a pair.
func (m *Merger) overlapMergeable(a, b *Paragraph) bool {
	if !m.styleMatchParagraphs(a, b) {
		return false
	}

	ra, rb := a.Rect(), b.Rect()
	if !m.policy.SameColumn(ra, rb, m.strips) {
		return false
	}
	if !m.policy.SameRegion(ra, rb, m.segments) {
		return false
	}

	if ra.ContainsRect(rb) || rb.ContainsRect(ra) {
		return true
	}
	if ra.OverlapRatio(rb) > m.config.Merge.OverlapRatioThreshold {
		return true
	}
	return m.mathMergeable(a, b)
}

// mathMergeable is the math proximity heuristic: math-flagged paragraphs
// merge on vertical/horizontal/center proximity scaled by font size, with
// the tolerances widened when one side is a lone operator symbol.
func (m *Merger) mathMergeable(a, b *Paragraph) bool {
	if !a.HasMath() && !b.HasMath() {
		return false
	}

	font := math.Max(a.MaxFontSize(), b.MaxFontSize())
	if font <= 0 {
		font = m.lineHeight
	}

	relax := 1.0
	if a.IsOperatorOnly() || b.IsOperatorOnly() {
		relax = m.config.Merge.OperatorRelaxFactor
	}

	ra, rb := a.Rect(), b.Rect()
	vClose := ra.VerticalGap(rb) <= font*m.config.Merge.MathMergeVerticalMultiplier*relax
	hClose := ra.HorizontalGap(rb) <= font*m.config.Merge.MathMergeHorizontalMultiplier*relax
	if vClose && hClose {
		return true
	}

	return ra.Center().Distance(rb.Center()) <= font*m.config.Merge.MathMergeCenterMultiplier*relax
}

// FinalPass is stage 5: the stage 3 criteria applied across all remaining
// pairs, repeated until no merge fires. Termination is guaranteed because
// every merge shrinks the list.
func (m *Merger) FinalPass(paragraphs []*Paragraph) []*Paragraph {
	for {
		merged := false

	scan:
		for i := 0; i < len(paragraphs); i++ {
			for j := i + 1; j < len(paragraphs); j++ {
				if !m.stackedMergeable(paragraphs[i], paragraphs[j]) {
					continue
				}
				paragraphs[i].absorb(paragraphs[j])
				paragraphs[i].sortFragments()
				paragraphs = append(paragraphs[:j], paragraphs[j+1:]...)
				merged = true
				break scan
			}
		}

		if !merged {
			break
		}
	}

	sortParagraphs(paragraphs)
	return paragraphs
}

// StitchRuns is stage 6: within each paragraph, adjacent fragments at nearly
// identical baseline with near-zero horizontal gap and matching style are
// concatenated into single visual runs. Fragments themselves are untouched;
// runs group them by identifier.
func (m *Merger) StitchRuns(paragraphs []*Paragraph) {
	for _, p := range paragraphs {
		p.sortFragments()
		p.Runs = m.stitchParagraph(p)
	}
}

// stitchParagraph builds the run list for one paragraph.
func (m *Merger) stitchParagraph(p *Paragraph) []Run {
	var runs []Run

	for _, line := range groupLines(p.Fragments, m.lineHeight) {
		sort.Slice(line, func(i, j int) bool {
			return line[i].Rect.Left < line[j].Rect.Left
		})

		current := Run{FragmentIDs: []int{line[0].ID}, Text: line[0].Text}
		prev := line[0]

		for _, f := range line[1:] {
			if m.stitchable(&prev, &f) {
				current.FragmentIDs = append(current.FragmentIDs, f.ID)
				current.Text += f.Text
			} else {
				current.Text = norm.NFC.String(current.Text)
				runs = append(runs, current)
				current = Run{FragmentIDs: []int{f.ID}, Text: f.Text}
			}
			prev = f
		}
		current.Text = norm.NFC.String(current.Text)
		runs = append(runs, current)
	}

	return runs
}

// stitchable reports whether two line-adjacent fragments form one visual run.
func (m *Merger) stitchable(a, b *fragment.Fragment) bool {
	if a.FontFamily != b.FontFamily || a.Style != b.Style {
		return false
	}
	if math.Abs(a.FontSize-b.FontSize) > m.config.Merge.MaxFontSizeDiff {
		return false
	}
	if abs(a.Weight-b.Weight) > m.config.Merge.MaxInlineWeightDiff {
		return false
	}

	maxFont := math.Max(a.FontSize, b.FontSize)
	if maxFont <= 0 {
		maxFont = m.lineHeight
	}
	if math.Abs(a.Rect.Bottom-b.Rect.Bottom) > maxFont*m.config.Merge.BaselineToleranceMultiplier {
		return false
	}
	return math.Abs(b.Rect.Left-a.Rect.Right) <= maxFont*m.config.Merge.KerningMultiplier
}

// Dedupe is stage 7: overlap merging can leave a fragment in more than one
// paragraph; every fragment is kept in exactly its first paragraph in
// reading order. Paragraphs emptied by deduplication are dropped.
func (m *Merger) Dedupe(paragraphs []*Paragraph) []*Paragraph {
	seen := make(map[int]bool)

	var out []*Paragraph
	for _, p := range paragraphs {
		kept := p.Fragments[:0]
		for _, f := range p.Fragments {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			kept = append(kept, f)
		}
		p.Fragments = kept
		p.rectValid = false
		if len(p.Fragments) > 0 {
			out = append(out, p)
		}
	}

	return out
}

// styleMatchParagraphs compares the closest representatives of two
// paragraphs: the last fragment of the upper and the first of the lower.
func (m *Merger) styleMatchParagraphs(a, b *Paragraph) bool {
	fa, fb := a.Last(), b.First()
	if a.Rect().Top > b.Rect().Top {
		fa, fb = b.Last(), a.First()
	}
	if fa == nil || fb == nil {
		return false
	}
	return m.policy.StyleMatch(fa, fb)
}

// groupLines buckets fragments into text lines by top proximity: a fragment
// joins the open line when its top lies within half a line height of the
// line's top, otherwise it starts a new line. Fragments must be sorted by
// (top, left).
func groupLines(fragments []fragment.Fragment, lineHeight float64) [][]fragment.Fragment {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := lineHeight * 0.5

	var lines [][]fragment.Fragment
	current := []fragment.Fragment{fragments[0]}
	lineTop := fragments[0].Rect.Top

	for _, f := range fragments[1:] {
		if math.Abs(f.Rect.Top-lineTop) <= tolerance || overlapsVertically(f.Rect, current) {
			current = append(current, f)
			continue
		}
		lines = append(lines, current)
		current = []fragment.Fragment{f}
		lineTop = f.Rect.Top
	}
	lines = append(lines, current)

	return lines
}

// overlapsVertically reports whether the rect shares more than half its
// height with any fragment of the line.
func overlapsVertically(r model.Rect, line []fragment.Fragment) bool {
	for _, f := range line {
		if r.VerticalOverlap(f.Rect) > r.Height()*0.5 {
			return true
		}
	}
	return false
}

// pieceCenter returns the horizontal center of a line piece.
func pieceCenter(piece []fragment.Fragment) float64 {
	left := piece[0].Rect.Left
	right := piece[0].Rect.Right
	for _, f := range piece[1:] {
		left = math.Min(left, f.Rect.Left)
		right = math.Max(right, f.Rect.Right)
	}
	return (left + right) / 2
}

// bucketIndex counts the cut positions left of x.
func bucketIndex(cuts []float64, x float64) int {
	idx := 0
	for _, c := range cuts {
		if x > c {
			idx++
		}
	}
	return idx
}
