package layout

import (
	"sort"
	"strings"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// Paragraph is an ordered group of fragments believed to form one reading
// block. Paragraphs are mutable only inside the merger pipeline; the list a
// detection run returns is final and must not be modified.
type Paragraph struct {
	// Fragments are the member fragments. The merger keeps them sorted by
	// (top, left) after every mutation for deterministic reading order.
	Fragments []fragment.Fragment

	// Runs are the inline visual runs produced by ligature stitching:
	// consecutive fragments on one baseline with no visible gap, grouped by
	// fragment identifier. Populated by the final pipeline stage.
	Runs []Run

	rect      model.Rect
	rectValid bool
}

// Run is one stitched visual run inside a paragraph.
type Run struct {
	// FragmentIDs identify the member fragments in left-to-right order
	FragmentIDs []int

	// Text is the concatenated, normalized run text
	Text string
}

// newParagraph creates a paragraph seeded with one fragment.
func newParagraph(f fragment.Fragment) *Paragraph {
	return &Paragraph{Fragments: []fragment.Fragment{f}}
}

// add appends a fragment and invalidates the cached bounds.
func (p *Paragraph) add(f fragment.Fragment) {
	p.Fragments = append(p.Fragments, f)
	p.rectValid = false
}

// absorb moves every fragment of the other paragraph into this one.
func (p *Paragraph) absorb(other *Paragraph) {
	p.Fragments = append(p.Fragments, other.Fragments...)
	p.rectValid = false
}

// Rect returns the bounding box of the paragraph's fragments. The value is
// cached until the fragment set changes; the cache lives and dies with the
// paragraph, which is scoped to a single detection call.
func (p *Paragraph) Rect() model.Rect {
	if p.rectValid {
		return p.rect
	}
	if len(p.Fragments) == 0 {
		return model.Rect{}
	}

	r := p.Fragments[0].Rect
	for _, f := range p.Fragments[1:] {
		r = r.Union(f.Rect)
	}
	p.rect = r
	p.rectValid = true
	return r
}

// First returns the first fragment in reading order
func (p *Paragraph) First() *fragment.Fragment {
	if len(p.Fragments) == 0 {
		return nil
	}
	return &p.Fragments[0]
}

// Last returns the last fragment in reading order
func (p *Paragraph) Last() *fragment.Fragment {
	if len(p.Fragments) == 0 {
		return nil
	}
	return &p.Fragments[len(p.Fragments)-1]
}

// MaxFontSize returns the largest font size among the paragraph's fragments
func (p *Paragraph) MaxFontSize() float64 {
	size := 0.0
	for _, f := range p.Fragments {
		if f.FontSize > size {
			size = f.FontSize
		}
	}
	return size
}

// FragmentIDs returns the identifiers of the member fragments in order, for
// recovering source fragments downstream.
func (p *Paragraph) FragmentIDs() []int {
	ids := make([]int, len(p.Fragments))
	for i, f := range p.Fragments {
		ids[i] = f.ID
	}
	return ids
}

// Text assembles the paragraph text in reading order, joining fragments with
// single spaces. Stitched runs, when present, are joined without spaces
// inside each run.
func (p *Paragraph) Text() string {
	if len(p.Runs) > 0 {
		parts := make([]string, len(p.Runs))
		for i, r := range p.Runs {
			parts[i] = r.Text
		}
		return strings.Join(parts, " ")
	}

	parts := make([]string, len(p.Fragments))
	for i, f := range p.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// IsOperatorOnly reports whether the paragraph consists of a single fragment
// holding one operator or relation symbol.
func (p *Paragraph) IsOperatorOnly() bool {
	return len(p.Fragments) == 1 && fragment.IsOperatorText(p.Fragments[0].Text)
}

// HasMath reports whether any member fragment is math-flagged
func (p *Paragraph) HasMath() bool {
	for _, f := range p.Fragments {
		if f.IsMath {
			return true
		}
	}
	return false
}

// sortFragments orders the member fragments by (top, left) and invalidates
// the cached bounds.
func (p *Paragraph) sortFragments() {
	sort.Slice(p.Fragments, func(i, j int) bool {
		a, b := p.Fragments[i].Rect, p.Fragments[j].Rect
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
	p.rectValid = false
}

// sortParagraphs orders a paragraph list by (top, left) of the bounding box.
func sortParagraphs(paragraphs []*Paragraph) {
	sort.Slice(paragraphs, func(i, j int) bool {
		a, b := paragraphs[i].Rect(), paragraphs[j].Rect()
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
}
