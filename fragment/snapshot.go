package fragment

import (
	"github.com/pagelab/reflow/model"
)

// Snapshot holds the normalized fragments of one page. It is built once per
// layout-detection call and read-only thereafter; the layout pipeline shares
// it freely because nothing in it is ever mutated.
type Snapshot struct {
	// Fragments are the normalized fragments in input order. Fragments with
	// non-positive width or height are filtered out during construction, so
	// IDs are stable input indices but not necessarily contiguous.
	Fragments []Fragment

	// Page is the page rectangle in logical units
	Page model.Rect

	// Scale is the device-to-logical factor the snapshot was built with
	Scale float64
}

// NewSnapshot normalizes raw fragments into an immutable per-page snapshot.
// Geometry is divided by scale (a scale of 0 is treated as 1), style strings
// are parsed with their documented fallbacks, and math content is detected
// from the font family and text. Fragments with non-positive dimensions are
// silently dropped. NewSnapshot is a pure function of its input and never
// fails; an empty input yields an empty snapshot.
func NewSnapshot(raw []RawFragment, page model.Rect, scale float64) *Snapshot {
	if scale <= 0 {
		scale = 1
	}

	snap := &Snapshot{
		Fragments: make([]Fragment, 0, len(raw)),
		Page:      scaleRect(page, scale),
		Scale:     scale,
	}

	for i, rf := range raw {
		rect := scaleRect(rf.Rect, scale)
		if rect.IsEmpty() {
			continue
		}

		weight := ParseFontWeight(rf.FontWeight)
		style := ParseFontStyle(rf.FontStyle)
		color := model.ParseColor(rf.Color)
		size := rf.FontSizePx / scale
		isMath, mathCtx := detectMath(rf.FontFamily, rf.Text)

		snap.Fragments = append(snap.Fragments, Fragment{
			ID:          i,
			Rect:        rect,
			Text:        rf.Text,
			FontFamily:  rf.FontFamily,
			FontSize:    size,
			Weight:      weight,
			Style:       style,
			Color:       color,
			IsMath:      isMath,
			MathContext: mathCtx,
			Direction:   DetectDirection(rf.Text),
			signature:   styleSignature(rf.FontFamily, size, weight, style, color),
		})
	}

	return snap
}

// ByID returns the fragment with the given identifier, or nil if it was
// filtered out or never existed.
func (s *Snapshot) ByID(id int) *Fragment {
	for i := range s.Fragments {
		if s.Fragments[i].ID == id {
			return &s.Fragments[i]
		}
	}
	return nil
}

// Len returns the number of fragments that survived normalization.
func (s *Snapshot) Len() int {
	return len(s.Fragments)
}

// scaleRect converts a device-unit rectangle to logical units.
func scaleRect(r model.Rect, scale float64) model.Rect {
	return model.Rect{
		Left:   r.Left / scale,
		Top:    r.Top / scale,
		Right:  r.Right / scale,
		Bottom: r.Bottom / scale,
	}
}
