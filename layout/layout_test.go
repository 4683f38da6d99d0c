package layout

import (
	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// letterPage is the page rectangle most tests use.
var letterPage = model.NewRect(0, 0, 612, 792)

// makeRaw creates a raw fragment with sensible defaults for layout tests.
func makeRaw(left, top, right, bottom float64, text string) fragment.RawFragment {
	return fragment.RawFragment{
		Rect:       model.NewRect(left, top, right, bottom),
		Text:       text,
		FontFamily: "Times",
		FontSizePx: bottom - top,
		FontWeight: "normal",
		FontStyle:  "normal",
		Color:      "rgb(0, 0, 0)",
	}
}

// makeSnapshot normalizes raw fragments against the letter page.
func makeSnapshot(raws ...fragment.RawFragment) *fragment.Snapshot {
	return fragment.NewSnapshot(raws, letterPage, 1)
}

// twoColumnRaws builds an academic two-column page: left column at x 72-290,
// a gutter at x 290-322, right column at x 322-540, lines every 20 units.
func twoColumnRaws(topY, bottomY float64) []fragment.RawFragment {
	var raws []fragment.RawFragment
	for y := topY; y+10 <= bottomY; y += 20 {
		raws = append(raws, makeRaw(72, y, 290, y+10, "left column line"))
		raws = append(raws, makeRaw(322, y, 540, y+10, "right column line"))
	}
	return raws
}

// paragraphIDs flattens a paragraph list into its fragment identifier lists.
func paragraphIDs(paragraphs []*Paragraph) [][]int {
	ids := make([][]int, len(paragraphs))
	for i, p := range paragraphs {
		ids[i] = p.FragmentIDs()
	}
	return ids
}
