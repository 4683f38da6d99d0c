package layout

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// genRawFragment generates a random text fragment inside the letter page.
func genRawFragment() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 540),
		gen.Float64Range(0, 760),
		gen.Float64Range(20, 120),
		gen.Float64Range(8, 16),
	).Map(func(vals []interface{}) fragment.RawFragment {
		x, ok := vals[0].(float64)
		if !ok {
			panic("expected float64")
		}
		y, ok := vals[1].(float64)
		if !ok {
			panic("expected float64")
		}
		w, ok := vals[2].(float64)
		if !ok {
			panic("expected float64")
		}
		h, ok := vals[3].(float64)
		if !ok {
			panic("expected float64")
		}
		return fragment.RawFragment{
			Rect:       model.NewRect(x, y, x+w, y+h),
			Text:       "text",
			FontFamily: "Times",
			FontSizePx: h,
			FontWeight: "normal",
			FontStyle:  "normal",
			Color:      "rgb(0, 0, 0)",
		}
	})
}

// genRawFragments generates a slice of random fragments.
func genRawFragments() gopter.Gen {
	return gen.SliceOfN(30, genRawFragment())
}

// TestDetect_EveryFragmentAssignedOnce verifies the output contract: every
// input fragment lands in exactly one paragraph, whatever the geometry.
func TestDetect_EveryFragmentAssignedOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("each fragment appears in exactly one paragraph", prop.ForAll(
		func(raws []fragment.RawFragment, forceLinear bool) bool {
			config := DefaultConfig()
			config.ForceLinear = forceLinear
			d := NewDetectorWithConfig(config)

			snap := fragment.NewSnapshot(raws, letterPage, 1)
			result := d.Detect(snap)

			seen := make(map[int]int)
			for _, ids := range result.FragmentIDs() {
				for _, id := range ids {
					seen[id]++
				}
			}

			if len(seen) != snap.Len() {
				return false
			}
			for _, count := range seen {
				if count != 1 {
					return false
				}
			}
			return true
		},
		genRawFragments(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestDetect_ConfidencesBounded verifies every reported confidence is in [0,1].
func TestDetect_ConfidencesBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("strip and band confidences stay in [0,1]", prop.ForAll(
		func(raws []fragment.RawFragment) bool {
			d := NewDetector()
			result := d.Detect(fragment.NewSnapshot(raws, letterPage, 1))

			for _, s := range result.Strips {
				if s.Confidence < 0 || s.Confidence > 1 {
					return false
				}
			}
			for _, b := range result.Bands {
				if b.Confidence < 0 || b.Confidence > 1 {
					return false
				}
			}
			return true
		},
		genRawFragments(),
	))

	properties.TestingRun(t)
}

// TestDetect_ParagraphsOrdered verifies paragraph fragments stay sorted by
// (top, left) no matter how the merge stages shuffle them.
func TestDetect_ParagraphsOrdered(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fragments inside a paragraph are in reading order", prop.ForAll(
		func(raws []fragment.RawFragment) bool {
			d := NewDetector()
			result := d.Detect(fragment.NewSnapshot(raws, letterPage, 1))

			for _, p := range result.Paragraphs {
				for i := 1; i < len(p.Fragments); i++ {
					a, b := p.Fragments[i-1].Rect, p.Fragments[i].Rect
					if a.Top > b.Top || (a.Top == b.Top && a.Left > b.Left) {
						return false
					}
				}
			}
			return true
		},
		genRawFragments(),
	))

	properties.TestingRun(t)
}
