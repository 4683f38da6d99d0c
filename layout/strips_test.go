package layout

import (
	"testing"
)

func TestStripDetector_EmptyInput(t *testing.T) {
	detector := NewStripDetector()

	strips, bands := detector.Detect(nil, letterPage)

	if len(strips) != 0 {
		t.Errorf("expected no strips for empty input, got %d", len(strips))
	}
	if len(bands) != 0 {
		t.Errorf("expected no bands for empty input, got %d", len(bands))
	}
}

func TestStripDetector_TwoColumnGutter(t *testing.T) {
	detector := NewStripDetector()
	snap := makeSnapshot(twoColumnRaws(100, 700)...)

	strips, _ := detector.Detect(snap.Fragments, letterPage)

	if len(strips) != 1 {
		t.Fatalf("expected 1 strip, got %d", len(strips))
	}

	s := strips[0]
	if s.CenterX() < 290 || s.CenterX() > 322 {
		t.Errorf("strip center %g outside gutter [290,322]", s.CenterX())
	}
	if s.Confidence < 0.6 {
		t.Errorf("expected high confidence for a clean gutter, got %g", s.Confidence)
	}
	if s.Height() < 400 {
		t.Errorf("expected strip to span the column body, got height %g", s.Height())
	}
}

func TestStripDetector_SingleColumnHasNoStrips(t *testing.T) {
	detector := NewStripDetector()

	snap := makeSnapshot(
		makeRaw(72, 100, 540, 112, "full width line one"),
		makeRaw(72, 120, 540, 132, "full width line two"),
		makeRaw(72, 140, 540, 152, "full width line three"),
		makeRaw(72, 160, 540, 172, "full width line four"),
	)

	strips, _ := detector.Detect(snap.Fragments, letterPage)

	for _, s := range strips {
		if s.CenterX() > 72 && s.CenterX() < 540 {
			t.Errorf("unexpected interior strip at x=%g", s.CenterX())
		}
	}
}

func TestStripDetector_ConfidenceBounds(t *testing.T) {
	detector := NewStripDetector()
	snap := makeSnapshot(twoColumnRaws(50, 750)...)

	strips, bands := detector.Detect(snap.Fragments, letterPage)

	for _, s := range strips {
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("strip confidence %g outside [0,1]", s.Confidence)
		}
	}
	for _, b := range bands {
		if b.Confidence < 0 || b.Confidence > 1 {
			t.Errorf("band confidence %g outside [0,1]", b.Confidence)
		}
	}
}

func TestStripDetector_SectionGapBecomesBand(t *testing.T) {
	detector := NewStripDetector()

	// Two blocks of full-width text separated by a 60-unit section gap.
	snap := makeSnapshot(
		makeRaw(72, 100, 540, 112, "upper one"),
		makeRaw(72, 120, 540, 132, "upper two"),
		makeRaw(72, 140, 540, 152, "upper three"),
		makeRaw(72, 212, 540, 224, "lower one"),
		makeRaw(72, 232, 540, 244, "lower two"),
		makeRaw(72, 252, 540, 264, "lower three"),
	)

	_, bands := detector.Detect(snap.Fragments, letterPage)

	found := false
	for _, b := range bands {
		if b.Y > 152 && b.Y < 212 {
			found = true
		}
	}
	if !found {
		t.Error("expected a horizontal band inside the section gap")
	}
}

func TestStripDetector_NormalLeadingIsNotABand(t *testing.T) {
	detector := NewStripDetector()
	snap := makeSnapshot(
		makeRaw(72, 100, 540, 112, "line one"),
		makeRaw(72, 120, 540, 132, "line two"),
		makeRaw(72, 140, 540, 152, "line three"),
	)

	_, bands := detector.Detect(snap.Fragments, letterPage)

	for _, b := range bands {
		if b.Y > 100 && b.Y < 152 {
			t.Errorf("normal line leading produced a band at y=%g", b.Y)
		}
	}
}

func TestMedianLineHeight(t *testing.T) {
	snap := makeSnapshot(
		makeRaw(72, 100, 300, 110, "ten"),
		makeRaw(72, 120, 300, 132, "twelve"),
		makeRaw(72, 140, 300, 154, "fourteen"),
		makeRaw(72, 160, 300, 162, "ignored, too short"),
	)

	if got := MedianLineHeight(snap.Fragments); got != 12 {
		t.Errorf("expected median 12, got %g", got)
	}

	if got := MedianLineHeight(nil); got != 12 {
		t.Errorf("expected fallback 12 for empty input, got %g", got)
	}
}
