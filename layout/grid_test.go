package layout

import (
	"testing"
)

func TestGridDetector_EmptyInput(t *testing.T) {
	detector := NewGridDetector()

	if lines := detector.Detect(nil, letterPage, 12); len(lines) != 0 {
		t.Errorf("expected no gutters for empty input, got %d", len(lines))
	}
}

func TestGridDetector_HeaderGutter(t *testing.T) {
	detector := NewGridDetector()

	// A header block and a body block separated by 48 units of whitespace.
	snap := makeSnapshot(
		makeRaw(72, 20, 540, 32, "header"),
		makeRaw(72, 80, 540, 92, "body line one"),
		makeRaw(72, 100, 540, 112, "body line two"),
		makeRaw(72, 120, 540, 132, "body line three"),
	)

	lines := detector.Detect(snap.Fragments, letterPage, 10)

	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 gutter line, got %d (%v)", len(lines), lines)
	}
	if lines[0] < 32 || lines[0] > 80 {
		t.Errorf("gutter line %g outside the header gap [32,80]", lines[0])
	}
}

func TestGridDetector_NormalLeadingIgnored(t *testing.T) {
	detector := NewGridDetector()

	snap := makeSnapshot(
		makeRaw(72, 100, 540, 112, "line one"),
		makeRaw(72, 120, 540, 132, "line two"),
		makeRaw(72, 140, 540, 152, "line three"),
		makeRaw(72, 160, 540, 172, "line four"),
	)

	lines := detector.Detect(snap.Fragments, letterPage, 12)

	for _, y := range lines {
		if y > 100 && y < 172 {
			t.Errorf("normal leading produced a gutter at y=%g", y)
		}
	}
}

func TestGridDetector_PageMarginsIgnored(t *testing.T) {
	detector := NewGridDetector()

	snap := makeSnapshot(
		makeRaw(72, 300, 540, 312, "only line"),
	)

	lines := detector.Detect(snap.Fragments, letterPage, 12)

	if len(lines) != 0 {
		t.Errorf("page margins should not be gutters, got %v", lines)
	}
}

func TestBandsFromGrid(t *testing.T) {
	config := DefaultBandConfig()
	bands := BandsFromGrid([]float64{100, 300}, 10, config)

	if len(bands) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(bands))
	}
	for _, b := range bands {
		if b.Confidence != config.GridConfidence {
			t.Errorf("expected grid confidence %g, got %g", config.GridConfidence, b.Confidence)
		}
		if b.Height != 10*config.GapMultiplier {
			t.Errorf("expected height %g, got %g", 10*config.GapMultiplier, b.Height)
		}
	}
}

func TestMergeBands_Coalescing(t *testing.T) {
	config := DefaultBandConfig()
	bands := []HorizontalBand{
		{Y: 100, Height: 8, Confidence: 0.7},
		{Y: 106, Height: 8, Confidence: 0.95},
		{Y: 400, Height: 8, Confidence: 0.6},
	}

	merged := MergeBands(bands, 10, config)

	if len(merged) != 2 {
		t.Fatalf("expected 2 bands after coalescing, got %d", len(merged))
	}
	if merged[0].Confidence != 0.95 {
		t.Errorf("coalesced band should keep the best confidence, got %g", merged[0].Confidence)
	}
	if merged[0].Top() > 96 || merged[0].Bottom() < 110 {
		t.Errorf("coalesced band should span both sources, got [%g, %g]", merged[0].Top(), merged[0].Bottom())
	}
}

func TestHorizontalBand_SeparatesVertically(t *testing.T) {
	band := HorizontalBand{Y: 100, Height: 10, Confidence: 0.9}

	upper := makeSnapshot(makeRaw(72, 50, 540, 80, "upper")).Fragments[0].Rect
	lower := makeSnapshot(makeRaw(72, 120, 540, 150, "lower")).Fragments[0].Rect

	if !band.SeparatesVertically(upper, lower) {
		t.Error("band at y=100 should separate rects ending at 80 and starting at 120")
	}
	if !band.SeparatesVertically(lower, upper) {
		t.Error("separation must be order independent")
	}

	touching := makeSnapshot(makeRaw(72, 90, 540, 130, "straddles")).Fragments[0].Rect
	if band.SeparatesVertically(upper, touching) {
		t.Error("band inside a rect's extent does not separate it")
	}
}

func TestBandsFromStrips_SynthesizesEdges(t *testing.T) {
	config := DefaultBandConfig()
	strips := []VerticalStrip{{Left: 290, Right: 322, Top: 100, Bottom: 700, Confidence: 0.8}}

	bands := BandsFromStrips(strips, letterPage, 10, config)

	if len(bands) != 2 {
		t.Fatalf("expected top and bottom synthesized bands, got %d", len(bands))
	}
	if bands[0].Y != 100 || bands[1].Y != 700 {
		t.Errorf("expected bands at strip extents 100 and 700, got %g and %g", bands[0].Y, bands[1].Y)
	}

	// Strips spanning the whole page synthesize nothing.
	full := []VerticalStrip{{Left: 290, Right: 322, Top: 5, Bottom: 790, Confidence: 0.8}}
	if got := BandsFromStrips(full, letterPage, 10, config); len(got) != 0 {
		t.Errorf("expected no synthesized bands for full-height strips, got %d", len(got))
	}
}
