package htmldump

import (
	"strings"
	"testing"
)

const sampleDump = `<!DOCTYPE html>
<html><body>
<div class="page" style="width: 612px; height: 792px" data-scale="2">
  <span style="left: 72px; top: 100px; width: 218px; height: 12px; font-family: 'Times New Roman', serif; font-size: 12px; font-weight: normal; font-style: normal; color: rgb(0, 0, 0)">First fragment</span>
  <span style="left: 72px; top: 120px; width: 100px; height: 12px; font-family: Times; font-size: 12px; font-weight: bold; color: rgb(20, 20, 20)">Second <b>fragment</b></span>
</div>
</body></html>`

func TestOpenReader(t *testing.T) {
	dump, err := OpenReader(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dump.Page.Right != 612 || dump.Page.Bottom != 792 {
		t.Errorf("unexpected page rect: %+v", dump.Page)
	}
	if dump.Scale != 2 {
		t.Errorf("expected scale 2, got %g", dump.Scale)
	}
	if len(dump.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(dump.Fragments))
	}

	f := dump.Fragments[0]
	if f.Rect.Left != 72 || f.Rect.Top != 100 || f.Rect.Right != 290 || f.Rect.Bottom != 112 {
		t.Errorf("unexpected rect: %+v", f.Rect)
	}
	if f.Text != "First fragment" {
		t.Errorf("unexpected text: %q", f.Text)
	}
	if f.FontFamily != "Times New Roman" {
		t.Errorf("expected quoted family list to reduce to first entry, got %q", f.FontFamily)
	}
	if f.FontSizePx != 12 {
		t.Errorf("expected font size 12, got %g", f.FontSizePx)
	}

	// Nested markup inside a span contributes to its text.
	if got := dump.Fragments[1].Text; got != "Second fragment" {
		t.Errorf("unexpected nested text: %q", got)
	}
	if dump.Fragments[1].FontWeight != "bold" {
		t.Errorf("expected bold weight, got %q", dump.Fragments[1].FontWeight)
	}
}

func TestOpenReader_BodyFallback(t *testing.T) {
	dump, err := OpenReader(strings.NewReader(
		`<html><body><span style="left: 0px; top: 0px; width: 10px; height: 10px">x</span></body></html>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dump.Fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(dump.Fragments))
	}
	if dump.Scale != 1 {
		t.Errorf("expected default scale 1, got %g", dump.Scale)
	}
	if !dump.Page.IsEmpty() {
		t.Errorf("expected an empty page rect without container styles, got %+v", dump.Page)
	}
}

func TestOpenReader_SnapshotRoundTrip(t *testing.T) {
	dump, err := OpenReader(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := dump.Snapshot()

	if snap.Len() != 2 {
		t.Fatalf("expected 2 snapshot fragments, got %d", snap.Len())
	}
	// Scale 2 halves all coordinates.
	if got := snap.Fragments[0].Rect.Left; got != 36 {
		t.Errorf("expected scaled left 36, got %g", got)
	}
	if got := snap.Fragments[1].Weight; got != 700 {
		t.Errorf("expected numeric weight 700, got %d", got)
	}
}

func TestParseStyle_Malformed(t *testing.T) {
	props := parseStyle("left: 10px; garbage; : nothing; top:20px")
	if props["left"] != "10px" || props["top"] != "20px" {
		t.Errorf("unexpected properties: %v", props)
	}
}

func TestParsePx(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12px", 12},
		{" 7.5px ", 7.5},
		{"42", 42},
		{"", 0},
		{"auto", 0},
	}
	for _, tt := range tests {
		if got := parsePx(tt.in); got != tt.want {
			t.Errorf("parsePx(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
