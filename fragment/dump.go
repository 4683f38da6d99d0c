package fragment

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pagelab/reflow/model"
)

// Dump is the JSON interchange form of one page's raw fragments, as emitted
// by the rendering-side extractor. It is the only serialized input format the
// CLI and the analysis service accept; the engine itself never reads files.
type Dump struct {
	// Page is the page rectangle in device units
	Page model.Rect `json:"page"`

	// Scale is the device-to-logical scale factor
	Scale float64 `json:"scale"`

	// Fragments are the raw fragments in extraction order
	Fragments []RawFragment `json:"fragments"`
}

// ReadDump decodes a page dump from JSON.
func ReadDump(r io.Reader) (*Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding fragment dump: %w", err)
	}
	return &d, nil
}

// WriteDump encodes a page dump as indented JSON.
func WriteDump(w io.Writer, d *Dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding fragment dump: %w", err)
	}
	return nil
}

// Snapshot builds the normalized per-page snapshot from the dump.
func (d *Dump) Snapshot() *Snapshot {
	return NewSnapshot(d.Fragments, d.Page, d.Scale)
}
