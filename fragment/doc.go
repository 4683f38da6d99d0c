// Package fragment provides the normalized input model for layout
// reconstruction: positioned runs of text with geometry and computed style.
//
// Raw fragments arrive in device units with string-valued style properties,
// exactly as a rendering surface reports them. NewSnapshot normalizes them
// once per page into immutable Fragment records: coordinates are scaled to
// logical units, font weights are mapped to the numeric 100-900 scale, colors
// are parsed to RGB triples, and math content is flagged from the font family
// and the character repertoire. Fragments are never mutated after the
// snapshot is built; the layout pipeline groups them into paragraphs but
// always by reference to their stable identifiers.
//
// The package also defines the JSON page-dump interchange format used by the
// CLI and the analysis service (see Dump).
package fragment
