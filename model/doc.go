// Package model provides the geometric primitives shared by the layout
// reconstruction pipeline.
//
// All geometry lives in a y-down coordinate space: the origin is the top-left
// corner of the page, x grows to the right and y grows downward. This matches
// the coordinate space of the fragment dumps the engine consumes, so no axis
// flipping happens anywhere in the pipeline.
//
// # Geometry
//
//   - [Rect] - rectangle with intersection, union, overlap and gap calculations
//   - [Point] - 2D point with distance calculation
//
// # Style
//
// [RGB] carries a parsed fragment color. [ParseColor] accepts the color
// syntaxes produced by style computation (hex, rgb(), rgba() and a few named
// colors) and never fails; unparseable input yields black.
package model
