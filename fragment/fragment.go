package fragment

import (
	"strconv"
	"strings"

	"github.com/pagelab/reflow/model"
)

// FontStyle represents the slant of a fragment's font.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
	StyleOblique
)

// String returns a string representation of the font style
func (s FontStyle) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	default:
		return "normal"
	}
}

// ParseFontStyle maps a computed font-style string to a FontStyle.
// Unknown values are treated as normal.
func ParseFontStyle(s string) FontStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic":
		return StyleItalic
	case "oblique":
		return StyleOblique
	default:
		return StyleNormal
	}
}

// MathContext classifies how a math-flagged fragment participates in the
// surrounding text.
type MathContext int

const (
	// MathNone marks a fragment with no detected math content.
	MathNone MathContext = iota

	// MathInline marks math content that flows with the surrounding text.
	MathInline

	// MathEquation marks display math such as a full equation line.
	MathEquation
)

// String returns a string representation of the math context
func (m MathContext) String() string {
	switch m {
	case MathInline:
		return "inline"
	case MathEquation:
		return "equation"
	default:
		return "none"
	}
}

// RawFragment is one positioned run of text exactly as reported by the
// rendering surface: device-unit geometry and string-valued computed style.
type RawFragment struct {
	// Rect is the fragment's bounding rectangle in device units
	Rect model.Rect `json:"rect"`

	// Text is the fragment's text content
	Text string `json:"text"`

	// FontFamily is the computed font family name
	FontFamily string `json:"fontFamily"`

	// FontSizePx is the computed font size in device pixels
	FontSizePx float64 `json:"fontSizePx"`

	// FontWeight is the computed font weight ("bold", "normal", or "100".."900")
	FontWeight string `json:"fontWeight"`

	// FontStyle is the computed font style ("normal", "italic", "oblique")
	FontStyle string `json:"fontStyle"`

	// Color is the computed text color in any CSS color syntax
	Color string `json:"color"`
}

// Fragment is the normalized, immutable form of a RawFragment. It carries a
// stable identifier (the fragment's index in the snapshot input) so callers
// can recover source fragments from paragraph output.
type Fragment struct {
	// ID is the fragment's index in the snapshot input
	ID int

	// Rect is the bounding rectangle in logical units
	Rect model.Rect

	// Text is the fragment's text content
	Text string

	// FontFamily is the font family name
	FontFamily string

	// FontSize is the font size in logical units
	FontSize float64

	// Weight is the numeric font weight on the 100-900 scale
	Weight int

	// Style is the font slant
	Style FontStyle

	// Color is the parsed text color
	Color model.RGB

	// IsMath reports whether the fragment was flagged as math content
	IsMath bool

	// MathContext classifies the math content (equation, inline, none)
	MathContext MathContext

	// Direction is the dominant text direction of the fragment
	Direction Direction

	// signature is the precomputed style-equality key
	signature string
}

// Signature returns the fragment's style-equality signature. Two fragments
// with equal signatures have identical family, size, weight, style and color.
func (f *Fragment) Signature() string {
	return f.signature
}

// EndsWithHyphen reports whether the fragment's text ends in a hyphen or soft
// hyphen, signalling a word continued on the next line.
func (f *Fragment) EndsWithHyphen() bool {
	t := strings.TrimRight(f.Text, " \t")
	return strings.HasSuffix(t, "-") || strings.HasSuffix(t, "\u00ad")
}

// styleSignature builds the style-equality key for a normalized fragment.
func styleSignature(family string, size float64, weight int, style FontStyle, color model.RGB) string {
	var b strings.Builder
	b.WriteString(family)
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(size, 'f', 2, 64))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(weight))
	b.WriteByte('|')
	b.WriteString(style.String())
	b.WriteByte('|')
	b.WriteString(color.String())
	return b.String()
}

// ParseFontWeight maps a computed font-weight string to the numeric 100-900
// scale: "bold" maps to 700, "normal" to 400, numeric strings are parsed
// directly. Anything unparseable yields 400.
func ParseFontWeight(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bold":
		return 700
	case "normal", "":
		return 400
	}

	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || w < 100 || w > 900 {
		return 400
	}
	return w
}
