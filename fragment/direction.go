package fragment

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction represents the dominant text direction of a fragment.
type Direction int

const (
	// DirectionNeutral marks text with no strong directional characters.
	DirectionNeutral Direction = iota

	// DirectionLTR marks left-to-right text.
	DirectionLTR

	// DirectionRTL marks right-to-left text (Hebrew, Arabic).
	DirectionRTL
)

// String returns a string representation of the direction
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "neutral"
	}
}

// DetectDirection determines the dominant direction of a text run by counting
// strong directional characters per the Unicode bidi classes. Ties and runs
// without strong characters are neutral.
func DetectDirection(text string) Direction {
	var ltr, rtl int

	for i := 0; i < len(text); {
		p, sz := bidi.LookupString(text[i:])
		if sz == 0 {
			break
		}
		switch p.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
		i += sz
	}

	switch {
	case rtl > ltr:
		return DirectionRTL
	case ltr > rtl:
		return DirectionLTR
	default:
		return DirectionNeutral
	}
}
