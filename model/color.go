package model

import (
	"math"
	"strconv"
	"strings"
)

// RGB represents a fragment color as an 8-bit RGB triple
type RGB struct {
	R, G, B uint8
}

// Distance calculates the Euclidean distance to another color in RGB space.
// The maximum possible distance is ~441.7 (black to white).
func (c RGB) Distance(other RGB) float64 {
	dr := float64(c.R) - float64(other.R)
	dg := float64(c.G) - float64(other.G)
	db := float64(c.B) - float64(other.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// String returns the color in rgb(r, g, b) notation
func (c RGB) String() string {
	return "rgb(" + strconv.Itoa(int(c.R)) + ", " + strconv.Itoa(int(c.G)) + ", " + strconv.Itoa(int(c.B)) + ")"
}

// namedColors covers the names style computation is known to emit verbatim.
var namedColors = map[string]RGB{
	"black": {0, 0, 0},
	"white": {255, 255, 255},
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
	"gray":  {128, 128, 128},
	"grey":  {128, 128, 128},
}

// ParseColor parses a CSS-style color string into an RGB triple.
// Supported forms: rgb(r, g, b), rgba(r, g, b, a), #rgb, #rrggbb, and a small
// set of named colors. Any unparseable input yields black; ParseColor never
// fails.
func ParseColor(s string) RGB {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RGB{}
	}

	if c, ok := namedColors[s]; ok {
		return c
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}

	return RGB{}
}

// parseHexColor parses 3- and 6-digit hex color bodies
func parseHexColor(hex string) RGB {
	switch len(hex) {
	case 3:
		r, errR := strconv.ParseUint(strings.Repeat(string(hex[0]), 2), 16, 8)
		g, errG := strconv.ParseUint(strings.Repeat(string(hex[1]), 2), 16, 8)
		b, errB := strconv.ParseUint(strings.Repeat(string(hex[2]), 2), 16, 8)
		if errR != nil || errG != nil || errB != nil {
			return RGB{}
		}
		return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
	case 6:
		r, errR := strconv.ParseUint(hex[0:2], 16, 8)
		g, errG := strconv.ParseUint(hex[2:4], 16, 8)
		b, errB := strconv.ParseUint(hex[4:6], 16, 8)
		if errR != nil || errG != nil || errB != nil {
			return RGB{}
		}
		return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
	default:
		return RGB{}
	}
}

// parseRGBFunc parses rgb(...) and rgba(...) notation. The alpha component,
// when present, is ignored.
func parseRGBFunc(s string) RGB {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return RGB{}
	}

	parts := strings.Split(s[open+1:close], ",")
	if len(parts) < 3 {
		return RGB{}
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 {
			return RGB{}
		}
		if v > 255 {
			v = 255
		}
		channels[i] = uint8(math.Round(v))
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}
}
