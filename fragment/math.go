package fragment

import (
	"regexp"
	"strings"
)

// mathFontPattern matches font families used for mathematical typesetting:
// TeX computer-modern math fonts, MathJax/KaTeX web fonts and symbol fonts.
var mathFontPattern = regexp.MustCompile(`(?i)(cmmi|cmsy|cmex|msam|msbm|math|symbol|mjx|katex_(math|ams|size)|stix|xits|latinmodern-math|asana)`)

// mathSymbols is the fixed set of operator and relation characters whose
// presence flags a fragment as math content.
const mathSymbols = "=+−±×÷∑∏∫∮√∂∇∞≈≠≤≥≡≅∝∈∉⊂⊃⊆⊇∪∩∧∨¬∀∃→←↔⇒⇐⇔⋅∗′″⟨⟩"

// isMathRune reports whether a rune falls in a Unicode range associated with
// mathematical notation: Greek letters, sub/superscripts, math operators,
// letterlike symbols, and the math alphanumeric plane.
func isMathRune(r rune) bool {
	switch {
	case r >= 0x0391 && r <= 0x03C9: // Greek
		return true
	case r >= 0x2070 && r <= 0x209F: // sub/superscripts
		return true
	case r == 0x00B9 || r == 0x00B2 || r == 0x00B3: // Latin-1 superscripts
		return true
	case r >= 0x2200 && r <= 0x22FF: // mathematical operators
		return true
	case r >= 0x2100 && r <= 0x214F: // letterlike symbols
		return true
	case r >= 0x27C0 && r <= 0x27EF: // misc mathematical symbols-A
		return true
	case r >= 0x2980 && r <= 0x29FF: // misc mathematical symbols-B
		return true
	case r >= 0x1D400 && r <= 0x1D7FF: // math alphanumeric symbols
		return true
	}
	return false
}

// containsMathChars reports whether the text contains any character from the
// math symbol set or the math Unicode ranges.
func containsMathChars(text string) bool {
	for _, r := range text {
		if isMathRune(r) || strings.ContainsRune(mathSymbols, r) {
			return true
		}
	}
	return false
}

// detectMath classifies a fragment's math content from its font family and
// text. The context is equation when the text carries an equals sign or a
// summation, inline for any other math-flagged fragment, none otherwise.
func detectMath(fontFamily, text string) (bool, MathContext) {
	isMath := mathFontPattern.MatchString(fontFamily) || containsMathChars(text)
	if !isMath {
		return false, MathNone
	}

	if strings.ContainsRune(text, '=') || strings.ContainsRune(text, '∑') {
		return true, MathEquation
	}
	return true, MathInline
}

// IsOperatorText reports whether the text consists of a single operator or
// relation symbol, optionally surrounded by whitespace. The merger relaxes
// its math-proximity checks around such fragments.
func IsOperatorText(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	runes := []rune(t)
	if len(runes) != 1 {
		return false
	}
	return strings.ContainsRune(mathSymbols, runes[0])
}
