package schemascore

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization and trims whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// NormalizeFieldName prepares a raw column name for linguistic checks:
// Unicode normalization, trimming, and underscores replaced with spaces so
// that e.g. "event_name" reads as "event name".
func NormalizeFieldName(name string) string {
	return strings.ReplaceAll(NormalizeText(name), "_", " ")
}

// TokenizeName splits a field name into lowercase tokens on underscores,
// dashes, whitespace and camelCase boundaries.
func TokenizeName(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.' || r == '\t'
	})
	var tokens []string
	for _, p := range parts {
		var cur strings.Builder
		for i, r := range p {
			if i > 0 && unicode.IsUpper(r) {
				tokens = append(tokens, strings.ToLower(cur.String()))
				cur.Reset()
			}
			cur.WriteRune(r)
		}
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
		}
	}
	return tokens
}

// isNumericToken reports whether the token consists solely of digits and
// numeric punctuation (e.g. "42", "3.14", "1,000").
func isNumericToken(tok string) bool {
	if tok == "" {
		return false
	}
	sawDigit := false
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			sawDigit = true
		case r == '.' || r == ',' || r == '-' || r == '+':
		default:
			return false
		}
	}
	return sawDigit
}

// isPunctToken reports whether the token carries no letters or digits at all.
func isPunctToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
