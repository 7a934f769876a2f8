package columns

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// hebrewPrefixes are the single-letter prefixes (definite article, conjunctions, prepositions)
// that attach to Hebrew words.
const hebrewPrefixes = "הובלמשכ"

// NormalizeColumnName case-folds a header, drops combining marks such as Hebrew vowel points and
// collapses every run of non letter/digit characters into one space: "Revenue ($)" becomes
// "revenue", "Top-Up Tax" becomes "top up tax".
func NormalizeColumnName(name string) string {
	// transformers and casers keep state, so each call builds its own
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}
	folded = cases.Fold().String(folded)

	var b strings.Builder
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

func tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// TokenForms returns a token plus its forms with up to two Hebrew prefixes removed.
func TokenForms(token string) []string {
	forms := []string{token}
	rest := []rune(token)
	for i := 0; i < 2 && len(rest) > 2 && strings.ContainsRune(hebrewPrefixes, rest[0]); i++ {
		rest = rest[1:]
		forms = append(forms, string(rest))
	}
	return forms
}

// containsTerm reports whether a normalized header contains a term. Multi-word terms match as
// phrases, single-word terms match whole tokens including prefixed Hebrew forms.
func containsTerm(normalized string, headerTokens []string, term string) bool {
	if strings.Contains(term, " ") {
		return strings.Contains(" "+normalized+" ", " "+term+" ")
	}
	for _, tok := range headerTokens {
		for _, form := range TokenForms(tok) {
			if form == term {
				return true
			}
		}
	}
	return false
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if norm := NormalizeColumnName(n); norm != "" {
			out = append(out, norm)
		}
	}
	return out
}
