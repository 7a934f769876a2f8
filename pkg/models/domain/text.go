package domain

import "strings"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
)

// ParseLanguage normalizes a language tag. Unknown tags fall back to English and report ok=false.
func ParseLanguage(tag string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(tag))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageHebrew:
		return LanguageHebrew, true
	default:
		return LanguageEnglish, false
	}
}

// Text is a bilingual value. Render never returns an empty string while either language is set.
type Text struct {
	En string
	He string
}

func NewText(en, he string) Text {
	return Text{En: en, He: he}
}

func (t Text) Render(lang Language) string {
	primary, secondary := t.En, t.He
	if lang == LanguageHebrew {
		primary, secondary = t.He, t.En
	}
	if primary != "" {
		return primary
	}
	return secondary
}

func (t Text) IsZero() bool {
	return t.En == "" && t.He == ""
}

// Complete reports whether both languages are populated.
func (t Text) Complete() bool {
	return t.En != "" && t.He != ""
}

// JoinTexts joins each language independently, skipping empty parts.
func JoinTexts(sep string, texts ...Text) Text {
	var en, he []string
	for _, t := range texts {
		if t.En != "" {
			en = append(en, t.En)
		}
		if t.He != "" {
			he = append(he, t.He)
		}
	}
	return Text{En: strings.Join(en, sep), He: strings.Join(he, sep)}
}
