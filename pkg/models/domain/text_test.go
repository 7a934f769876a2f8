package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		tag      string
		expected Language
		ok       bool
	}{
		{tag: "en", expected: LanguageEnglish, ok: true},
		{tag: "HE", expected: LanguageHebrew, ok: true},
		{tag: " he ", expected: LanguageHebrew, ok: true},
		{tag: "fr", expected: LanguageEnglish, ok: false},
		{tag: "", expected: LanguageEnglish, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			lang, ok := ParseLanguage(tt.tag)
			assert.Equal(t, tt.expected, lang)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestText_RenderFallsBack(t *testing.T) {
	full := NewText("tax", "מס")
	assert.Equal(t, "tax", full.Render(LanguageEnglish))
	assert.Equal(t, "מס", full.Render(LanguageHebrew))

	englishOnly := NewText("tax", "")
	assert.Equal(t, "tax", englishOnly.Render(LanguageHebrew))
	assert.False(t, englishOnly.Complete())

	hebrewOnly := NewText("", "מס")
	assert.Equal(t, "מס", hebrewOnly.Render(LanguageEnglish))
}

func TestJoinTexts(t *testing.T) {
	joined := JoinTexts(" ", NewText("a", "א"), NewText("", ""), NewText("b", "ב"))
	assert.Equal(t, "a b", joined.En)
	assert.Equal(t, "א ב", joined.He)
}
