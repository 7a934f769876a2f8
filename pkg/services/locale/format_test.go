package locale

import (
	"testing"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "1,000,000", Amount(domain.LanguageEnglish, 1000000))
	assert.Equal(t, "0", Amount(domain.LanguageEnglish, 0))
	assert.Equal(t, "1,234.50", Amount(domain.LanguageEnglish, 1234.5))
	assert.Equal(t, "-400", Amount(domain.LanguageEnglish, -400))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.50%", Percent(domain.LanguageEnglish, 12.5))
	assert.Equal(t, "0.00%", Percent(domain.LanguageHebrew, 0))
}

func TestBilingual(t *testing.T) {
	text := Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return "מס " + Amount(lang, 10)
		}
		return "tax " + Amount(lang, 10)
	})
	assert.Equal(t, "tax 10", text.En)
	assert.Equal(t, "מס 10", text.He)
}
