package locale

import (
	"math"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printers = map[domain.Language]*message.Printer{
	domain.LanguageEnglish: message.NewPrinter(language.English),
	domain.LanguageHebrew:  message.NewPrinter(language.Hebrew),
}

func printer(lang domain.Language) *message.Printer {
	if p, ok := printers[lang]; ok {
		return p
	}
	return printers[domain.LanguageEnglish]
}

// Amount formats a monetary figure with grouping; whole numbers drop the fraction.
func Amount(lang domain.Language, v float64) string {
	if v == math.Trunc(v) {
		return printer(lang).Sprintf("%.0f", v)
	}
	return printer(lang).Sprintf("%.2f", v)
}

// Percent formats a percentage value such as 12.5 as "12.50%".
func Percent(lang domain.Language, v float64) string {
	return printer(lang).Sprintf("%.2f%%", v)
}

// Number formats a plain decimal.
func Number(lang domain.Language, v float64) string {
	return printer(lang).Sprintf("%.2f", v)
}

// Bilingual renders the same template in both languages.
func Bilingual(render func(lang domain.Language) string) domain.Text {
	return domain.NewText(render(domain.LanguageEnglish), render(domain.LanguageHebrew))
}
