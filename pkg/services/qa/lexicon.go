package qa

import (
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/services/columns"
)

// concept is a language-neutral meaning recognised in a question.
type concept uint16

const (
	conceptWhy concept = 1 << iota
	conceptZero
	conceptTax
	conceptTotal
	conceptRevenue
	conceptExpenses
	conceptProfit
	conceptETR
	conceptRate
	conceptJurisdiction
	conceptAdjustment
)

// concepts is a set of concepts.
type concepts uint16

func (c concepts) has(k concept) bool {
	return uint16(c)&uint16(k) != 0
}

func (c concepts) any(ks ...concept) bool {
	for _, k := range ks {
		if c.has(k) {
			return true
		}
	}
	return false
}

func (c concepts) all(ks ...concept) bool {
	for _, k := range ks {
		if !c.has(k) {
			return false
		}
	}
	return true
}

func (c *concepts) add(k concept) {
	*c = concepts(uint16(*c) | uint16(k))
}

// words maps single normalized tokens onto concepts. Hebrew entries are stored without prefixes.
var words = map[string]concept{
	"why":        conceptWhy,
	"reason":     conceptWhy,
	"cause":      conceptWhy,
	"למה":        conceptWhy,
	"מדוע":       conceptWhy,
	"סיבה":       conceptWhy,
	"zero":       conceptZero,
	"0":          conceptZero,
	"no":         conceptZero,
	"nothing":    conceptZero,
	"אפס":        conceptZero,
	"אין":        conceptZero,
	"tax":        conceptTax,
	"taxes":      conceptTax,
	"taxation":   conceptTax,
	"מס":         conceptTax,
	"מסים":       conceptTax,
	"מיסים":      conceptTax,
	"מיסוי":      conceptTax,
	"total":      conceptTotal,
	"sum":        conceptTotal,
	"overall":    conceptTotal,
	"סך":         conceptTotal,
	"סהכ":        conceptTotal,
	"כולל":       conceptTotal,
	"כוללת":      conceptTotal,
	"כמה":        conceptTotal,
	"revenue":    conceptRevenue,
	"revenues":   conceptRevenue,
	"income":     conceptRevenue,
	"sales":      conceptRevenue,
	"turnover":   conceptRevenue,
	"הכנסה":      conceptRevenue,
	"הכנסות":     conceptRevenue,
	"מחזור":      conceptRevenue,
	"expense":    conceptExpenses,
	"expenses":   conceptExpenses,
	"cost":       conceptExpenses,
	"costs":      conceptExpenses,
	"spending":   conceptExpenses,
	"הוצאה":      conceptExpenses,
	"הוצאות":     conceptExpenses,
	"עלות":       conceptExpenses,
	"עלויות":     conceptExpenses,
	"profit":     conceptProfit,
	"profits":    conceptProfit,
	"earnings":   conceptProfit,
	"net":        conceptProfit,
	"רווח":       conceptProfit,
	"רווחים":     conceptProfit,
	"נקי":        conceptProfit,
	"etr":        conceptETR,
	"effective":  conceptETR,
	"אפקטיבי":    conceptETR,
	"אפקטיבית":   conceptETR,
	"rate":       conceptRate,
	"percentage": conceptRate,
	"percent":    conceptRate,
	"שיעור":      conceptRate,
	"אחוז":       conceptRate,
	"jurisdiction":  conceptJurisdiction,
	"jurisdictions": conceptJurisdiction,
	"country":       conceptJurisdiction,
	"countries":     conceptJurisdiction,
	"breakdown":     conceptJurisdiction,
	"מדינה":         conceptJurisdiction,
	"מדינות":        conceptJurisdiction,
	"שיפוט":         conceptJurisdiction,
	"adjustment":    conceptAdjustment,
	"adjustments":   conceptAdjustment,
	"adjusted":      conceptAdjustment,
	"deduction":     conceptAdjustment,
	"deductions":    conceptAdjustment,
	"depreciation":  conceptAdjustment,
	"provision":     conceptAdjustment,
	"provisions":    conceptAdjustment,
	"carryforward":  conceptAdjustment,
	"התאמה":         conceptAdjustment,
	"התאמות":        conceptAdjustment,
	"מותאם":         conceptAdjustment,
	"מותאמת":        conceptAdjustment,
	"ניכוי":         conceptAdjustment,
	"ניכויים":       conceptAdjustment,
	"פחת":           conceptAdjustment,
	"הפרשה":         conceptAdjustment,
	"הפרשות":        conceptAdjustment,
}

// phrases are matched against the whole normalized question.
var phrases = map[string]concept{
	"how come":           conceptWhy,
	"how much":           conceptTotal,
	"סה כ":               conceptTotal,
	"effective tax rate": conceptETR,
}

// classify extracts the concept set of a question.
func classify(question string) concepts {
	normalized := columns.NormalizeColumnName(question)
	var found concepts
	if normalized == "" {
		return found
	}
	padded := " " + normalized + " "
	for phrase, c := range phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			found.add(c)
		}
	}
	for _, tok := range strings.Split(normalized, " ") {
		for _, form := range columns.TokenForms(tok) {
			if c, ok := words[form]; ok {
				found.add(c)
				break
			}
		}
	}
	return found
}
