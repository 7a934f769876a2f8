package qa

import (
	"fmt"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/explain"
	"github.com/de-tools/pillar-atlas/pkg/services/locale"
)

var estimatedNote = domain.NewText("This figure is estimated.", "נתון זה מבוסס על הערכה.")

var unrecognizedAnswer = domain.NewText(
	"I can help with questions about revenue, expenses, net profit, taxes, effective tax rates and the jurisdiction breakdown. Please ask a specific question about the financial data.",
	"אני יכול לעזור בשאלות על הכנסות, הוצאות, רווח נקי, מסים, שיעורי מס אפקטיביים ופילוח לפי תחומי שיפוט. אנא שאל שאלה ספציפית על הנתונים הפיננסיים.")

func withEstimate(t domain.Text, estimated bool) domain.Text {
	if !estimated {
		return t
	}
	return domain.JoinTexts(" ", t, estimatedNote)
}

func explanationText(r domain.AnalysisResult, key string) domain.Text {
	e, ok := r.Explanation(key)
	if !ok {
		return domain.Text{}
	}
	return e.Explanation
}

func fieldResolution(r domain.AnalysisResult, field domain.Field) (domain.FieldResolution, bool) {
	for _, f := range r.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return domain.FieldResolution{}, false
}

func whyTaxZeroAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	if s.Taxes == 0 {
		cause := explain.ZeroTaxCauseText(s.ZeroTaxCause)
		if cause.IsZero() {
			cause = explain.ZeroTaxCauseText(domain.ZeroTaxValuesZero)
		}
		return domain.JoinTexts(" ",
			domain.NewText("Total tax is 0 because "+cause.En+".", "סך המס הוא 0 מכיוון ש"+cause.He+"."),
			explanationText(r, domain.ExplanationTax))
	}

	amount := locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("סך המס אינו אפס: הוא עומד על %s.", locale.Amount(lang, s.Taxes))
		}
		return fmt.Sprintf("Total tax is not zero: it is %s.", locale.Amount(lang, s.Taxes))
	})
	if !s.EstimatedTaxes {
		return amount
	}
	return domain.JoinTexts(" ", amount, taxEstimateReason(r))
}

// taxEstimateReason names what made the tax figure an estimate.
func taxEstimateReason(r domain.AnalysisResult) domain.Text {
	field, ok := fieldResolution(r, domain.FieldTax)
	switch {
	case !ok:
		return domain.NewText(
			"No tax column was found, so taxes were estimated at the standard corporate rate.",
			"לא נמצאה עמודת מס, ולכן המסים הוערכו לפי שיעור מס החברות הסטנדרטי.")
	case r.Summary.Revenue <= 0:
		return domain.NewText(
			"Revenue is zero or missing, so tax cannot be related to income and the figure is treated as estimated.",
			"ההכנסות הן אפס או חסרות, ולכן לא ניתן לקשר את המס להכנסה והנתון מטופל כהערכה.")
	case field.Estimated:
		return domain.NewText(
			"The tax column was identified from its values rather than its name, so the figure is estimated.",
			"עמודת המס זוהתה לפי ערכיה ולא לפי שמה, ולכן הנתון מבוסס על הערכה.")
	default:
		return domain.NewText(
			"The tax column has missing values, so the figure is estimated.",
			"בעמודת המס חסרים ערכים, ולכן הנתון מבוסס על הערכה.")
	}
}

func totalTaxAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	t := locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("סך המס הוא %s.", locale.Amount(lang, s.Taxes))
		}
		return fmt.Sprintf("Total tax is %s.", locale.Amount(lang, s.Taxes))
	})
	if cause := explain.ZeroTaxCauseText(s.ZeroTaxCause); !cause.IsZero() {
		t = domain.JoinTexts(" ", t, domain.NewText(
			"It is 0 because "+cause.En+".",
			"הוא 0 מכיוון ש"+cause.He+"."))
	}
	return withEstimate(t, s.EstimatedTaxes)
}

func totalRevenueAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	return withEstimate(locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("סך ההכנסות הוא %s.", locale.Amount(lang, s.Revenue))
		}
		return fmt.Sprintf("Total revenue is %s.", locale.Amount(lang, s.Revenue))
	}), s.EstimatedRevenue)
}

func totalExpensesAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	return withEstimate(locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("סך ההוצאות הוא %s.", locale.Amount(lang, s.Expenses))
		}
		return fmt.Sprintf("Total expenses are %s.", locale.Amount(lang, s.Expenses))
	}), s.EstimatedExpenses)
}

func netProfitAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	return withEstimate(locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("הרווח הנקי הוא %s (הכנסות %s פחות הוצאות %s פחות מסים %s).",
				locale.Amount(lang, s.NetProfit), locale.Amount(lang, s.Revenue),
				locale.Amount(lang, s.Expenses), locale.Amount(lang, s.Taxes))
		}
		return fmt.Sprintf("Net profit is %s (revenue %s minus expenses %s minus taxes %s).",
			locale.Amount(lang, s.NetProfit), locale.Amount(lang, s.Revenue),
			locale.Amount(lang, s.Expenses), locale.Amount(lang, s.Taxes))
	}), s.EstimatedTaxes || s.EstimatedRevenue || s.EstimatedExpenses)
}

func etrAnswer(r domain.AnalysisResult) domain.Text {
	s := r.Summary
	t := locale.Bilingual(func(lang domain.Language) string {
		if s.Jurisdictions == 0 {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("לא נמצאה עמודת תחום שיפוט, ולכן אין שיעור מס אפקטיבי ממוצע. המס כשיעור מההכנסות הוא %s.",
					locale.Percent(lang, s.TaxRate))
			}
			return fmt.Sprintf("No jurisdiction column was found, so no average effective tax rate is available. Tax as a share of revenue is %s.",
				locale.Percent(lang, s.TaxRate))
		}
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("שיעור המס האפקטיבי הממוצע הוא %s על פני %d תחומי שיפוט (טווח %s עד %s). המס כשיעור מההכנסות הוא %s.",
				locale.Percent(lang, s.AverageETR), s.Jurisdictions,
				locale.Percent(lang, s.MinETR), locale.Percent(lang, s.MaxETR), locale.Percent(lang, s.TaxRate))
		}
		return fmt.Sprintf("The average effective tax rate is %s across %d jurisdictions (range %s to %s). Tax as a share of revenue is %s.",
			locale.Percent(lang, s.AverageETR), s.Jurisdictions,
			locale.Percent(lang, s.MinETR), locale.Percent(lang, s.MaxETR), locale.Percent(lang, s.TaxRate))
	})
	return withEstimate(domain.JoinTexts(" ", t, explanationText(r, domain.ExplanationETR)), s.EstimatedTaxes)
}

func jurisdictionAnswer(r domain.AnalysisResult) domain.Text {
	if len(r.Jurisdictions) == 0 {
		return domain.NewText(
			"No jurisdiction breakdown is available: no jurisdiction column was found.",
			"אין פילוח לפי תחומי שיפוט: לא נמצאה עמודת תחום שיפוט.")
	}
	return locale.Bilingual(func(lang domain.Language) string {
		parts := make([]string, 0, len(r.Jurisdictions))
		for _, j := range r.Jurisdictions {
			etr := locale.Percent(lang, j.ETR)
			if !j.ETRMeaningful {
				etr = "n/a"
			}
			if lang == domain.LanguageHebrew {
				parts = append(parts, fmt.Sprintf("%s: הכנסות %s, מס %s, שיעור מס אפקטיבי %s",
					j.Name, locale.Amount(lang, j.Revenue), locale.Amount(lang, j.Taxes), etr))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: revenue %s, tax %s, ETR %s",
				j.Name, locale.Amount(lang, j.Revenue), locale.Amount(lang, j.Taxes), etr))
		}
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("הנתונים כוללים %d תחומי שיפוט. %s.", len(r.Jurisdictions), strings.Join(parts, "; "))
		}
		return fmt.Sprintf("The data covers %d jurisdictions. %s.", len(r.Jurisdictions), strings.Join(parts, "; "))
	})
}

func adjustmentsAnswer(r domain.AnalysisResult) domain.Text {
	adj := r.Adjustments
	if adj == nil {
		return domain.NewText(
			"No tax adjustments were found: the dataset has no depreciation, provision, capital gain, foreign income or loss carryforward amounts.",
			"לא נמצאו התאמות מס: בנתונים אין סכומי פחת, הפרשות, רווחי הון, הכנסות מחו\"ל או הפסדים מועברים.")
	}
	t := locale.Bilingual(func(lang domain.Language) string {
		names := make([]string, 0, len(adj.Items))
		for _, item := range adj.Items {
			names = append(names, item.Kind.Label().Render(lang))
		}
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("נמצאו %d התאמות מס (%s) בסכום נטו של %s. ההכנסה החייבת המותאמת היא %s והמס המותאם הוא %s.",
				len(adj.Items), strings.Join(names, ", "), locale.Amount(lang, adj.Net()),
				locale.Amount(lang, adj.AdjustedIncome), locale.Amount(lang, adj.Liability))
		}
		return fmt.Sprintf("%d tax adjustments were found (%s) with a net effect of %s. Adjusted taxable income is %s and the adjusted tax is %s.",
			len(adj.Items), strings.Join(names, ", "), locale.Amount(lang, adj.Net()),
			locale.Amount(lang, adj.AdjustedIncome), locale.Amount(lang, adj.Liability))
	})
	return withEstimate(t, true)
}
