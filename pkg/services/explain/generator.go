package explain

import (
	"fmt"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/locale"
)

// Generator narrates the metric engine's figures. It never recomputes a number: every result is
// copied from the summary and every method is read from the trail.
type Generator interface {
	Generate(m domain.Metrics, keys []string) map[string]domain.CalculationExplanation
}

type builder func(m domain.Metrics) domain.CalculationExplanation

type generator struct {
	builders map[string]builder
}

func NewGenerator() Generator {
	return &generator{
		builders: map[string]builder{
			domain.ExplanationRevenue:      revenueExplanation,
			domain.ExplanationExpenses:     expenseExplanation,
			domain.ExplanationTax:          taxExplanation,
			domain.ExplanationNetProfit:    netProfitExplanation,
			domain.ExplanationTaxRate:      taxRateExplanation,
			domain.ExplanationProfitMargin: profitMarginExplanation,
			domain.ExplanationETR:          etrExplanation,
			domain.ExplanationAdjustments:  adjustmentsExplanation,
		},
	}
}

// Keys returns the explanation keys produced for a mode.
func Keys(mode domain.Mode) []string {
	switch mode {
	case domain.ModeComprehensive:
		return []string{
			domain.ExplanationRevenue,
			domain.ExplanationExpenses,
			domain.ExplanationTax,
			domain.ExplanationNetProfit,
			domain.ExplanationTaxRate,
			domain.ExplanationProfitMargin,
			domain.ExplanationETR,
		}
	case domain.ModeTax:
		return []string{domain.ExplanationTax, domain.ExplanationTaxRate, domain.ExplanationETR}
	case domain.ModeFinancial:
		return []string{
			domain.ExplanationRevenue,
			domain.ExplanationExpenses,
			domain.ExplanationNetProfit,
			domain.ExplanationProfitMargin,
		}
	default:
		return nil
	}
}

// KeysFor extends Keys with the adjustments explanation when the metrics carry adjustments and the
// mode covers taxes.
func KeysFor(mode domain.Mode, m domain.Metrics) []string {
	keys := Keys(mode)
	if m.Adjustments != nil && (mode == domain.ModeComprehensive || mode == domain.ModeTax) {
		keys = append(keys, domain.ExplanationAdjustments)
	}
	return keys
}

func (g *generator) Generate(m domain.Metrics, keys []string) map[string]domain.CalculationExplanation {
	out := make(map[string]domain.CalculationExplanation, len(keys))
	for _, key := range keys {
		build, ok := g.builders[key]
		if !ok {
			continue
		}
		e := build(m)
		e.Key = key
		out[key] = e
	}
	return out
}

func newExplanation(trail domain.FigureTrail, result float64, sources ...string) domain.CalculationExplanation {
	t := domain.ExplanationActual
	if trail.Estimated {
		t = domain.ExplanationEstimated
	}
	return domain.CalculationExplanation{
		Type:       t,
		Method:     trail.Method,
		MethodText: MethodLabel(trail.Method),
		Result:     result,
		Sources:    sources,
	}
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}

// missingNote mentions cells that were counted as zero, empty when there were none.
func missingNote(trail domain.FigureTrail) domain.Text {
	if trail.MissingCells == 0 {
		return domain.Text{}
	}
	return domain.NewText(
		fmt.Sprintf("%d of %d cells were empty or non-numeric and counted as zero.", trail.MissingCells, trail.Cells),
		fmt.Sprintf("%d מתוך %d תאים היו ריקים או לא מספריים ונספרו כאפס.", trail.MissingCells, trail.Cells),
	)
}

func sumExplanation(trail domain.FigureTrail, result float64, summaryField string, name domain.Text) domain.CalculationExplanation {
	e := newExplanation(trail, result, summaryField)
	cols := columnList(trail.Columns)

	switch trail.Method {
	case domain.MethodDirectSum:
		e.Formula = domain.NewText(
			fmt.Sprintf("Sum of all values in %s", cols),
			fmt.Sprintf("סכום כל הערכים בעמודות %s", cols))
		e.Explanation = domain.JoinTexts(" ", locale.Bilingual(func(lang domain.Language) string {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("%s: %s, סכום ישיר של העמודות %s.", name.He, locale.Amount(lang, result), cols)
			}
			return fmt.Sprintf("%s of %s was summed directly from %s.", name.En, locale.Amount(lang, result), cols)
		}), missingNote(trail))
	case domain.MethodInferredColumn:
		e.Formula = domain.NewText(
			fmt.Sprintf("Sum of all values in %s (inferred)", cols),
			fmt.Sprintf("סכום כל הערכים בעמודה %s (זוהתה לפי ערכים)", cols))
		e.Explanation = domain.JoinTexts(" ", locale.Bilingual(func(lang domain.Language) string {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("לא זוהתה כותרת מתאימה; העמודה %s זוהתה לפי ערכיה וסכומה %s.", cols, locale.Amount(lang, result))
			}
			return fmt.Sprintf("No matching header was recognised; column %s was inferred from its values and sums to %s.", cols, locale.Amount(lang, result))
		}), missingNote(trail))
	default:
		e.Formula = domain.NewText("Not applicable", "לא רלוונטי")
		e.Explanation = domain.NewText(
			fmt.Sprintf("No %s column was found in the dataset, so it is reported as 0.", strings.ToLower(name.En)),
			fmt.Sprintf("לא נמצאה עמודת %s בקובץ הנתונים ולכן הערך מדווח כ-0.", name.He))
	}
	return e
}

func revenueExplanation(m domain.Metrics) domain.CalculationExplanation {
	return sumExplanation(m.Trail.Revenue, m.Summary.Revenue, "revenue", domain.NewText("Revenue", "הכנסות"))
}

func expenseExplanation(m domain.Metrics) domain.CalculationExplanation {
	return sumExplanation(m.Trail.Expenses, m.Summary.Expenses, "expenses", domain.NewText("Expenses", "הוצאות"))
}

func taxExplanation(m domain.Metrics) domain.CalculationExplanation {
	s := m.Summary
	trail := m.Trail.Taxes
	e := newExplanation(trail, s.Taxes, "taxes", "estimated_taxes")
	cols := columnList(trail.Columns)

	switch trail.Method {
	case domain.MethodDirectSum:
		e.Formula = domain.NewText(
			fmt.Sprintf("Sum of all values in %s", cols),
			fmt.Sprintf("סכום כל הערכים בעמודת %s", cols))
		e.Explanation = domain.JoinTexts(" ", domain.NewText(
			fmt.Sprintf("Tax amount was extracted directly from the %s column. No calculation was performed.", cols),
			fmt.Sprintf("סכום המס חולץ ישירות מעמודת %s בקובץ הנתונים. לא בוצע חישוב נוסף.", cols),
		), missingNote(trail))
	case domain.MethodDirectSumZero:
		e.Formula = domain.NewText(
			fmt.Sprintf("Sum of all values in %s = 0", cols),
			fmt.Sprintf("סכום כל הערכים בעמודת %s = 0", cols))
		e.Explanation = domain.JoinTexts(" ",
			domain.NewText(
				fmt.Sprintf("The %s column is present, but its values are zero or empty, so taxes are 0.", cols),
				fmt.Sprintf("עמודת %s קיימת, אך ערכיה אפס או ריקים ולכן המס הוא 0.", cols)),
			missingNote(trail),
			causeNote(s.ZeroTaxCause, domain.ZeroTaxNoRevenue))
	case domain.MethodEstimatedDefaultRate:
		rate := trail.Rate * 100
		e.Formula = locale.Bilingual(func(lang domain.Language) string {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("(הכנסות - הוצאות) × %s = %s × %s", locale.Percent(lang, rate), locale.Amount(lang, trail.Base), locale.Number(lang, trail.Rate))
			}
			return fmt.Sprintf("(Revenue - Expenses) × %s = %s × %s", locale.Percent(lang, rate), locale.Amount(lang, trail.Base), locale.Number(lang, trail.Rate))
		})
		e.Explanation = locale.Bilingual(func(lang domain.Language) string {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("מכיוון שלא נמצאו עמודות מס בנתונים, המסים הוערכו בשיעור מס חברות סטנדרטי של %s על הרווח לפני מס (הכנסות - הוצאות = %s).",
					locale.Percent(lang, rate), locale.Amount(lang, trail.Base))
			}
			return fmt.Sprintf("Since no tax column was found, taxes were estimated at the standard corporate rate of %s applied to pretax profit (Revenue - Expenses = %s).",
				locale.Percent(lang, rate), locale.Amount(lang, trail.Base))
		})
	default:
		e.Formula = domain.NewText("Not applicable", "לא רלוונטי")
		e.Explanation = locale.Bilingual(func(lang domain.Language) string {
			if lang == domain.LanguageHebrew {
				return fmt.Sprintf("לא נמצאה עמודת מס והרווח לפני מס (%s) אינו חיובי, ולכן לא ניתן היה להעריך מס; המס מדווח כ-0.", locale.Amount(lang, trail.Base))
			}
			return fmt.Sprintf("No tax column was found and pretax profit (%s) is not positive, so no tax could be estimated; taxes are reported as 0.", locale.Amount(lang, trail.Base))
		})
	}
	return e
}

// causeNote adds the zero-tax cause when it equals want.
func causeNote(cause, want domain.ZeroTaxCause) domain.Text {
	if cause != want {
		return domain.Text{}
	}
	c := ZeroTaxCauseText(cause)
	return domain.NewText("Note: "+c.En+".", "הערה: "+c.He+".")
}

func netProfitExplanation(m domain.Metrics) domain.CalculationExplanation {
	s := m.Summary
	e := newExplanation(m.Trail.NetProfit, s.NetProfit, "net_profit", "revenue", "expenses", "taxes")
	e.Formula = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("הכנסות - הוצאות - מסים = %s - %s - %s",
				locale.Amount(lang, s.Revenue), locale.Amount(lang, s.Expenses), locale.Amount(lang, s.Taxes))
		}
		return fmt.Sprintf("Revenue - Expenses - Taxes = %s - %s - %s",
			locale.Amount(lang, s.Revenue), locale.Amount(lang, s.Expenses), locale.Amount(lang, s.Taxes))
	})
	e.Explanation = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			msg := fmt.Sprintf("הרווח הנקי הוא %s.", locale.Amount(lang, s.NetProfit))
			if m.Trail.NetProfit.Estimated {
				msg += " אחד או יותר מהרכיבים מבוסס על הערכה."
			}
			return msg
		}
		msg := fmt.Sprintf("Net profit is %s.", locale.Amount(lang, s.NetProfit))
		if m.Trail.NetProfit.Estimated {
			msg += " One or more components are estimated."
		}
		return msg
	})
	return e
}

func taxRateExplanation(m domain.Metrics) domain.CalculationExplanation {
	s := m.Summary
	e := newExplanation(m.Trail.TaxRate, s.TaxRate, "tax_rate", "taxes", "revenue")
	if m.Trail.TaxRate.Method != domain.MethodRatio {
		e.Formula = domain.NewText("Revenue ≤ 0: tax rate = 0", "הכנסות ≤ 0: שיעור המס = 0")
		e.Explanation = domain.NewText(
			"Revenue is zero or missing, so the tax rate is defined as 0 and taxes are flagged as estimated.",
			"ההכנסות הן אפס או חסרות, ולכן שיעור המס מוגדר כ-0 והמסים מסומנים כהערכה.")
		return e
	}
	e.Formula = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("(מסים ÷ הכנסות) × 100 = (%s ÷ %s) × 100", locale.Amount(lang, s.Taxes), locale.Amount(lang, s.Revenue))
		}
		return fmt.Sprintf("(Taxes ÷ Revenue) × 100 = (%s ÷ %s) × 100", locale.Amount(lang, s.Taxes), locale.Amount(lang, s.Revenue))
	})
	e.Explanation = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("שיעור המס על ההכנסות הוא %s.", locale.Percent(lang, s.TaxRate))
		}
		return fmt.Sprintf("Taxes amount to %s of revenue.", locale.Percent(lang, s.TaxRate))
	})
	return e
}

func profitMarginExplanation(m domain.Metrics) domain.CalculationExplanation {
	s := m.Summary
	e := newExplanation(m.Trail.ProfitMargin, s.ProfitMargin, "profit_margin", "net_profit", "revenue")
	if m.Trail.ProfitMargin.Method != domain.MethodRatio {
		e.Formula = domain.NewText("Revenue ≤ 0: profit margin = 0", "הכנסות ≤ 0: שולי רווח = 0")
		e.Explanation = domain.NewText(
			"Revenue is zero or missing, so the profit margin is defined as 0.",
			"ההכנסות הן אפס או חסרות, ולכן שולי הרווח מוגדרים כ-0.")
		return e
	}
	e.Formula = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("(רווח נקי ÷ הכנסות) × 100 = (%s ÷ %s) × 100", locale.Amount(lang, s.NetProfit), locale.Amount(lang, s.Revenue))
		}
		return fmt.Sprintf("(Net Profit ÷ Revenue) × 100 = (%s ÷ %s) × 100", locale.Amount(lang, s.NetProfit), locale.Amount(lang, s.Revenue))
	})
	e.Explanation = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("שולי הרווח הם %s.", locale.Percent(lang, s.ProfitMargin))
		}
		return fmt.Sprintf("The profit margin is %s.", locale.Percent(lang, s.ProfitMargin))
	})
	return e
}

func etrExplanation(m domain.Metrics) domain.CalculationExplanation {
	s := m.Summary
	trail := m.Trail.ETR
	e := newExplanation(trail, s.AverageETR, "average_etr", "jurisdictions")

	if trail.Method != domain.MethodJurisdictionMean {
		e.Formula = domain.NewText("No meaningful jurisdiction ETR: average ETR = 0", "אין שיעור מס אפקטיבי משמעותי: ממוצע = 0")
		if len(trail.Columns) == 0 {
			e.Explanation = domain.NewText(
				"No jurisdiction column was found, so per-jurisdiction ETRs could not be computed and the average ETR is 0.",
				"לא נמצאה עמודת תחום שיפוט, ולכן לא ניתן לחשב שיעור מס אפקטיבי לפי מדינה והממוצע הוא 0.")
			return e
		}
		e.Explanation = domain.NewText(
			"No jurisdiction has a positive pretax profit, so no ETR is meaningful and the average ETR is 0.",
			"לאף תחום שיפוט אין רווח חיובי לפני מס, ולכן אין שיעור מס אפקטיבי משמעותי והממוצע הוא 0.")
		return e
	}

	n := m.Trail.MeaningfulJurisdictions
	excluded := columnList(m.Trail.ExcludedJurisdictions)
	e.Formula = domain.NewText(
		fmt.Sprintf("Mean over %d jurisdictions of (Tax ÷ Pretax profit) × 100", n),
		fmt.Sprintf("ממוצע על פני %d תחומי שיפוט של (מס ÷ רווח לפני מס) × 100", n))
	e.Explanation = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			msg := fmt.Sprintf("שיעור המס האפקטיבי הממוצע הוא %s, מחושב על %d תחומי שיפוט עם רווח חיובי לפני מס.", locale.Percent(lang, s.AverageETR), n)
			if excluded != "" {
				msg += fmt.Sprintf(" לא נכללו (רווח לפני מס אינו חיובי): %s.", excluded)
			}
			return msg
		}
		msg := fmt.Sprintf("The average effective tax rate is %s, computed over %d jurisdictions with positive pretax profit.", locale.Percent(lang, s.AverageETR), n)
		if excluded != "" {
			msg += fmt.Sprintf(" Excluded (non-positive pretax profit): %s.", excluded)
		}
		return msg
	})
	return e
}

func adjustmentsExplanation(m domain.Metrics) domain.CalculationExplanation {
	adj := m.Adjustments
	if adj == nil {
		e := newExplanation(m.Trail.Adjustments, 0, "adjustments")
		e.Formula = domain.NewText("Not applicable", "לא רלוונטי")
		e.Explanation = domain.NewText(
			"No depreciation, provision, capital gain, foreign income or loss carryforward amounts were found, so no tax adjustments apply.",
			"לא נמצאו סכומי פחת, הפרשות, רווחי הון, הכנסות מחו\"ל או הפסדים מועברים, ולכן אין התאמות מס.")
		return e
	}

	e := newExplanation(m.Trail.Adjustments, adj.AdjustedIncome, "adjustments", "revenue", "expenses")
	e.Formula = locale.Bilingual(func(lang domain.Language) string {
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("רווח לפני מס + הכנסות - ניכויים = %s + %s - %s; השפעת מס = (%s - %s) × %s",
				locale.Amount(lang, adj.PretaxProfit), locale.Amount(lang, adj.Income), locale.Amount(lang, adj.Deductions),
				locale.Amount(lang, adj.Income), locale.Amount(lang, adj.Deductions), locale.Percent(lang, adj.Rate*100))
		}
		return fmt.Sprintf("Pretax profit + Income adjustments - Deductions = %s + %s - %s; Tax impact = (%s - %s) × %s",
			locale.Amount(lang, adj.PretaxProfit), locale.Amount(lang, adj.Income), locale.Amount(lang, adj.Deductions),
			locale.Amount(lang, adj.Income), locale.Amount(lang, adj.Deductions), locale.Percent(lang, adj.Rate*100))
	})
	e.Explanation = locale.Bilingual(func(lang domain.Language) string {
		items := make([]string, 0, len(adj.Items))
		for _, item := range adj.Items {
			kind := item.Kind.Label().Render(lang)
			dir := item.Direction.Label().Render(lang)
			items = append(items, fmt.Sprintf("%s (%s, %s): %s", kind, dir, item.Column, locale.Amount(lang, item.Amount)))
		}
		list := strings.Join(items, "; ")
		if lang == domain.LanguageHebrew {
			return fmt.Sprintf("נמצאו %d התאמות מס: %s. ההכנסה החייבת המותאמת היא %s, והמס עליה בשיעור %s הוא %s. ההתאמות משנות את המס ב-%s.",
				len(adj.Items), list, locale.Amount(lang, adj.AdjustedIncome), locale.Percent(lang, adj.Rate*100),
				locale.Amount(lang, adj.Liability), locale.Amount(lang, adj.TaxImpact))
		}
		return fmt.Sprintf("%d tax adjustments were found: %s. Adjusted taxable income is %s and the tax on it at %s is %s. The adjustments change tax by %s.",
			len(adj.Items), list, locale.Amount(lang, adj.AdjustedIncome), locale.Percent(lang, adj.Rate*100),
			locale.Amount(lang, adj.Liability), locale.Amount(lang, adj.TaxImpact))
	})
	return e
}
