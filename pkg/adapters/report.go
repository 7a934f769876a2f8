package adapters

import (
	"fmt"
	"slices"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/locale"
)

var reportLabels = map[string]domain.Text{
	"title":           domain.NewText("Financial analysis", "ניתוח פיננסי"),
	"summary":         domain.NewText("Summary", "סיכום"),
	"jurisdictions":   domain.NewText("Jurisdictions", "תחומי שיפוט"),
	"explanations":    domain.NewText("Calculation explanations", "הסברי חישוב"),
	"recommendations": domain.NewText("Recommendations", "המלצות"),
	"adjustments":     domain.NewText("Tax adjustments", "התאמות מס"),
	"adjusted_income": domain.NewText("Adjusted income", "הכנסה מותאמת"),
	"tax_impact":      domain.NewText("Tax impact", "השפעת מס"),
	"liability":       domain.NewText("Adjusted tax", "מס מותאם"),
	"revenue":         domain.NewText("Revenue", "הכנסות"),
	"expenses":        domain.NewText("Expenses", "הוצאות"),
	"taxes":           domain.NewText("Taxes", "מסים"),
	"net_profit":      domain.NewText("Net profit", "רווח נקי"),
	"tax_rate":        domain.NewText("Tax rate", "שיעור מס"),
	"profit_margin":   domain.NewText("Profit margin", "שיעור רווח"),
	"average_etr":     domain.NewText("Average ETR", "שיעור מס אפקטיבי ממוצע"),
	"top_up_tax":      domain.NewText("Top-up tax", "מס משלים"),
	"estimated":       domain.NewText("estimated", "משוער"),
	"unallocated":     domain.NewText("(unallocated)", "(לא משויך)"),
}

func label(key string, lang domain.Language) string {
	return reportLabels[key].Render(lang)
}

// MapAnalysisDomainToReport renders an analysis as a terminal report in one language.
func MapAnalysisDomainToReport(r domain.AnalysisResult, lang domain.Language) *domain.Report {
	s := r.Summary
	amount := func(v float64) string { return locale.Amount(lang, v) }
	percent := func(v float64) string { return locale.Percent(lang, v) }
	note := func(estimated bool) string {
		if estimated {
			return label("estimated", lang)
		}
		return ""
	}

	summary := domain.ReportSection{
		Title: label("summary", lang),
		Summary: map[string]interface{}{
			"rows":          s.Rows,
			"jurisdictions": s.Jurisdictions,
			"entities":      s.Entities,
		},
		Details: []domain.ReportDetail{
			{Name: label("revenue", lang), Value: amount(s.Revenue), Description: note(s.EstimatedRevenue)},
			{Name: label("expenses", lang), Value: amount(s.Expenses), Description: note(s.EstimatedExpenses)},
			{Name: label("taxes", lang), Value: amount(s.Taxes), Description: note(s.EstimatedTaxes)},
			{Name: label("net_profit", lang), Value: amount(s.NetProfit)},
			{Name: label("tax_rate", lang), Value: percent(s.TaxRate), Unit: "%"},
			{Name: label("profit_margin", lang), Value: percent(s.ProfitMargin), Unit: "%"},
			{Name: label("average_etr", lang), Value: percent(s.AverageETR), Unit: "%"},
		},
	}
	if s.TopUpTax != 0 {
		summary.Details = append(summary.Details,
			domain.ReportDetail{Name: label("top_up_tax", lang), Value: amount(s.TopUpTax)})
	}

	report := &domain.Report{
		Title:    label("title", lang),
		Subtitle: fmt.Sprintf("%s | %s | %s", r.Source, r.Mode, r.ID),
		Sections: []domain.ReportSection{summary},
	}

	if len(r.Jurisdictions) > 0 || r.Unallocated != nil {
		section := domain.ReportSection{Title: label("jurisdictions", lang)}
		rows := slices.Clone(r.Jurisdictions)
		if r.Unallocated != nil {
			u := *r.Unallocated
			u.Name = label("unallocated", lang)
			rows = append(rows, u)
		}
		for _, j := range rows {
			etr := "-"
			if j.ETRMeaningful {
				etr = percent(j.ETR)
			}
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        j.Name,
				Value:       amount(j.Revenue),
				Description: fmt.Sprintf("%s %s, ETR %s", label("taxes", lang), amount(j.Taxes), etr),
			})
		}
		report.Sections = append(report.Sections, section)
	}

	if adj := r.Adjustments; adj != nil {
		section := domain.ReportSection{Title: label("adjustments", lang)}
		for _, item := range adj.Items {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        item.Kind.Label().Render(lang),
				Value:       amount(item.Amount),
				Description: fmt.Sprintf("%s, %s", item.Direction.Label().Render(lang), item.Column),
			})
		}
		section.Details = append(section.Details,
			domain.ReportDetail{Name: label("adjusted_income", lang), Value: amount(adj.AdjustedIncome), Description: label("estimated", lang)},
			domain.ReportDetail{Name: label("tax_impact", lang), Value: amount(adj.TaxImpact)},
			domain.ReportDetail{Name: label("liability", lang), Value: amount(adj.Liability), Description: percent(adj.Rate * 100)},
		)
		report.Sections = append(report.Sections, section)
	}

	if len(r.Explanations) > 0 {
		section := domain.ReportSection{Title: label("explanations", lang)}
		keys := make([]string, 0, len(r.Explanations))
		for k := range r.Explanations {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			e := r.Explanations[k]
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        k,
				Value:       locale.Number(lang, e.Result),
				Unit:        string(e.Type),
				Description: e.MethodText.Render(lang),
			})
			section.Notes = append(section.Notes, e.Explanation.Render(lang))
		}
		report.Sections = append(report.Sections, section)
	}

	if len(r.Recommendations) > 0 {
		report.Sections = append(report.Sections, domain.ReportSection{
			Title: label("recommendations", lang),
			Notes: domain.RenderRecommendations(r.Recommendations, lang),
		})
	}

	return report
}
