package recommend

import (
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/explain"
	"github.com/de-tools/pillar-atlas/pkg/services/locale"
)

// Settings contains configurable thresholds for the recommendation rules
type Settings struct {
	// LowETRThreshold flags an average ETR below this percentage (default: 15)
	LowETRThreshold float64 `mapstructure:"low_etr_threshold"`
	// ConcentrationShare flags a jurisdiction holding more than this share of allocated revenue (default: 0.5)
	ConcentrationShare float64 `mapstructure:"concentration_share"`
	// CriticalMarginPct flags a profit margin below this percentage (default: 5)
	CriticalMarginPct float64 `mapstructure:"critical_margin_pct"`
	// LowMarginPct flags a profit margin below this percentage (default: 10)
	LowMarginPct float64 `mapstructure:"low_margin_pct"`
	// SmallRevenue flags total revenue below this amount (default: 1,000,000)
	SmallRevenue float64 `mapstructure:"small_revenue"`
	// HighTaxRatePct flags a tax rate above this percentage (default: 20)
	HighTaxRatePct float64 `mapstructure:"high_tax_rate_pct"`
	// ETRSpreadPct flags a max-min ETR spread above this many percentage points (default: 5)
	ETRSpreadPct float64 `mapstructure:"etr_spread_pct"`
	// MaxEntities flags datasets with more entities than this (default: 5)
	MaxEntities int `mapstructure:"max_entities"`
}

func DefaultSettings() Settings {
	return Settings{
		LowETRThreshold:    15,
		ConcentrationShare: 0.5,
		CriticalMarginPct:  5,
		LowMarginPct:       10,
		SmallRevenue:       1_000_000,
		HighTaxRatePct:     20,
		ETRSpreadPct:       5,
		MaxEntities:        5,
	}
}

type Generator interface {
	Generate(result domain.AnalysisResult) []domain.Recommendation
}

// rule emits a recommendation when its predicate holds.
type rule struct {
	id       string
	category domain.Category
	severity domain.Severity
	applies  func(r domain.AnalysisResult, s Settings) bool
	text     func(r domain.AnalysisResult, s Settings) domain.Text
}

type generator struct {
	settings   Settings
	rules      []rule
	categories map[domain.Category]bool
}

// NewGenerator creates a generator evaluating every rule.
func NewGenerator(settings Settings) Generator {
	return &generator{settings: settings, rules: rules()}
}

// NewModeGenerator restricts the rules to the categories relevant for an analysis mode.
func NewModeGenerator(settings Settings, mode domain.Mode) Generator {
	g := &generator{settings: settings, rules: rules()}
	switch mode {
	case domain.ModeTax:
		g.categories = map[domain.Category]bool{domain.CategoryTax: true, domain.CategoryCompliance: true}
	case domain.ModeFinancial:
		g.categories = map[domain.Category]bool{domain.CategoryFinancial: true, domain.CategoryGeneral: true}
	case domain.ModeComprehensive:
	default:
		g.categories = map[domain.Category]bool{}
	}
	return g
}

func (g *generator) Generate(result domain.AnalysisResult) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)
	for _, r := range g.rules {
		if g.categories != nil && !g.categories[r.category] {
			continue
		}
		if !r.applies(result, g.settings) {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:       r.id,
			Category: r.category,
			Severity: r.severity,
			Text:     r.text(result, g.settings),
		})
	}
	return recs
}

func static(en, he string) func(domain.AnalysisResult, Settings) domain.Text {
	return func(domain.AnalysisResult, Settings) domain.Text { return domain.NewText(en, he) }
}

// rules returns the rules in priority order.
func rules() []rule {
	return []rule{
		{
			id:       "estimated_taxes",
			category: domain.CategoryTax,
			severity: domain.SeverityHigh,
			applies:  func(r domain.AnalysisResult, _ Settings) bool { return r.Summary.EstimatedTaxes },
			text: static(
				"Tax figures are estimated: review the actual tax data and add tax expense columns for a precise analysis",
				"נתוני המס מבוססים על הערכה: יש לבדוק את נתוני המס בפועל ולהוסיף עמודות הוצאות מס לניתוח מדויק"),
		},
		{
			id:       "zero_tax",
			category: domain.CategoryTax,
			severity: domain.SeverityHigh,
			applies:  func(r domain.AnalysisResult, _ Settings) bool { return r.Summary.ZeroTaxCause != domain.ZeroTaxNone },
			text: func(r domain.AnalysisResult, _ Settings) domain.Text {
				cause := explain.ZeroTaxCauseText(r.Summary.ZeroTaxCause)
				return domain.NewText(
					"Total tax is zero because "+cause.En+"; verify the tax data before filing",
					"סך המס הוא אפס מכיוון ש"+cause.He+"; יש לאמת את נתוני המס לפני הגשה")
			},
		},
		{
			id:       "low_average_etr",
			category: domain.CategoryTax,
			severity: domain.SeverityCritical,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return r.Summary.Jurisdictions > 0 && hasMeaningfulETR(r) && r.Summary.AverageETR < s.LowETRThreshold
			},
			text: func(r domain.AnalysisResult, s Settings) domain.Text {
				return locale.Bilingual(func(lang domain.Language) string {
					if lang == domain.LanguageHebrew {
						return fmt.Sprintf("שיעור המס האפקטיבי הממוצע (%s) נמוך מהסף של %s: יש לבחון חשיפה למס משלים",
							locale.Percent(lang, r.Summary.AverageETR), locale.Percent(lang, s.LowETRThreshold))
					}
					return fmt.Sprintf("Average ETR (%s) is below the %s threshold: assess top-up tax exposure",
						locale.Percent(lang, r.Summary.AverageETR), locale.Percent(lang, s.LowETRThreshold))
				})
			},
		},
		{
			id:       "top_up_tax",
			category: domain.CategoryTax,
			severity: domain.SeverityHigh,
			applies:  func(r domain.AnalysisResult, _ Settings) bool { return r.Summary.TopUpTax > 0 },
			text: static(
				"Address top-up tax obligations through strategic planning and review qualified status and safe harbour provisions",
				"יש לטפל בחבות המס המשלים באמצעות תכנון אסטרטגי ולבחון מעמד מוסמך והוראות נמל מבטחים"),
		},
		{
			id:       "tax_adjustments",
			category: domain.CategoryTax,
			severity: domain.SeverityMedium,
			applies:  func(r domain.AnalysisResult, _ Settings) bool { return r.Adjustments != nil },
			text: func(r domain.AnalysisResult, _ Settings) domain.Text {
				adj := r.Adjustments
				return locale.Bilingual(func(lang domain.Language) string {
					if lang == domain.LanguageHebrew {
						return fmt.Sprintf("נמצאו %d התאמות מס המשנות את ההכנסה החייבת ב-%s: יש להתאים אותן לחישוב המס ולתעד את הבסיס לכל התאמה",
							len(adj.Items), locale.Amount(lang, adj.Net()))
					}
					return fmt.Sprintf("%d tax adjustments change taxable income by %s: reconcile them with the tax computation and document the basis of each",
						len(adj.Items), locale.Amount(lang, adj.Net()))
				})
			},
		},
		{
			id:       "jurisdiction_concentration",
			category: domain.CategoryCompliance,
			severity: domain.SeverityMedium,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				_, share := topJurisdiction(r)
				return r.Summary.Jurisdictions > 1 && share > s.ConcentrationShare
			},
			text: func(r domain.AnalysisResult, _ Settings) domain.Text {
				name, share := topJurisdiction(r)
				return locale.Bilingual(func(lang domain.Language) string {
					if lang == domain.LanguageHebrew {
						return fmt.Sprintf("%s מחזיקה %s מההכנסות: יש לבחון סיכון ריכוזיות", name, locale.Percent(lang, share*100))
					}
					return fmt.Sprintf("%s holds %s of revenue: review concentration risk", name, locale.Percent(lang, share*100))
				})
			},
		},
		{
			id:       "critical_margin",
			category: domain.CategoryFinancial,
			severity: domain.SeverityHigh,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return r.Summary.Revenue > 0 && r.Summary.ProfitMargin < s.CriticalMarginPct
			},
			text: static(
				"Review pricing strategies and operational efficiency",
				"יש לבחון את אסטרטגיית התמחור והיעילות התפעולית"),
		},
		{
			id:       "low_margin",
			category: domain.CategoryFinancial,
			severity: domain.SeverityMedium,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return r.Summary.Revenue > 0 && r.Summary.ProfitMargin < s.LowMarginPct
			},
			text: static(
				"Consider cost optimization strategies to improve profit margins",
				"מומלץ לשקול אסטרטגיות לייעול עלויות לשיפור שולי הרווח"),
		},
		{
			id:       "small_revenue",
			category: domain.CategoryFinancial,
			severity: domain.SeverityLow,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return r.Summary.Revenue > 0 && r.Summary.Revenue < s.SmallRevenue
			},
			text: static(
				"Explore revenue diversification opportunities",
				"מומלץ לבחון הזדמנויות לגיוון מקורות ההכנסה"),
		},
		{
			id:       "high_tax_rate",
			category: domain.CategoryTax,
			severity: domain.SeverityMedium,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return r.Summary.Revenue > 0 && r.Summary.TaxRate > s.HighTaxRatePct
			},
			text: static(
				"Review tax planning strategies to optimize the effective tax rate",
				"יש לבחון אסטרטגיות תכנון מס לאופטימיזציה של שיעור המס האפקטיבי"),
		},
		{
			id:       "etr_spread",
			category: domain.CategoryTax,
			severity: domain.SeverityMedium,
			applies: func(r domain.AnalysisResult, s Settings) bool {
				return hasMeaningfulETR(r) && r.Summary.MaxETR-r.Summary.MinETR > s.ETRSpreadPct
			},
			text: static(
				"Effective tax rates vary widely across jurisdictions: review consistency of tax positions",
				"שיעורי המס האפקטיביים משתנים מאוד בין תחומי השיפוט: יש לבחון את עקביות עמדות המס"),
		},
		{
			id:       "cross_border",
			category: domain.CategoryCompliance,
			severity: domain.SeverityMedium,
			applies:  func(r domain.AnalysisResult, _ Settings) bool { return r.Summary.Jurisdictions > 1 },
			text: static(
				"Implement cross-border tax compliance monitoring and review transfer pricing policies",
				"יש ליישם ניטור ציות מס חוצה גבולות ולבחון את מדיניות מחירי ההעברה"),
		},
		{
			id:       "many_entities",
			category: domain.CategoryCompliance,
			severity: domain.SeverityLow,
			applies:  func(r domain.AnalysisResult, s Settings) bool { return r.Summary.Entities > s.MaxEntities },
			text: static(
				"Implement centralized financial reporting and monitoring",
				"מומלץ ליישם דיווח וניטור פיננסי מרוכז"),
		},
		{
			id:       "unallocated_rows",
			category: domain.CategoryCompliance,
			severity: domain.SeverityMedium,
			applies: func(r domain.AnalysisResult, _ Settings) bool {
				return r.Unallocated != nil && r.Summary.Jurisdictions > 0
			},
			text: func(r domain.AnalysisResult, _ Settings) domain.Text {
				return domain.NewText(
					fmt.Sprintf("%d rows have no jurisdiction: allocate them to complete the jurisdiction breakdown", r.Unallocated.Rows),
					fmt.Sprintf("ל-%d שורות אין תחום שיפוט: יש לשייך אותן להשלמת הפילוח לפי מדינות", r.Unallocated.Rows))
			},
		},
		{
			id:       "quarterly_review",
			category: domain.CategoryGeneral,
			severity: domain.SeverityLow,
			applies:  func(domain.AnalysisResult, Settings) bool { return true },
			text: static(
				"Establish quarterly tax compliance reviews",
				"מומלץ לקבוע סקירות רבעוניות של ציות למס"),
		},
	}
}

func hasMeaningfulETR(r domain.AnalysisResult) bool {
	for _, j := range r.Jurisdictions {
		if j.ETRMeaningful {
			return true
		}
	}
	return false
}

// topJurisdiction returns the jurisdiction with the largest revenue and its share of allocated revenue.
func topJurisdiction(r domain.AnalysisResult) (string, float64) {
	var total, best float64
	name := ""
	for _, j := range r.Jurisdictions {
		if j.Revenue <= 0 {
			continue
		}
		total += j.Revenue
		if j.Revenue > best {
			best = j.Revenue
			name = j.Name
		}
	}
	if total == 0 {
		return "", 0
	}
	return name, best / total
}
