package qa

import (
	"slices"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

// Settings contains the confidence scoring parameters
type Settings struct {
	// BaseConfidence is the score of a full, unambiguous match (default: 0.9)
	BaseConfidence float64 `mapstructure:"base_confidence"`
	// PartialPenalty is subtracted when only the minimal concepts of an intent matched (default: 0.1)
	PartialPenalty float64 `mapstructure:"partial_penalty"`
	// CompetitorPenalty is subtracted per competing intent (default: 0.15)
	CompetitorPenalty float64 `mapstructure:"competitor_penalty"`
	// MinConfidence is the floor for recognized intents (default: 0.4)
	MinConfidence float64 `mapstructure:"min_confidence"`
	// EstimatedCeiling caps the score when the answer relies on estimated figures (default: 0.7)
	EstimatedCeiling float64 `mapstructure:"estimated_ceiling"`
	// UnrecognizedConfidence is the score of an unrecognized question (default: 0.2)
	UnrecognizedConfidence float64 `mapstructure:"unrecognized_confidence"`
}

func DefaultSettings() Settings {
	return Settings{
		BaseConfidence:         0.9,
		PartialPenalty:         0.1,
		CompetitorPenalty:      0.15,
		MinConfidence:          0.4,
		EstimatedCeiling:       0.7,
		UnrecognizedConfidence: 0.2,
	}
}

// Resolver answers free-form questions about a finished analysis. It never fails: unknown
// questions resolve to the unrecognized intent.
type Resolver interface {
	Ask(question string, language string, result domain.AnalysisResult) domain.QAResponse
	Suggestions(language string) []string
}

type intentRule struct {
	intent domain.Intent
	// matches reports whether the minimal concepts are present.
	matches func(c concepts) bool
	// full reports whether the question carries every concept of the intent.
	full     func(c concepts) bool
	subsumes []domain.Intent
	// estimated reports whether the figures behind the answer are estimates.
	estimated func(s domain.Summary) bool
	sources   []string
	answer    func(r domain.AnalysisResult) domain.Text
}

type resolver struct {
	settings Settings
	rules    []intentRule
}

func NewResolver(settings Settings) Resolver {
	return &resolver{settings: settings, rules: intentRules()}
}

// intentRules returns the rules in evaluation order.
func intentRules() []intentRule {
	return []intentRule{
		{
			intent:   domain.IntentTaxAdjustments,
			matches:  func(c concepts) bool { return c.has(conceptAdjustment) },
			full:     func(c concepts) bool { return c.has(conceptAdjustment) && c.any(conceptTax, conceptTotal) },
			subsumes: []domain.Intent{domain.IntentTotalTax, domain.IntentTotalRevenue, domain.IntentTotalExpenses},
			// adjusted figures are always priced at the standard rate
			estimated: func(domain.Summary) bool { return true },
			sources:   []string{"adjustments", domain.ExplanationAdjustments},
			answer:    adjustmentsAnswer,
		},
		{
			intent:    domain.IntentWhyTaxZero,
			matches:   func(c concepts) bool { return c.has(conceptTax) && c.any(conceptWhy, conceptZero) },
			full:      func(c concepts) bool { return c.all(conceptTax, conceptWhy, conceptZero) },
			subsumes:  []domain.Intent{domain.IntentTotalTax},
			estimated: func(s domain.Summary) bool { return s.EstimatedTaxes },
			sources:   []string{"taxes", "estimated_taxes", "zero_tax_cause", domain.ExplanationTax},
			answer:    whyTaxZeroAnswer,
		},
		{
			intent:    domain.IntentETRExplanation,
			matches:   func(c concepts) bool { return c.has(conceptETR) || c.all(conceptTax, conceptRate) },
			full:      func(c concepts) bool { return c.has(conceptETR) },
			subsumes:  []domain.Intent{domain.IntentTotalTax},
			estimated: func(s domain.Summary) bool { return s.EstimatedTaxes },
			sources:   []string{"average_etr", "tax_rate", "overall_etr", domain.ExplanationETR, domain.ExplanationTaxRate},
			answer:    etrAnswer,
		},
		{
			intent:  domain.IntentJurisdictionBreakdown,
			matches: func(c concepts) bool { return c.has(conceptJurisdiction) },
			full: func(c concepts) bool {
				return c.has(conceptJurisdiction) && c.any(conceptRevenue, conceptExpenses, conceptTax, conceptProfit, conceptTotal)
			},
			subsumes: []domain.Intent{
				domain.IntentTotalTax, domain.IntentTotalRevenue, domain.IntentTotalExpenses, domain.IntentNetProfit,
			},
			estimated: func(s domain.Summary) bool { return s.EstimatedTaxes || s.EstimatedRevenue },
			sources:   []string{"jurisdictions", "average_etr", domain.ExplanationETR},
			answer:    jurisdictionAnswer,
		},
		{
			intent:    domain.IntentTotalTax,
			matches:   func(c concepts) bool { return c.has(conceptTax) },
			full:      func(c concepts) bool { return c.all(conceptTax, conceptTotal) },
			estimated: func(s domain.Summary) bool { return s.EstimatedTaxes },
			sources:   []string{"taxes", "estimated_taxes", domain.ExplanationTax},
			answer:    totalTaxAnswer,
		},
		{
			intent:    domain.IntentTotalRevenue,
			matches:   func(c concepts) bool { return c.has(conceptRevenue) },
			full:      func(c concepts) bool { return c.all(conceptRevenue, conceptTotal) },
			estimated: func(s domain.Summary) bool { return s.EstimatedRevenue },
			sources:   []string{"revenue", domain.ExplanationRevenue},
			answer:    totalRevenueAnswer,
		},
		{
			intent:    domain.IntentTotalExpenses,
			matches:   func(c concepts) bool { return c.has(conceptExpenses) },
			full:      func(c concepts) bool { return c.all(conceptExpenses, conceptTotal) },
			estimated: func(s domain.Summary) bool { return s.EstimatedExpenses },
			sources:   []string{"expenses", domain.ExplanationExpenses},
			answer:    totalExpensesAnswer,
		},
		{
			intent:  domain.IntentNetProfit,
			matches: func(c concepts) bool { return c.has(conceptProfit) },
			full:    func(c concepts) bool { return c.has(conceptProfit) },
			estimated: func(s domain.Summary) bool {
				return s.EstimatedTaxes || s.EstimatedRevenue || s.EstimatedExpenses
			},
			sources: []string{"net_profit", "revenue", "expenses", "taxes", domain.ExplanationNetProfit},
			answer:  netProfitAnswer,
		},
	}
}

func (r *resolver) Ask(question string, language string, result domain.AnalysisResult) domain.QAResponse {
	lang, _ := domain.ParseLanguage(language)
	found := classify(question)

	winner := -1
	for i, rule := range r.rules {
		if rule.matches(found) {
			winner = i
			break
		}
	}
	if winner < 0 {
		return domain.QAResponse{
			Intent:           domain.IntentUnrecognized,
			Language:         lang,
			Answer:           unrecognizedAnswer.Render(lang),
			Confidence:       r.settings.UnrecognizedConfidence,
			Sources:          []string{},
			RelatedQuestions: relatedQuestions(domain.IntentUnrecognized, lang),
		}
	}

	rule := r.rules[winner]
	return domain.QAResponse{
		Intent:           rule.intent,
		Language:         lang,
		Answer:           rule.answer(result).Render(lang),
		Confidence:       r.confidence(found, winner, result.Summary),
		Sources:          sources(rule.sources, result),
		RelatedQuestions: relatedQuestions(rule.intent, lang),
	}
}

func (r *resolver) confidence(found concepts, winner int, s domain.Summary) float64 {
	rule := r.rules[winner]
	score := r.settings.BaseConfidence
	if !rule.full(found) {
		score -= r.settings.PartialPenalty
	}
	for i, other := range r.rules {
		if i == winner || slices.Contains(rule.subsumes, other.intent) {
			continue
		}
		if other.matches(found) {
			score -= r.settings.CompetitorPenalty
		}
	}
	score = max(score, r.settings.MinConfidence)
	if rule.estimated(s) {
		score = min(score, r.settings.EstimatedCeiling)
	}
	return score
}

// sources keeps summary fields and the explanation keys the analysis actually produced.
func sources(candidates []string, result domain.AnalysisResult) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if isExplanationKey(c) {
			if _, ok := result.Explanation(c); !ok {
				continue
			}
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func isExplanationKey(s string) bool {
	switch s {
	case domain.ExplanationRevenue, domain.ExplanationExpenses, domain.ExplanationTax,
		domain.ExplanationNetProfit, domain.ExplanationTaxRate, domain.ExplanationProfitMargin,
		domain.ExplanationETR, domain.ExplanationAdjustments:
		return true
	}
	return false
}

func (r *resolver) Suggestions(language string) []string {
	lang, _ := domain.ParseLanguage(language)
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Render(lang))
	}
	return out
}
