package domain

type Intent string

const (
	IntentWhyTaxZero            Intent = "why_tax_zero"
	IntentTotalTax              Intent = "total_tax"
	IntentTotalRevenue          Intent = "total_revenue"
	IntentTotalExpenses         Intent = "total_expenses"
	IntentNetProfit             Intent = "net_profit"
	IntentETRExplanation        Intent = "etr_explanation"
	IntentJurisdictionBreakdown Intent = "jurisdiction_breakdown"
	IntentTaxAdjustments        Intent = "tax_adjustments"
	IntentUnrecognized          Intent = "unrecognized"
)

type QAResponse struct {
	Intent           Intent
	Language         Language
	Answer           string
	Confidence       float64
	Sources          []string
	RelatedQuestions []string
}
