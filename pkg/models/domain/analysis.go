package domain

import "time"

type Mode string

const (
	ModeComprehensive Mode = "comprehensive"
	ModeTax           Mode = "tax"
	ModeFinancial     Mode = "financial"
	ModeSummary       Mode = "summary"
)

// ParseMode maps a requested mode onto a supported one. Unknown modes fall back to ModeSummary.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeComprehensive, ModeTax, ModeFinancial, ModeSummary:
		return m, true
	default:
		return ModeSummary, false
	}
}

// Method identifies the computation branch the metric engine took for a figure.
type Method string

const (
	MethodDirectSum            Method = "direct_sum"
	MethodDirectSumZero        Method = "direct_sum_zero"
	MethodInferredColumn       Method = "inferred_column"
	MethodEstimatedDefaultRate Method = "estimated_default_rate"
	MethodDerived              Method = "derived"
	MethodRatio                Method = "ratio"
	MethodJurisdictionMean     Method = "jurisdiction_mean"
	MethodAdjustedIncome       Method = "adjusted_income"
	MethodNotApplicable        Method = "not_applicable"
)

// Estimated reports whether the method is a fallback rather than a direct computation.
func (m Method) Estimated() bool {
	return m == MethodEstimatedDefaultRate || m == MethodInferredColumn || m == MethodNotApplicable
}

type ZeroTaxCause string

const (
	ZeroTaxNone       ZeroTaxCause = ""
	ZeroTaxNoColumn   ZeroTaxCause = "no_tax_column"
	ZeroTaxNoRevenue  ZeroTaxCause = "no_revenue"
	ZeroTaxValuesZero ZeroTaxCause = "tax_values_zero"
)

// Summary holds the aggregate figures. Rates and margins are percentages.
type Summary struct {
	Revenue           float64
	Expenses          float64
	Taxes             float64
	NetProfit         float64
	TaxRate           float64
	ProfitMargin      float64
	AverageETR        float64
	MinETR            float64
	MaxETR            float64
	OverallETR        float64
	Jurisdictions     int
	Entities          int
	Rows              int
	TopUpTax          float64
	EstimatedTaxes    bool
	EstimatedRevenue  bool
	EstimatedExpenses bool
	ZeroTaxCause      ZeroTaxCause
}

type JurisdictionMetrics struct {
	Name          string
	Revenue       float64
	Expenses      float64
	Taxes         float64
	PretaxProfit  float64
	ETR           float64
	ETRMeaningful bool
	Rows          int
}

// FigureTrail records how one figure was produced.
type FigureTrail struct {
	Method       Method
	Columns      []string
	Cells        int
	MissingCells int
	Estimated    bool
	// Base and Rate are set for rate-based estimates.
	Base float64
	Rate float64
}

func (f FigureTrail) MissingShare() float64 {
	if f.Cells == 0 {
		return 0
	}
	return float64(f.MissingCells) / float64(f.Cells)
}

// CalculationTrail is the metric engine's decision record, consumed by the explanation generator.
type CalculationTrail struct {
	Revenue      FigureTrail
	Expenses     FigureTrail
	Taxes        FigureTrail
	NetProfit    FigureTrail
	TaxRate      FigureTrail
	ProfitMargin FigureTrail
	ETR          FigureTrail
	Adjustments  FigureTrail
	// MeaningfulJurisdictions counts jurisdictions contributing to the average ETR.
	MeaningfulJurisdictions int
	ExcludedJurisdictions   []string
}

type Metrics struct {
	Summary       Summary
	Jurisdictions []JurisdictionMetrics
	Unallocated   *JurisdictionMetrics
	// Adjustments is nil when the dataset carries no recognised adjustment amounts.
	Adjustments   *TaxAdjustments
	Trail         CalculationTrail
}

const (
	ExplanationRevenue      = "revenue_calculation"
	ExplanationExpenses     = "expense_calculation"
	ExplanationTax          = "tax_calculation"
	ExplanationNetProfit    = "net_profit_calculation"
	ExplanationTaxRate      = "tax_rate_calculation"
	ExplanationProfitMargin = "profit_margin_calculation"
	ExplanationETR          = "etr_calculation"
	ExplanationAdjustments  = "adjustments_calculation"
)

type ExplanationType string

const (
	ExplanationActual    ExplanationType = "actual"
	ExplanationEstimated ExplanationType = "estimated"
)

type CalculationExplanation struct {
	Key         string
	Type        ExplanationType
	Method      Method
	MethodText  Text
	Formula     Text
	Result      float64
	Explanation Text
	Sources     []string
}

type AnalysisResult struct {
	ID              string
	Source          string
	Mode            Mode
	CreatedAt       time.Time
	Summary         Summary
	Jurisdictions   []JurisdictionMetrics
	Unallocated     *JurisdictionMetrics
	Adjustments     *TaxAdjustments
	Explanations    map[string]CalculationExplanation
	Recommendations []Recommendation
	Fields          []FieldResolution
}

// Explanation returns the explanation for a key when the analysis mode produced it.
func (r AnalysisResult) Explanation(key string) (CalculationExplanation, bool) {
	e, ok := r.Explanations[key]
	return e, ok
}
