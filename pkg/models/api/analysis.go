package api

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type CreateAnalysisRequest struct {
	Source   string `json:"source"`
	Mode     string `json:"mode"`
	Language string `json:"language"`
}

type Summary struct {
	Revenue           float64 `json:"revenue"`
	Expenses          float64 `json:"expenses"`
	Taxes             float64 `json:"taxes"`
	NetProfit         float64 `json:"net_profit"`
	TaxRate           float64 `json:"tax_rate"`
	ProfitMargin      float64 `json:"profit_margin"`
	AverageETR        float64 `json:"average_etr"`
	MinETR            float64 `json:"min_etr"`
	MaxETR            float64 `json:"max_etr"`
	OverallETR        float64 `json:"overall_etr"`
	Jurisdictions     int     `json:"jurisdictions"`
	Entities          int     `json:"entities"`
	Rows              int     `json:"rows"`
	TopUpTax          float64 `json:"top_up_tax"`
	EstimatedTaxes    bool    `json:"estimated_taxes"`
	EstimatedRevenue  bool    `json:"estimated_revenue"`
	EstimatedExpenses bool    `json:"estimated_expenses"`
	ZeroTaxCause      string  `json:"zero_tax_cause,omitempty"`
}

type Jurisdiction struct {
	Name          string  `json:"name"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	Taxes         float64 `json:"taxes"`
	PretaxProfit  float64 `json:"pretax_profit"`
	ETR           float64 `json:"etr"`
	ETRMeaningful bool    `json:"etr_meaningful"`
	Rows          int     `json:"rows"`
}

// CalculationExplanation carries both languages; the requested language only affects the
// rendered recommendation list.
type CalculationExplanation struct {
	Type          string   `json:"type"`
	Method        string   `json:"method"`
	MethodHe      string   `json:"method_he"`
	MethodCode    string   `json:"method_code"`
	Formula       string   `json:"formula"`
	FormulaHe     string   `json:"formula_he"`
	Result        float64  `json:"result"`
	Explanation   string   `json:"explanation"`
	ExplanationHe string   `json:"explanation_he"`
	Sources       []string `json:"sources"`
}

type Recommendation struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

type TaxAdjustment struct {
	Kind      string  `json:"kind"`
	Label     string  `json:"label"`
	Direction string  `json:"direction"`
	Column    string  `json:"column"`
	Amount    float64 `json:"amount"`
}

type TaxAdjustments struct {
	Items          []TaxAdjustment `json:"items"`
	Deductions     float64         `json:"deductions"`
	Income         float64         `json:"income"`
	Net            float64         `json:"net"`
	PretaxProfit   float64         `json:"pretax_profit"`
	AdjustedIncome float64         `json:"adjusted_income"`
	Rate           float64         `json:"rate"`
	TaxImpact      float64         `json:"tax_impact"`
	Liability      float64         `json:"liability"`
}

type ResolvedField struct {
	Field      string   `json:"field"`
	Columns    []string `json:"columns"`
	Strategy   string   `json:"strategy"`
	Confidence float64  `json:"confidence"`
	Estimated  bool     `json:"estimated"`
}

type Analysis struct {
	ID                      string                            `json:"id"`
	Source                  string                            `json:"source"`
	Mode                    string                            `json:"mode"`
	Language                string                            `json:"language"`
	CreatedAt               time.Time                         `json:"created_at"`
	Summary                 Summary                           `json:"summary"`
	Jurisdictions           []Jurisdiction                    `json:"jurisdictions"`
	Unallocated             *Jurisdiction                     `json:"unallocated,omitempty"`
	TaxAdjustments          *TaxAdjustments                   `json:"tax_adjustments,omitempty"`
	CalculationExplanations map[string]CalculationExplanation `json:"calculation_explanations"`
	Recommendations         []Recommendation                  `json:"recommendations"`
	ResolvedFields          []ResolvedField                   `json:"resolved_fields"`
}

type AnalysisInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestionRequest struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

type BatchQuestionRequest struct {
	Questions []string `json:"questions"`
	Language  string   `json:"language"`
}

type QuestionResponse struct {
	Answer           string   `json:"answer"`
	Confidence       float64  `json:"confidence"`
	Sources          []string `json:"sources"`
	Intent           string   `json:"intent"`
	Language         string   `json:"language"`
	RelatedQuestions []string `json:"related_questions"`
}

type BatchQuestionResponse struct {
	Language string             `json:"language"`
	Answers  []QuestionResponse `json:"answers"`
}

type RecommendationsResponse struct {
	Language        string   `json:"language"`
	Recommendations []string `json:"recommendations"`
}

type SuggestionsResponse struct {
	Language    string   `json:"language"`
	Suggestions []string `json:"suggestions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
