package store

import "time"

type AnalysisHeader struct {
	ID        string
	Source    string
	Mode      string
	CreatedAt time.Time
}

type Analysis struct {
	AnalysisHeader
	Payload AnalysisPayload
}

// AnalysisPayload is the JSON document persisted next to the analysis header.
type AnalysisPayload struct {
	Summary         Summary                `json:"summary"`
	Jurisdictions   []Jurisdiction         `json:"jurisdictions"`
	Unallocated     *Jurisdiction          `json:"unallocated,omitempty"`
	Adjustments     *Adjustments           `json:"adjustments,omitempty"`
	Explanations    map[string]Explanation `json:"explanations"`
	Recommendations []Recommendation       `json:"recommendations"`
	Fields          []Field                `json:"fields"`
}

type Text struct {
	En string `json:"en"`
	He string `json:"he"`
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

type Adjustment struct {
	Kind      string  `json:"kind"`
	Direction string  `json:"direction"`
	Column    string  `json:"column"`
	Amount    float64 `json:"amount"`
}

type Adjustments struct {
	Items          []Adjustment `json:"items"`
	Deductions     float64      `json:"deductions"`
	Income         float64      `json:"income"`
	PretaxProfit   float64      `json:"pretax_profit"`
	AdjustedIncome float64      `json:"adjusted_income"`
	Rate           float64      `json:"rate"`
	TaxImpact      float64      `json:"tax_impact"`
	Liability      float64      `json:"liability"`
}

type Explanation struct {
	Key         string   `json:"key"`
	Type        string   `json:"type"`
	Method      string   `json:"method"`
	MethodText  Text     `json:"method_text"`
	Formula     Text     `json:"formula"`
	Result      float64  `json:"result"`
	Explanation Text     `json:"explanation"`
	Sources     []string `json:"sources"`
}

type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Text     Text   `json:"text"`
}

type Field struct {
	Field      string   `json:"field"`
	Columns    []string `json:"columns"`
	Strategy   string   `json:"strategy"`
	Confidence float64  `json:"confidence"`
	Estimated  bool     `json:"estimated"`
}
