package domain

import "math"

// AdjustmentKind names a book-to-tax adjustment recognised in the dataset.
type AdjustmentKind string

const (
	AdjustmentDepreciation     AdjustmentKind = "depreciation"
	AdjustmentProvisions       AdjustmentKind = "provisions"
	AdjustmentCapitalGains     AdjustmentKind = "capital_gains"
	AdjustmentForeignIncome    AdjustmentKind = "foreign_income"
	AdjustmentLossCarryforward AdjustmentKind = "loss_carryforward"
)

var adjustmentLabels = map[AdjustmentKind]Text{
	AdjustmentDepreciation:     NewText("Depreciation", "פחת"),
	AdjustmentProvisions:       NewText("Provisions", "הפרשות"),
	AdjustmentCapitalGains:     NewText("Capital gains", "רווחי הון"),
	AdjustmentForeignIncome:    NewText("Foreign income", "הכנסות מחו\"ל"),
	AdjustmentLossCarryforward: NewText("Loss carryforward", "הפסדים מועברים"),
}

func (k AdjustmentKind) Label() Text {
	if label, ok := adjustmentLabels[k]; ok {
		return label
	}
	return NewText(string(k), string(k))
}

type AdjustmentDirection string

const (
	AdjustmentDeduction AdjustmentDirection = "deduction"
	AdjustmentIncome    AdjustmentDirection = "income"
)

func (d AdjustmentDirection) Label() Text {
	if d == AdjustmentDeduction {
		return NewText("deduction", "ניכוי")
	}
	return NewText("income", "הכנסה")
}

// AdjustmentColumn is a source column recognised as a tax adjustment.
type AdjustmentColumn struct {
	Kind      AdjustmentKind
	Direction AdjustmentDirection
	Column    string
}

type Adjustment struct {
	Kind      AdjustmentKind
	Direction AdjustmentDirection
	Column    string
	Amount    float64
}

// Effect is the signed change to taxable income. Deductions always reduce it, whatever the sign
// the source column was booked with.
func (a Adjustment) Effect() float64 {
	if a.Direction == AdjustmentDeduction {
		return -math.Abs(a.Amount)
	}
	return a.Amount
}

// TaxAdjustments adjusts pretax profit by the recognised adjustments and prices the result at
// the standard corporate rate.
type TaxAdjustments struct {
	Items []Adjustment
	// Deductions is the total reduction of taxable income, reported as a positive amount.
	Deductions     float64
	Income         float64
	PretaxProfit   float64
	AdjustedIncome float64
	Rate           float64
	// TaxImpact is the tax effect of the adjustments alone.
	TaxImpact float64
	// Liability is the tax on positive adjusted income.
	Liability float64
}

// Net is the combined effect of all adjustments on taxable income.
func (t TaxAdjustments) Net() float64 {
	return t.Income - t.Deductions
}
