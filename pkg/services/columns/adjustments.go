package columns

import "github.com/de-tools/pillar-atlas/pkg/models/domain"

// AdjustmentSpec describes how one kind of tax adjustment column is recognised. Adjustment
// columns do not claim a column: a depreciation column can also count as an expense.
type AdjustmentSpec struct {
	Kind      domain.AdjustmentKind
	Direction domain.AdjustmentDirection
	// Terms are header tokens or phrases, English and Hebrew.
	Terms   []string
	Exclude []string
}

// DefaultAdjustmentSpecs returns the built-in adjustment tables.
func DefaultAdjustmentSpecs() []AdjustmentSpec {
	return []AdjustmentSpec{
		{
			Kind:      domain.AdjustmentDepreciation,
			Direction: domain.AdjustmentDeduction,
			Terms:     []string{"depreciation", "amortization", "amortisation", "פחת", "הפחתות", "הפחתה"},
		},
		{
			Kind:      domain.AdjustmentProvisions,
			Direction: domain.AdjustmentDeduction,
			Terms:     []string{"provision", "provisions", "הפרשה", "הפרשות"},
			Exclude:   []string{"tax", "taxes", "מס", "מסים"},
		},
		{
			Kind:      domain.AdjustmentCapitalGains,
			Direction: domain.AdjustmentIncome,
			Terms:     []string{"capital gain", "capital gains", "רווח הון", "רווחי הון"},
		},
		{
			Kind:      domain.AdjustmentForeignIncome,
			Direction: domain.AdjustmentIncome,
			Terms:     []string{"foreign", "זרה", "זרות", "חול", "חו ל"},
			Exclude:   []string{"tax", "taxes", "מס", "מסים"},
		},
		{
			Kind:      domain.AdjustmentLossCarryforward,
			Direction: domain.AdjustmentDeduction,
			Terms:     []string{"carryforward", "carry forward", "carried forward", "nol", "הפסד מועבר", "הפסדים מועברים", "הפסדים צבורים"},
		},
	}
}

// detectAdjustments returns every numeric column that names an adjustment. The first matching
// spec wins for a column.
func detectAdjustments(profiles []ColumnProfile, specs []AdjustmentSpec, numericShare float64) []domain.AdjustmentColumn {
	var out []domain.AdjustmentColumn
	for _, col := range profiles {
		if col.NonEmpty == 0 || col.NumericShare() < numericShare || isIdentifier(&col) {
			continue
		}
		for _, spec := range specs {
			if !matchesAny(col, spec.Terms) || matchesAny(col, spec.Exclude) {
				continue
			}
			out = append(out, domain.AdjustmentColumn{Kind: spec.Kind, Direction: spec.Direction, Column: col.Name})
			break
		}
	}
	return out
}

func matchesAny(col ColumnProfile, terms []string) bool {
	for _, term := range terms {
		if containsTerm(col.Normalized, col.Tokens, term) {
			return true
		}
	}
	return false
}
