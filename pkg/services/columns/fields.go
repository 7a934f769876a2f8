package columns

import "github.com/de-tools/pillar-atlas/pkg/models/domain"

// FieldSpec describes how one canonical field is recognised.
type FieldSpec struct {
	Field domain.Field
	// Exact holds normalized header names in priority order.
	Exact []string
	// Synonyms are header tokens or phrases, English and Hebrew.
	Synonyms []string
	// Exclude disqualifies a header containing any of these terms.
	Exclude []string
	// Multi lets several columns contribute to the field.
	Multi   bool
	Numeric bool
}

// SynonymOverride extends a FieldSpec. Entries take priority over the built-in tables.
type SynonymOverride struct {
	Exact    []string
	Synonyms []string
	Exclude  []string
}

// Settings contains the resolver tables and thresholds
type Settings struct {
	// Specs are resolved in order; a column is claimed by the first field that matches it.
	Specs []FieldSpec `mapstructure:"-"`
	// Adjustments are the tax adjustment tables, matched independently of Specs.
	Adjustments []AdjustmentSpec `mapstructure:"-"`
	// MinConfidence is the lowest accepted match confidence (default: 0.4, value-pattern matches pass)
	MinConfidence float64 `mapstructure:"min_confidence"`
	// NumericShare is the share of non-empty cells that must be numeric for a numeric column (default: 0.8)
	NumericShare float64 `mapstructure:"numeric_share"`
	// MaxJurisdictionValues caps distinct values for a value-pattern jurisdiction column (default: 60)
	MaxJurisdictionValues int `mapstructure:"max_jurisdiction_values"`
}

func DefaultSettings() Settings {
	return Settings{
		Specs:                 DefaultFieldSpecs(),
		Adjustments:           DefaultAdjustmentSpecs(),
		MinConfidence:         0.4,
		NumericShare:          0.8,
		MaxJurisdictionValues: 60,
	}
}

// DefaultFieldSpecs returns the built-in tables in resolution order.
func DefaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{
			Field:    domain.FieldTopUpTax,
			Exact:    []string{"top up tax", "topup tax", "top up tax amount", "מס משלים"},
			Synonyms: []string{"top up", "topup", "משלים"},
			Numeric:  true,
		},
		{
			Field:    domain.FieldTax,
			Exact:    []string{"covered taxes", "tax expense", "tax amount", "taxes", "tax", "income tax", "מס", "מסים", "סכום מס"},
			Synonyms: []string{"tax", "taxes", "מס", "מסים", "מיסים", "מיסוי"},
			Exclude:  []string{"rate", "etr", "pretax", "pre tax", "before tax", "לפני מס", "שיעור", "jurisdiction", "id", "number"},
			Numeric:  true,
		},
		{
			Field:    domain.FieldRevenue,
			Exact:    []string{"globe income", "revenue", "revenues", "total revenue", "income", "sales", "turnover", "הכנסות", "הכנסה", "מחזור"},
			Synonyms: []string{"revenue", "revenues", "income", "sales", "turnover", "הכנסות", "הכנסה", "מחזור"},
			Exclude:  []string{"tax", "expense", "expenses", "cost", "costs", "net", "מס", "הוצאות"},
			Numeric:  true,
		},
		{
			Field:    domain.FieldExpense,
			Exact:    []string{"expenses", "expense", "total expenses", "costs", "הוצאות", "עלויות"},
			Synonyms: []string{"expense", "expenses", "cost", "costs", "fees", "royalties", "הוצאות", "הוצאה", "עלויות", "עלות", "תמלוגים", "עמלות"},
			Exclude:  []string{"tax", "taxes", "מס", "מסים"},
			Multi:    true,
			Numeric:  true,
		},
		{
			Field:    domain.FieldJurisdiction,
			Exact:    []string{"jurisdiction", "tax jurisdiction", "country", "מדינה", "תחום שיפוט"},
			Synonyms: []string{"jurisdiction", "country", "region", "territory", "מדינה", "שיפוט"},
		},
		{
			Field:    domain.FieldEntity,
			Exact:    []string{"entity", "entity name", "constituent entity", "company", "ישות", "חברה"},
			Synonyms: []string{"entity", "subsidiary", "company", "ישות", "חברה"},
		},
	}
}

// WithOverrides returns settings whose specs are extended by the given overrides.
func (s Settings) WithOverrides(overrides map[domain.Field]SynonymOverride) Settings {
	specs := make([]FieldSpec, 0, len(s.Specs))
	for _, spec := range s.Specs {
		o, ok := overrides[spec.Field]
		if ok {
			spec.Exact = append(normalizeAll(o.Exact), spec.Exact...)
			spec.Synonyms = append(normalizeAll(o.Synonyms), spec.Synonyms...)
			spec.Exclude = append(normalizeAll(o.Exclude), spec.Exclude...)
		}
		specs = append(specs, spec)
	}
	s.Specs = specs
	return s
}
