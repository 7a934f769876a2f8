package columns

import (
	"testing"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "  Revenue ($) ", expected: "revenue"},
		{in: "Top-Up Tax", expected: "top up tax"},
		{in: "GloBE_Income", expected: "globe income"},
		{in: "סך  ההכנסות", expected: "סך ההכנסות"},
		{in: "---", expected: ""},
		{in: "הַכְנָסוֹת", expected: "הכנסות"},
		{in: "מִסִּים", expected: "מסים"},
		{in: "TOTAL Revenue", expected: "total revenue"},
		{in: "Café Sales", expected: "cafe sales"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeColumnName(tt.in))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	type expectation struct {
		columns  []string
		strategy domain.MatchStrategy
	}

	tests := []struct {
		name       string
		header     []string
		records    [][]string
		expected   map[domain.Field]expectation
		unresolved []domain.Field
	}{
		{
			name:    "english canonical headers",
			header:  []string{"Jurisdiction", "Entity", "Revenue", "Expenses", "Covered Taxes", "Top-Up Tax"},
			records: [][]string{{"IL", "A Ltd", "100", "60", "10", "0"}},
			expected: map[domain.Field]expectation{
				domain.FieldJurisdiction: {columns: []string{"Jurisdiction"}, strategy: domain.MatchExactName},
				domain.FieldEntity:       {columns: []string{"Entity"}, strategy: domain.MatchExactName},
				domain.FieldRevenue:      {columns: []string{"Revenue"}, strategy: domain.MatchExactName},
				domain.FieldExpense:      {columns: []string{"Expenses"}, strategy: domain.MatchExactName},
				domain.FieldTax:          {columns: []string{"Covered Taxes"}, strategy: domain.MatchExactName},
				domain.FieldTopUpTax:     {columns: []string{"Top-Up Tax"}, strategy: domain.MatchExactName},
			},
		},
		{
			name:    "globe income preferred over revenue",
			header:  []string{"Revenue ($)", "GloBE Income"},
			records: [][]string{{"100", "90"}},
			expected: map[domain.Field]expectation{
				domain.FieldRevenue: {columns: []string{"GloBE Income"}, strategy: domain.MatchExactName},
			},
		},
		{
			name:    "expense columns collected across strategies, tax excluded",
			header:  []string{"Revenue", "Expenses", "Management Fees", "Royalties", "Tax Expense"},
			records: [][]string{{"100", "10", "5", "3", "7"}},
			expected: map[domain.Field]expectation{
				domain.FieldExpense: {columns: []string{"Expenses", "Management Fees", "Royalties"}, strategy: domain.MatchExactName},
				domain.FieldTax:     {columns: []string{"Tax Expense"}, strategy: domain.MatchExactName},
			},
		},
		{
			name:    "hebrew headers with prefixes",
			header:  []string{"מדינה", "סך ההכנסות", "הוצאות", "המסים ששולמו"},
			records: [][]string{{"ישראל", "100", "50", "5"}},
			expected: map[domain.Field]expectation{
				domain.FieldJurisdiction: {columns: []string{"מדינה"}, strategy: domain.MatchExactName},
				domain.FieldRevenue:      {columns: []string{"סך ההכנסות"}, strategy: domain.MatchSynonym},
				domain.FieldExpense:      {columns: []string{"הוצאות"}, strategy: domain.MatchExactName},
				domain.FieldTax:          {columns: []string{"המסים ששולמו"}, strategy: domain.MatchSynonym},
			},
		},
		{
			name:   "value pattern fallback",
			header: []string{"Location", "Amount", "Year"},
			records: [][]string{
				{"IL", "1000", "2024"},
				{"US", "2000", "2024"},
			},
			expected: map[domain.Field]expectation{
				domain.FieldRevenue:      {columns: []string{"Amount"}, strategy: domain.MatchValuePattern},
				domain.FieldJurisdiction: {columns: []string{"Location"}, strategy: domain.MatchValuePattern},
			},
			unresolved: []domain.Field{domain.FieldTax, domain.FieldExpense},
		},
		{
			name:    "empty tax column still resolved by name",
			header:  []string{"Revenue", "Tax"},
			records: [][]string{{"100", ""}, {"200", ""}},
			expected: map[domain.Field]expectation{
				domain.FieldTax: {columns: []string{"Tax"}, strategy: domain.MatchExactName},
			},
		},
		{
			name:       "tax rate is not a tax amount",
			header:     []string{"Revenue", "Tax Rate"},
			records:    [][]string{{"100", "23"}},
			unresolved: []domain.Field{domain.FieldTax},
		},
	}

	r := NewResolver(DefaultSettings())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := domain.NewDataset("test", tt.header, tt.records)

			fields, err := r.Resolve(ds)

			require.NoError(t, err)
			for field, exp := range tt.expected {
				res, ok := fields.Get(field)
				require.True(t, ok, "field %s not resolved", field)
				assert.Equal(t, exp.columns, res.Columns, "field %s", field)
				assert.Equal(t, exp.strategy, res.Strategy, "field %s", field)
				assert.Equal(t, exp.strategy == domain.MatchValuePattern, res.Estimated)
			}
			for _, field := range tt.unresolved {
				assert.False(t, fields.Has(field), "field %s unexpectedly resolved", field)
			}
		})
	}
}

func TestResolver_PointedHebrewHeaders(t *testing.T) {
	ds := domain.NewDataset("test",
		[]string{"הַכְנָסוֹת", "הוֹצָאוֹת", "מִסִּים"},
		[][]string{{"1000", "400", "90"}})

	fields, err := NewResolver(DefaultSettings()).Resolve(ds)
	require.NoError(t, err)

	assert.Equal(t, "הַכְנָסוֹת", fields.Column(domain.FieldRevenue))
	assert.Equal(t, []string{"הוֹצָאוֹת"}, fields.Columns(domain.FieldExpense))
	assert.Equal(t, "מִסִּים", fields.Column(domain.FieldTax))
}

func TestResolver_Adjustments(t *testing.T) {
	ds := domain.NewDataset("test",
		[]string{"Revenue", "Depreciation Expense", "Tax Provision", "Capital Gains", "Foreign Income", "Foreign Tax", "Loss Carryforward", "הפרשות", "Depreciation Rate"},
		[][]string{{"1000", "100", "20", "30", "40", "5", "10", "15", "0.1"}})

	fields, err := NewResolver(DefaultSettings()).Resolve(ds)
	require.NoError(t, err)

	assert.Equal(t, []domain.AdjustmentColumn{
		{Kind: domain.AdjustmentDepreciation, Direction: domain.AdjustmentDeduction, Column: "Depreciation Expense"},
		{Kind: domain.AdjustmentCapitalGains, Direction: domain.AdjustmentIncome, Column: "Capital Gains"},
		{Kind: domain.AdjustmentForeignIncome, Direction: domain.AdjustmentIncome, Column: "Foreign Income"},
		{Kind: domain.AdjustmentLossCarryforward, Direction: domain.AdjustmentDeduction, Column: "Loss Carryforward"},
		{Kind: domain.AdjustmentProvisions, Direction: domain.AdjustmentDeduction, Column: "הפרשות"},
	}, fields.Adjustments())
	assert.Equal(t, []string{"Depreciation Expense"}, fields.Columns(domain.FieldExpense))
}

func TestResolver_ColumnClaimedOnce(t *testing.T) {
	ds := domain.NewDataset("test", []string{"Revenue", "Income"}, [][]string{{"1", "2"}})

	fields, err := NewResolver(DefaultSettings()).Resolve(ds)

	require.NoError(t, err)
	seen := map[string]domain.Field{}
	for _, res := range fields.All() {
		for _, col := range res.Columns {
			prev, dup := seen[col]
			assert.False(t, dup, "column %s claimed by %s and %s", col, prev, res.Field)
			seen[col] = res.Field
		}
	}
}

func TestResolver_InvalidDataset(t *testing.T) {
	r := NewResolver(DefaultSettings())

	_, err := r.Resolve(domain.NewDataset("empty.csv", []string{"Revenue"}, nil))
	require.Error(t, err)
	assert.True(t, domain.IsInvalidDataset(err))

	_, err = r.Resolve(nil)
	assert.True(t, domain.IsInvalidDataset(err))
}

func TestResolver_WithOverrides(t *testing.T) {
	settings := DefaultSettings().WithOverrides(map[domain.Field]SynonymOverride{
		domain.FieldRevenue: {Exact: []string{"Umsatz"}},
		domain.FieldTax:     {Synonyms: []string{"Steuer"}},
	})
	ds := domain.NewDataset("de.csv", []string{"Umsatz", "Gezahlte Steuer"}, [][]string{{"100", "20"}})

	fields, err := NewResolver(settings).Resolve(ds)

	require.NoError(t, err)
	assert.Equal(t, "Umsatz", fields.Column(domain.FieldRevenue))
	assert.Equal(t, "Gezahlte Steuer", fields.Column(domain.FieldTax))
}

func TestResolver_MinConfidenceDisablesValuePattern(t *testing.T) {
	settings := DefaultSettings()
	settings.MinConfidence = 0.5
	ds := domain.NewDataset("test", []string{"Amount"}, [][]string{{"100"}})

	fields, err := NewResolver(settings).Resolve(ds)

	require.NoError(t, err)
	assert.False(t, fields.Has(domain.FieldRevenue))
}
