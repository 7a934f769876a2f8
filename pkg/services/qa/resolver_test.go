package qa

import (
	"testing"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyTaxResult mirrors a dataset whose tax column holds only empty cells.
func emptyTaxResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Mode: domain.ModeComprehensive,
		Summary: domain.Summary{
			Revenue:        1_000_000,
			Expenses:       600_000,
			NetProfit:      400_000,
			EstimatedTaxes: true,
			ZeroTaxCause:   domain.ZeroTaxValuesZero,
		},
		Explanations: map[string]domain.CalculationExplanation{
			domain.ExplanationTax: {
				Key:         domain.ExplanationTax,
				Method:      domain.MethodDirectSumZero,
				Explanation: domain.NewText("The Tax column is present, but its values are zero or empty, so taxes are 0.", "עמודת המס Tax קיימת אך ערכיה אפס או ריקים, ולכן המסים הם 0."),
			},
			domain.ExplanationRevenue: {Key: domain.ExplanationRevenue},
		},
		Fields: []domain.FieldResolution{
			{Field: domain.FieldRevenue, Columns: []string{"Revenue"}},
			{Field: domain.FieldTax, Columns: []string{"Tax"}},
		},
	}
}

func jurisdictionResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Summary: domain.Summary{
			Revenue:       3000,
			Expenses:      1000,
			Taxes:         300,
			NetProfit:     1700,
			TaxRate:       10,
			AverageETR:    15,
			MinETR:        10,
			MaxETR:        20,
			Jurisdictions: 2,
		},
		Jurisdictions: []domain.JurisdictionMetrics{
			{Name: "IL", Revenue: 1000, Taxes: 50, ETR: 10, ETRMeaningful: true},
			{Name: "US", Revenue: 2000, Taxes: 250, ETR: 20, ETRMeaningful: true},
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     []concept
	}{
		{question: "Why is the tax zero?", want: []concept{conceptWhy, conceptTax, conceptZero}},
		{question: "למה המס הוא אפס?", want: []concept{conceptWhy, conceptTax, conceptZero}},
		{question: "מהו שיעור המס האפקטיבי?", want: []concept{conceptRate, conceptTax, conceptETR}},
		{question: "How much revenue?", want: []concept{conceptTotal, conceptRevenue}},
		{question: "מה סה\"כ ההוצאות?", want: []concept{conceptTotal, conceptExpenses}},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := classify(tt.question)
			var want concepts
			for _, c := range tt.want {
				want.add(c)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestAsk_Intents(t *testing.T) {
	tests := []struct {
		question string
		intent   domain.Intent
	}{
		{question: "Why is the tax zero?", intent: domain.IntentWhyTaxZero},
		{question: "Why are there no taxes?", intent: domain.IntentWhyTaxZero},
		{question: "What is the effective tax rate?", intent: domain.IntentETRExplanation},
		{question: "What is the ETR?", intent: domain.IntentETRExplanation},
		{question: "Show the breakdown by country", intent: domain.IntentJurisdictionBreakdown},
		{question: "What is the total tax?", intent: domain.IntentTotalTax},
		{question: "What is the total revenue?", intent: domain.IntentTotalRevenue},
		{question: "What are the main expenses?", intent: domain.IntentTotalExpenses},
		{question: "What is the net profit?", intent: domain.IntentNetProfit},
		{question: "מהי ההכנסה הכוללת?", intent: domain.IntentTotalRevenue},
		{question: "מהם ההוצאות העיקריות?", intent: domain.IntentTotalExpenses},
		{question: "מהו הרווח הנקי?", intent: domain.IntentNetProfit},
		{question: "איך מתחלקים הנתונים לפי מדינות?", intent: domain.IntentJurisdictionBreakdown},
		{question: "What is the weather today?", intent: domain.IntentUnrecognized},
		{question: "", intent: domain.IntentUnrecognized},
	}

	r := NewResolver(DefaultSettings())
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			resp := r.Ask(tt.question, "en", jurisdictionResult())
			assert.Equal(t, tt.intent, resp.Intent)
			assert.NotEmpty(t, resp.Answer)
		})
	}
}

func TestAsk_TotalTaxOnEstimatedZero(t *testing.T) {
	resp := NewResolver(DefaultSettings()).Ask("What is the total tax?", "en", emptyTaxResult())

	assert.Equal(t, domain.IntentTotalTax, resp.Intent)
	assert.Contains(t, resp.Answer, "Total tax is 0.")
	assert.LessOrEqual(t, resp.Confidence, 0.7)
	assert.Contains(t, resp.Sources, domain.ExplanationTax)
	assert.Equal(t, []string{"estimated_taxes", domain.ExplanationTax, "taxes"}, resp.Sources)
}

func TestAsk_WhyTaxZeroIsLanguageIndependent(t *testing.T) {
	r := NewResolver(DefaultSettings())
	result := emptyTaxResult()

	en := r.Ask("Why is the tax zero?", "en", result)
	he := r.Ask("למה המס הוא אפס?", "he", result)

	assert.Equal(t, domain.IntentWhyTaxZero, en.Intent)
	assert.Equal(t, en.Intent, he.Intent)
	assert.Equal(t, en.Sources, he.Sources)
	assert.InDelta(t, en.Confidence, he.Confidence, 1e-9)
	assert.Equal(t, domain.LanguageEnglish, en.Language)
	assert.Equal(t, domain.LanguageHebrew, he.Language)

	assert.Contains(t, en.Answer, "all of its values are zero or empty")
	assert.Contains(t, en.Answer, "The Tax column is present")
	assert.Contains(t, he.Answer, "עמודת המס קיימת אך כל ערכיה אפס או ריקים")
	assert.Contains(t, en.Sources, domain.ExplanationTax)
	assert.Contains(t, en.Sources, "zero_tax_cause")
}

func TestAsk_WhyTaxZeroWhenTaxIsEstimated(t *testing.T) {
	revenueField := domain.FieldResolution{Field: domain.FieldRevenue, Columns: []string{"Revenue"}}
	taxField := domain.FieldResolution{Field: domain.FieldTax, Columns: []string{"Tax"}}
	inferredTax := domain.FieldResolution{Field: domain.FieldTax, Columns: []string{"Amount"}, Strategy: domain.MatchValuePattern, Estimated: true}

	tests := []struct {
		name    string
		summary domain.Summary
		fields  []domain.FieldResolution
		want    string
		notWant string
	}{
		{
			name:    "no tax column",
			summary: domain.Summary{Revenue: 1000, Expenses: 600, Taxes: 92, EstimatedTaxes: true},
			fields:  []domain.FieldResolution{revenueField},
			want:    "No tax column was found",
		},
		{
			name:    "populated tax column with zero revenue",
			summary: domain.Summary{Revenue: 0, Expenses: 150, Taxes: 75, EstimatedTaxes: true},
			fields:  []domain.FieldResolution{revenueField, taxField},
			want:    "Revenue is zero or missing",
			notWant: "missing values",
		},
		{
			name:    "inferred tax column",
			summary: domain.Summary{Revenue: 1000, Expenses: 600, Taxes: 92, EstimatedTaxes: true},
			fields:  []domain.FieldResolution{revenueField, inferredTax},
			want:    "identified from its values",
		},
		{
			name:    "sparse tax column",
			summary: domain.Summary{Revenue: 1000, Expenses: 600, Taxes: 92, EstimatedTaxes: true},
			fields:  []domain.FieldResolution{revenueField, taxField},
			want:    "The tax column has missing values",
		},
	}

	r := NewResolver(DefaultSettings())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Ask("Why is the tax zero?", "en", domain.AnalysisResult{Summary: tt.summary, Fields: tt.fields})

			assert.Equal(t, domain.IntentWhyTaxZero, resp.Intent)
			assert.Contains(t, resp.Answer, "Total tax is not zero")
			assert.Contains(t, resp.Answer, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, resp.Answer, tt.notWant)
			}
		})
	}
}

func TestAsk_Confidence(t *testing.T) {
	tests := []struct {
		name     string
		question string
		result   domain.AnalysisResult
		want     float64
	}{
		{name: "full match", question: "What is the total revenue?", result: jurisdictionResult(), want: 0.9},
		{name: "minimal match", question: "What are the main expenses?", result: jurisdictionResult(), want: 0.8},
		{name: "competing intent", question: "What is the total income tax?", result: jurisdictionResult(), want: 0.75},
		{name: "subsumed intent does not compete", question: "Why is the total tax zero?", result: jurisdictionResult(), want: 0.9},
		{name: "floor", question: "tax revenue expenses profit", result: jurisdictionResult(), want: 0.4},
		{name: "estimated ceiling", question: "What is the total tax?", result: emptyTaxResult(), want: 0.7},
		{name: "unrecognized", question: "hello", result: jurisdictionResult(), want: 0.2},
	}

	r := NewResolver(DefaultSettings())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Ask(tt.question, "en", tt.result)
			assert.InDelta(t, tt.want, resp.Confidence, 1e-9)
		})
	}
}

func TestAsk_SourcesOnlyCitePresentExplanations(t *testing.T) {
	result := jurisdictionResult()

	resp := NewResolver(DefaultSettings()).Ask("What is the total tax?", "en", result)

	assert.Equal(t, []string{"estimated_taxes", "taxes"}, resp.Sources)
}

func TestAsk_LanguageFallback(t *testing.T) {
	resp := NewResolver(DefaultSettings()).Ask("What is the total revenue?", "fr", jurisdictionResult())

	assert.Equal(t, domain.LanguageEnglish, resp.Language)
	assert.Equal(t, "Total revenue is 3,000.", resp.Answer)
}

func TestAsk_HebrewAnswer(t *testing.T) {
	resp := NewResolver(DefaultSettings()).Ask("מהי ההכנסה הכוללת?", "he", jurisdictionResult())

	assert.Equal(t, "סך ההכנסות הוא 3,000.", resp.Answer)
	assert.Equal(t, []string{"מהם ההוצאות העיקריות?", "מהו הרווח הנקי?", "איך מתחלקים הנתונים לפי מדינות?"}, resp.RelatedQuestions)
}

func TestAsk_JurisdictionBreakdown(t *testing.T) {
	resp := NewResolver(DefaultSettings()).Ask("Revenue by jurisdiction", "en", jurisdictionResult())

	assert.Equal(t, domain.IntentJurisdictionBreakdown, resp.Intent)
	assert.Contains(t, resp.Answer, "IL: revenue 1,000, tax 50, ETR 10.00%")
	assert.Contains(t, resp.Answer, "US: revenue 2,000, tax 250, ETR 20.00%")
	assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
}

func TestAsk_Unrecognized(t *testing.T) {
	resp := NewResolver(DefaultSettings()).Ask("hello there", "he", jurisdictionResult())

	assert.Equal(t, domain.IntentUnrecognized, resp.Intent)
	assert.Empty(t, resp.Sources)
	assert.NotEmpty(t, resp.RelatedQuestions)
	assert.Contains(t, resp.Answer, "אני יכול לעזור")
}

func TestAsk_TaxAdjustments(t *testing.T) {
	result := jurisdictionResult()
	result.Adjustments = &domain.TaxAdjustments{
		Items: []domain.Adjustment{
			{Kind: domain.AdjustmentDepreciation, Direction: domain.AdjustmentDeduction, Column: "Depreciation", Amount: 200},
			{Kind: domain.AdjustmentCapitalGains, Direction: domain.AdjustmentIncome, Column: "Capital Gains", Amount: 50},
		},
		Deductions:     200,
		Income:         50,
		PretaxProfit:   2000,
		AdjustedIncome: 1850,
		Rate:           0.23,
		Liability:      425.5,
	}
	result.Explanations = map[string]domain.CalculationExplanation{
		domain.ExplanationAdjustments: {Key: domain.ExplanationAdjustments},
	}

	r := NewResolver(DefaultSettings())

	t.Run("english", func(t *testing.T) {
		resp := r.Ask("What are the tax adjustments?", "en", result)

		assert.Equal(t, domain.IntentTaxAdjustments, resp.Intent)
		assert.Contains(t, resp.Answer, "2 tax adjustments were found (Depreciation, Capital gains) with a net effect of -150")
		assert.Contains(t, resp.Answer, "Adjusted taxable income is 1,850")
		assert.InDelta(t, 0.7, resp.Confidence, 1e-9)
		assert.Equal(t, []string{"adjustments", domain.ExplanationAdjustments}, resp.Sources)
	})

	t.Run("hebrew", func(t *testing.T) {
		resp := r.Ask("מהן התאמות המס?", "he", result)

		assert.Equal(t, domain.IntentTaxAdjustments, resp.Intent)
		assert.Contains(t, resp.Answer, "נמצאו 2 התאמות מס (פחת, רווחי הון)")
	})

	t.Run("none found", func(t *testing.T) {
		resp := r.Ask("Which deductions apply?", "en", jurisdictionResult())

		assert.Equal(t, domain.IntentTaxAdjustments, resp.Intent)
		assert.Contains(t, resp.Answer, "No tax adjustments were found")
		assert.Equal(t, []string{"adjustments"}, resp.Sources)
	})
}

func TestSuggestions(t *testing.T) {
	r := NewResolver(DefaultSettings())

	en := r.Suggestions("en")
	he := r.Suggestions("he")

	require.Len(t, he, len(en))
	for i := range en {
		enResp := r.Ask(en[i], "en", jurisdictionResult())
		heResp := r.Ask(he[i], "he", jurisdictionResult())
		assert.NotEqual(t, domain.IntentUnrecognized, enResp.Intent, en[i])
		assert.Equal(t, enResp.Intent, heResp.Intent, he[i])
	}
}
