package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/pillar-atlas/pkg/models/api"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		ID:        "a-1",
		Source:    "financials.csv",
		Mode:      domain.ModeComprehensive,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary: domain.Summary{
			Revenue:        1000,
			Expenses:       600,
			NetProfit:      400,
			Jurisdictions:  1,
			Rows:           3,
			EstimatedTaxes: true,
			ZeroTaxCause:   domain.ZeroTaxValuesZero,
		},
		Jurisdictions: []domain.JurisdictionMetrics{
			{Name: "IL", Revenue: 800, Expenses: 500, PretaxProfit: 300, Rows: 2},
		},
		Unallocated: &domain.JurisdictionMetrics{Name: "", Revenue: 200, Expenses: 100, PretaxProfit: 100, Rows: 1},
		Explanations: map[string]domain.CalculationExplanation{
			domain.ExplanationTax: {
				Key:         domain.ExplanationTax,
				Type:        domain.ExplanationEstimated,
				Method:      domain.MethodDirectSumZero,
				MethodText:  domain.NewText("zero", "אפס"),
				Formula:     domain.NewText("sum(Tax)", "סכום(Tax)"),
				Explanation: domain.NewText("taxes are 0", "המסים הם 0"),
				Sources:     []string{"taxes"},
			},
		},
		Recommendations: []domain.Recommendation{
			{ID: "low_average_etr", Category: domain.CategoryTax, Severity: domain.SeverityCritical, Text: domain.NewText("review", "לבדוק")},
			{ID: "quarterly_review", Category: domain.CategoryGeneral, Severity: domain.SeverityLow, Text: domain.NewText("monitor", "לעקוב")},
		},
		Fields: []domain.FieldResolution{
			{Field: domain.FieldRevenue, Columns: []string{"Revenue"}, Strategy: domain.MatchExactName, Confidence: 1},
		},
	}
}

func TestMapAnalysisStoreRoundTrip(t *testing.T) {
	want := sampleResult()

	stored := MapAnalysisDomainToStore(want)

	assert.Equal(t, "critical", stored.Payload.Recommendations[0].Severity)
	assert.Equal(t, "tax_values_zero", stored.Payload.Summary.ZeroTaxCause)
	assert.Equal(t, want, MapAnalysisStoreToDomain(stored))
}

func adjustedResult() domain.AnalysisResult {
	r := sampleResult()
	r.Adjustments = &domain.TaxAdjustments{
		Items: []domain.Adjustment{
			{Kind: domain.AdjustmentDepreciation, Direction: domain.AdjustmentDeduction, Column: "Depreciation", Amount: 100},
			{Kind: domain.AdjustmentForeignIncome, Direction: domain.AdjustmentIncome, Column: "Foreign Income", Amount: 40},
		},
		Deductions:     100,
		Income:         40,
		PretaxProfit:   400,
		AdjustedIncome: 340,
		Rate:           0.23,
		TaxImpact:      -13.8,
		Liability:      78.2,
	}
	return r
}

func TestMapAnalysisStoreRoundTrip_Adjustments(t *testing.T) {
	want := adjustedResult()

	stored := MapAnalysisDomainToStore(want)

	require.NotNil(t, stored.Payload.Adjustments)
	assert.Equal(t, "deduction", stored.Payload.Adjustments.Items[0].Direction)
	assert.Equal(t, want, MapAnalysisStoreToDomain(stored))
}

func TestMapAnalysisDomainToApi_Adjustments(t *testing.T) {
	res := MapAnalysisDomainToApi(adjustedResult(), domain.LanguageHebrew)

	require.NotNil(t, res.TaxAdjustments)
	assert.Equal(t, -60.0, res.TaxAdjustments.Net)
	assert.Equal(t, 340.0, res.TaxAdjustments.AdjustedIncome)
	assert.Equal(t, api.TaxAdjustment{
		Kind: "depreciation", Label: "פחת", Direction: "deduction", Column: "Depreciation", Amount: 100,
	}, res.TaxAdjustments.Items[0])

	assert.Nil(t, MapAnalysisDomainToApi(sampleResult(), domain.LanguageEnglish).TaxAdjustments)
}

func TestMapBatchQuestionsDomainToApi(t *testing.T) {
	res := MapBatchQuestionsDomainToApi(domain.LanguageEnglish, []domain.QAResponse{
		{Intent: domain.IntentTotalTax, Answer: "Total tax is 0."},
		{Intent: domain.IntentUnrecognized, Answer: "I can help"},
	})

	assert.Equal(t, "en", res.Language)
	require.Len(t, res.Answers, 2)
	assert.Equal(t, "total_tax", res.Answers[0].Intent)
	assert.Equal(t, []string{}, res.Answers[1].Sources)
}

func TestMapSeverityStoreToDomain(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Severity
	}{
		{"low", domain.SeverityLow},
		{"medium", domain.SeverityMedium},
		{"high", domain.SeverityHigh},
		{"critical", domain.SeverityCritical},
		{"unknown", domain.SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapSeverityStoreToDomain(tt.in))
		})
	}
}

func TestMapAnalysisDomainToApi(t *testing.T) {
	res := MapAnalysisDomainToApi(sampleResult(), domain.LanguageHebrew)

	assert.Equal(t, "he", res.Language)
	assert.Equal(t, "comprehensive", res.Mode)
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, api.Recommendation{ID: "low_average_etr", Category: "tax", Severity: api.SeverityCritical, Text: "לבדוק"}, res.Recommendations[0])

	tax, ok := res.CalculationExplanations[domain.ExplanationTax]
	require.True(t, ok)
	assert.Equal(t, "estimated", tax.Type)
	assert.Equal(t, "zero", tax.Method)
	assert.Equal(t, "אפס", tax.MethodHe)
	assert.Equal(t, "direct_sum_zero", tax.MethodCode)
	assert.Equal(t, "taxes are 0", tax.Explanation)
	assert.Equal(t, "המסים הם 0", tax.ExplanationHe)

	require.NotNil(t, res.Unallocated)
	assert.Equal(t, 200.0, res.Unallocated.Revenue)
	assert.Equal(t, []api.ResolvedField{{Field: "revenue", Columns: []string{"Revenue"}, Strategy: "exact_name", Confidence: 1}}, res.ResolvedFields)
}

func TestMapAnalysisDomainToApi_EmptyCollections(t *testing.T) {
	res := MapAnalysisDomainToApi(domain.AnalysisResult{Mode: domain.ModeSummary}, domain.LanguageEnglish)

	assert.NotNil(t, res.Jurisdictions)
	assert.NotNil(t, res.CalculationExplanations)
	assert.NotNil(t, res.Recommendations)
	assert.NotNil(t, res.ResolvedFields)
	assert.Nil(t, res.Unallocated)
}

func TestMapQAResponseDomainToApi(t *testing.T) {
	res := MapQAResponseDomainToApi(domain.QAResponse{
		Intent:     domain.IntentUnrecognized,
		Language:   domain.LanguageEnglish,
		Answer:     "?",
		Confidence: 0.2,
	})

	assert.Equal(t, "unrecognized", res.Intent)
	assert.Equal(t, []string{}, res.Sources)
	assert.Equal(t, []string{}, res.RelatedQuestions)
}

func TestMapAnalysisDomainToReport(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		report := MapAnalysisDomainToReport(sampleResult(), domain.LanguageEnglish)

		assert.Equal(t, "Financial analysis", report.Title)
		assert.Equal(t, "financials.csv | comprehensive | a-1", report.Subtitle)
		require.Len(t, report.Sections, 4)

		summary := report.Sections[0]
		assert.Equal(t, "Summary", summary.Title)
		assert.Equal(t, domain.ReportDetail{Name: "Taxes", Value: "0", Description: "estimated"}, summary.Details[2])

		jurisdictions := report.Sections[1]
		require.Len(t, jurisdictions.Details, 2)
		assert.Equal(t, "IL", jurisdictions.Details[0].Name)
		assert.Equal(t, "(unallocated)", jurisdictions.Details[1].Name)
		assert.Equal(t, "Taxes 0, ETR -", jurisdictions.Details[0].Description)

		assert.Equal(t, []string{"taxes are 0"}, report.Sections[2].Notes)
		assert.Equal(t, []string{"review", "monitor"}, report.Sections[3].Notes)
	})

	t.Run("hebrew", func(t *testing.T) {
		report := MapAnalysisDomainToReport(sampleResult(), domain.LanguageHebrew)

		assert.Equal(t, "ניתוח פיננסי", report.Title)
		assert.Equal(t, "המלצות", report.Sections[3].Title)
		assert.Equal(t, []string{"לבדוק", "לעקוב"}, report.Sections[3].Notes)
	})

	t.Run("summary only", func(t *testing.T) {
		report := MapAnalysisDomainToReport(domain.AnalysisResult{Summary: domain.Summary{Revenue: 5}}, domain.LanguageEnglish)

		require.Len(t, report.Sections, 1)
	})

	t.Run("tax adjustments", func(t *testing.T) {
		report := MapAnalysisDomainToReport(adjustedResult(), domain.LanguageEnglish)

		require.Len(t, report.Sections, 5)
		adjustments := report.Sections[2]
		assert.Equal(t, "Tax adjustments", adjustments.Title)
		require.Len(t, adjustments.Details, 5)
		assert.Equal(t, domain.ReportDetail{Name: "Depreciation", Value: "100", Description: "deduction, Depreciation"}, adjustments.Details[0])
		assert.Equal(t, domain.ReportDetail{Name: "Adjusted income", Value: "340", Description: "estimated"}, adjustments.Details[2])
		assert.Equal(t, "Calculation explanations", report.Sections[3].Title)
	})
}
