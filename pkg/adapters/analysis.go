package adapters

import (
	"slices"

	"github.com/de-tools/pillar-atlas/pkg/models/api"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/models/store"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityMedium:
		return api.SeverityMedium
	case domain.SeverityHigh:
		return api.SeverityHigh
	case domain.SeverityCritical:
		return api.SeverityCritical
	default:
		return api.SeverityLow
	}
}

func MapSeverityStoreToDomain(s string) domain.Severity {
	switch s {
	case domain.SeverityMedium.String():
		return domain.SeverityMedium
	case domain.SeverityHigh.String():
		return domain.SeverityHigh
	case domain.SeverityCritical.String():
		return domain.SeverityCritical
	default:
		return domain.SeverityLow
	}
}

func mapSummaryDomainToApi(s domain.Summary) api.Summary {
	return api.Summary{
		Revenue:           s.Revenue,
		Expenses:          s.Expenses,
		Taxes:             s.Taxes,
		NetProfit:         s.NetProfit,
		TaxRate:           s.TaxRate,
		ProfitMargin:      s.ProfitMargin,
		AverageETR:        s.AverageETR,
		MinETR:            s.MinETR,
		MaxETR:            s.MaxETR,
		OverallETR:        s.OverallETR,
		Jurisdictions:     s.Jurisdictions,
		Entities:          s.Entities,
		Rows:              s.Rows,
		TopUpTax:          s.TopUpTax,
		EstimatedTaxes:    s.EstimatedTaxes,
		EstimatedRevenue:  s.EstimatedRevenue,
		EstimatedExpenses: s.EstimatedExpenses,
		ZeroTaxCause:      string(s.ZeroTaxCause),
	}
}

func mapJurisdictionDomainToApi(j domain.JurisdictionMetrics) api.Jurisdiction {
	return api.Jurisdiction{
		Name:          j.Name,
		Revenue:       j.Revenue,
		Expenses:      j.Expenses,
		Taxes:         j.Taxes,
		PretaxProfit:  j.PretaxProfit,
		ETR:           j.ETR,
		ETRMeaningful: j.ETRMeaningful,
		Rows:          j.Rows,
	}
}

func mapAdjustmentsDomainToApi(a *domain.TaxAdjustments, lang domain.Language) *api.TaxAdjustments {
	if a == nil {
		return nil
	}
	res := &api.TaxAdjustments{
		Items:          make([]api.TaxAdjustment, 0, len(a.Items)),
		Deductions:     a.Deductions,
		Income:         a.Income,
		Net:            a.Net(),
		PretaxProfit:   a.PretaxProfit,
		AdjustedIncome: a.AdjustedIncome,
		Rate:           a.Rate,
		TaxImpact:      a.TaxImpact,
		Liability:      a.Liability,
	}
	for _, item := range a.Items {
		res.Items = append(res.Items, api.TaxAdjustment{
			Kind:      string(item.Kind),
			Label:     item.Kind.Label().Render(lang),
			Direction: string(item.Direction),
			Column:    item.Column,
			Amount:    item.Amount,
		})
	}
	return res
}

func mapAdjustmentsDomainToStore(a *domain.TaxAdjustments) *store.Adjustments {
	if a == nil {
		return nil
	}
	res := &store.Adjustments{
		Items:          make([]store.Adjustment, 0, len(a.Items)),
		Deductions:     a.Deductions,
		Income:         a.Income,
		PretaxProfit:   a.PretaxProfit,
		AdjustedIncome: a.AdjustedIncome,
		Rate:           a.Rate,
		TaxImpact:      a.TaxImpact,
		Liability:      a.Liability,
	}
	for _, item := range a.Items {
		res.Items = append(res.Items, store.Adjustment{
			Kind:      string(item.Kind),
			Direction: string(item.Direction),
			Column:    item.Column,
			Amount:    item.Amount,
		})
	}
	return res
}

func mapAdjustmentsStoreToDomain(a *store.Adjustments) *domain.TaxAdjustments {
	if a == nil {
		return nil
	}
	res := &domain.TaxAdjustments{
		Items:          make([]domain.Adjustment, 0, len(a.Items)),
		Deductions:     a.Deductions,
		Income:         a.Income,
		PretaxProfit:   a.PretaxProfit,
		AdjustedIncome: a.AdjustedIncome,
		Rate:           a.Rate,
		TaxImpact:      a.TaxImpact,
		Liability:      a.Liability,
	}
	for _, item := range a.Items {
		res.Items = append(res.Items, domain.Adjustment{
			Kind:      domain.AdjustmentKind(item.Kind),
			Direction: domain.AdjustmentDirection(item.Direction),
			Column:    item.Column,
			Amount:    item.Amount,
		})
	}
	return res
}

func MapExplanationDomainToApi(e domain.CalculationExplanation) api.CalculationExplanation {
	return api.CalculationExplanation{
		Type:          string(e.Type),
		Method:        e.MethodText.En,
		MethodHe:      e.MethodText.He,
		MethodCode:    string(e.Method),
		Formula:       e.Formula.En,
		FormulaHe:     e.Formula.He,
		Result:        e.Result,
		Explanation:   e.Explanation.En,
		ExplanationHe: e.Explanation.He,
		Sources:       nonNil(e.Sources),
	}
}

func MapRecommendationDomainToApi(r domain.Recommendation, lang domain.Language) api.Recommendation {
	return api.Recommendation{
		ID:       r.ID,
		Category: string(r.Category),
		Severity: MapSeverityDomainToApi(r.Severity),
		Text:     r.Text.Render(lang),
	}
}

// MapAnalysisDomainToApi renders an analysis for one language. Explanations keep both languages.
func MapAnalysisDomainToApi(r domain.AnalysisResult, lang domain.Language) api.Analysis {
	res := api.Analysis{
		ID:                      r.ID,
		Source:                  r.Source,
		Mode:                    string(r.Mode),
		Language:                string(lang),
		CreatedAt:               r.CreatedAt,
		Summary:                 mapSummaryDomainToApi(r.Summary),
		TaxAdjustments:          mapAdjustmentsDomainToApi(r.Adjustments, lang),
		Jurisdictions:           make([]api.Jurisdiction, 0, len(r.Jurisdictions)),
		CalculationExplanations: make(map[string]api.CalculationExplanation, len(r.Explanations)),
		Recommendations:         make([]api.Recommendation, 0, len(r.Recommendations)),
		ResolvedFields:          make([]api.ResolvedField, 0, len(r.Fields)),
	}
	for _, j := range r.Jurisdictions {
		res.Jurisdictions = append(res.Jurisdictions, mapJurisdictionDomainToApi(j))
	}
	if r.Unallocated != nil {
		u := mapJurisdictionDomainToApi(*r.Unallocated)
		res.Unallocated = &u
	}
	for key, e := range r.Explanations {
		res.CalculationExplanations[key] = MapExplanationDomainToApi(e)
	}
	for _, rec := range r.Recommendations {
		res.Recommendations = append(res.Recommendations, MapRecommendationDomainToApi(rec, lang))
	}
	for _, f := range r.Fields {
		res.ResolvedFields = append(res.ResolvedFields, api.ResolvedField{
			Field:      string(f.Field),
			Columns:    nonNil(f.Columns),
			Strategy:   string(f.Strategy),
			Confidence: f.Confidence,
			Estimated:  f.Estimated,
		})
	}
	return res
}

func MapAnalysisHeaderStoreToApi(h store.AnalysisHeader) api.AnalysisInfo {
	return api.AnalysisInfo{
		ID:        h.ID,
		Source:    h.Source,
		Mode:      h.Mode,
		CreatedAt: h.CreatedAt,
	}
}

func MapQAResponseDomainToApi(r domain.QAResponse) api.QuestionResponse {
	return api.QuestionResponse{
		Answer:           r.Answer,
		Confidence:       r.Confidence,
		Sources:          nonNil(r.Sources),
		Intent:           string(r.Intent),
		Language:         string(r.Language),
		RelatedQuestions: nonNil(r.RelatedQuestions),
	}
}

func mapTextDomainToStore(t domain.Text) store.Text {
	return store.Text{En: t.En, He: t.He}
}

func mapTextStoreToDomain(t store.Text) domain.Text {
	return domain.Text{En: t.En, He: t.He}
}

func mapJurisdictionDomainToStore(j domain.JurisdictionMetrics) store.Jurisdiction {
	return store.Jurisdiction{
		Name:          j.Name,
		Revenue:       j.Revenue,
		Expenses:      j.Expenses,
		Taxes:         j.Taxes,
		PretaxProfit:  j.PretaxProfit,
		ETR:           j.ETR,
		ETRMeaningful: j.ETRMeaningful,
		Rows:          j.Rows,
	}
}

func mapJurisdictionStoreToDomain(j store.Jurisdiction) domain.JurisdictionMetrics {
	return domain.JurisdictionMetrics{
		Name:          j.Name,
		Revenue:       j.Revenue,
		Expenses:      j.Expenses,
		Taxes:         j.Taxes,
		PretaxProfit:  j.PretaxProfit,
		ETR:           j.ETR,
		ETRMeaningful: j.ETRMeaningful,
		Rows:          j.Rows,
	}
}

func MapAnalysisDomainToStore(r domain.AnalysisResult) store.Analysis {
	s := r.Summary
	payload := store.AnalysisPayload{
		Summary: store.Summary{
			Revenue:           s.Revenue,
			Expenses:          s.Expenses,
			Taxes:             s.Taxes,
			NetProfit:         s.NetProfit,
			TaxRate:           s.TaxRate,
			ProfitMargin:      s.ProfitMargin,
			AverageETR:        s.AverageETR,
			MinETR:            s.MinETR,
			MaxETR:            s.MaxETR,
			OverallETR:        s.OverallETR,
			Jurisdictions:     s.Jurisdictions,
			Entities:          s.Entities,
			Rows:              s.Rows,
			TopUpTax:          s.TopUpTax,
			EstimatedTaxes:    s.EstimatedTaxes,
			EstimatedRevenue:  s.EstimatedRevenue,
			EstimatedExpenses: s.EstimatedExpenses,
			ZeroTaxCause:      string(s.ZeroTaxCause),
		},
		Jurisdictions:   make([]store.Jurisdiction, 0, len(r.Jurisdictions)),
		Adjustments:     mapAdjustmentsDomainToStore(r.Adjustments),
		Explanations:    make(map[string]store.Explanation, len(r.Explanations)),
		Recommendations: make([]store.Recommendation, 0, len(r.Recommendations)),
		Fields:          make([]store.Field, 0, len(r.Fields)),
	}
	for _, j := range r.Jurisdictions {
		payload.Jurisdictions = append(payload.Jurisdictions, mapJurisdictionDomainToStore(j))
	}
	if r.Unallocated != nil {
		u := mapJurisdictionDomainToStore(*r.Unallocated)
		payload.Unallocated = &u
	}
	for key, e := range r.Explanations {
		payload.Explanations[key] = store.Explanation{
			Key:         e.Key,
			Type:        string(e.Type),
			Method:      string(e.Method),
			MethodText:  mapTextDomainToStore(e.MethodText),
			Formula:     mapTextDomainToStore(e.Formula),
			Result:      e.Result,
			Explanation: mapTextDomainToStore(e.Explanation),
			Sources:     slices.Clone(e.Sources),
		}
	}
	for _, rec := range r.Recommendations {
		payload.Recommendations = append(payload.Recommendations, store.Recommendation{
			ID:       rec.ID,
			Category: string(rec.Category),
			Severity: rec.Severity.String(),
			Text:     mapTextDomainToStore(rec.Text),
		})
	}
	for _, f := range r.Fields {
		payload.Fields = append(payload.Fields, store.Field{
			Field:      string(f.Field),
			Columns:    slices.Clone(f.Columns),
			Strategy:   string(f.Strategy),
			Confidence: f.Confidence,
			Estimated:  f.Estimated,
		})
	}

	return store.Analysis{
		AnalysisHeader: store.AnalysisHeader{
			ID:        r.ID,
			Source:    r.Source,
			Mode:      string(r.Mode),
			CreatedAt: r.CreatedAt,
		},
		Payload: payload,
	}
}

func MapAnalysisStoreToDomain(a store.Analysis) domain.AnalysisResult {
	s := a.Payload.Summary
	res := domain.AnalysisResult{
		ID:        a.ID,
		Source:    a.Source,
		Mode:      domain.Mode(a.Mode),
		CreatedAt: a.CreatedAt,
		Summary: domain.Summary{
			Revenue:           s.Revenue,
			Expenses:          s.Expenses,
			Taxes:             s.Taxes,
			NetProfit:         s.NetProfit,
			TaxRate:           s.TaxRate,
			ProfitMargin:      s.ProfitMargin,
			AverageETR:        s.AverageETR,
			MinETR:            s.MinETR,
			MaxETR:            s.MaxETR,
			OverallETR:        s.OverallETR,
			Jurisdictions:     s.Jurisdictions,
			Entities:          s.Entities,
			Rows:              s.Rows,
			TopUpTax:          s.TopUpTax,
			EstimatedTaxes:    s.EstimatedTaxes,
			EstimatedRevenue:  s.EstimatedRevenue,
			EstimatedExpenses: s.EstimatedExpenses,
			ZeroTaxCause:      domain.ZeroTaxCause(s.ZeroTaxCause),
		},
		Jurisdictions:   make([]domain.JurisdictionMetrics, 0, len(a.Payload.Jurisdictions)),
		Adjustments:     mapAdjustmentsStoreToDomain(a.Payload.Adjustments),
		Explanations:    make(map[string]domain.CalculationExplanation, len(a.Payload.Explanations)),
		Recommendations: make([]domain.Recommendation, 0, len(a.Payload.Recommendations)),
		Fields:          make([]domain.FieldResolution, 0, len(a.Payload.Fields)),
	}
	for _, j := range a.Payload.Jurisdictions {
		res.Jurisdictions = append(res.Jurisdictions, mapJurisdictionStoreToDomain(j))
	}
	if a.Payload.Unallocated != nil {
		u := mapJurisdictionStoreToDomain(*a.Payload.Unallocated)
		res.Unallocated = &u
	}
	for key, e := range a.Payload.Explanations {
		res.Explanations[key] = domain.CalculationExplanation{
			Key:         e.Key,
			Type:        domain.ExplanationType(e.Type),
			Method:      domain.Method(e.Method),
			MethodText:  mapTextStoreToDomain(e.MethodText),
			Formula:     mapTextStoreToDomain(e.Formula),
			Result:      e.Result,
			Explanation: mapTextStoreToDomain(e.Explanation),
			Sources:     slices.Clone(e.Sources),
		}
	}
	for _, rec := range a.Payload.Recommendations {
		res.Recommendations = append(res.Recommendations, domain.Recommendation{
			ID:       rec.ID,
			Category: domain.Category(rec.Category),
			Severity: MapSeverityStoreToDomain(rec.Severity),
			Text:     mapTextStoreToDomain(rec.Text),
		})
	}
	for _, f := range a.Payload.Fields {
		res.Fields = append(res.Fields, domain.FieldResolution{
			Field:      domain.Field(f.Field),
			Columns:    slices.Clone(f.Columns),
			Strategy:   domain.MatchStrategy(f.Strategy),
			Confidence: f.Confidence,
			Estimated:  f.Estimated,
		})
	}
	return res
}

// MapBatchQuestionsDomainToApi keeps the answers in question order.
func MapBatchQuestionsDomainToApi(lang domain.Language, responses []domain.QAResponse) api.BatchQuestionResponse {
	res := api.BatchQuestionResponse{
		Language: string(lang),
		Answers:  make([]api.QuestionResponse, 0, len(responses)),
	}
	for _, r := range responses {
		res.Answers = append(res.Answers, MapQAResponseDomainToApi(r))
	}
	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
