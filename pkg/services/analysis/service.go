package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/services/columns"
	"github.com/de-tools/pillar-atlas/pkg/services/explain"
	"github.com/de-tools/pillar-atlas/pkg/services/metrics"
	"github.com/de-tools/pillar-atlas/pkg/services/qa"
	"github.com/de-tools/pillar-atlas/pkg/services/recommend"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Settings groups the tunable thresholds of every analysis stage
type Settings struct {
	Columns         columns.Settings   `mapstructure:"columns"`
	Metrics         metrics.Settings   `mapstructure:"metrics"`
	Recommendations recommend.Settings `mapstructure:"recommendations"`
	QA              qa.Settings        `mapstructure:"qa"`
}

func DefaultSettings() Settings {
	return Settings{
		Columns:         columns.DefaultSettings(),
		Metrics:         metrics.DefaultSettings(),
		Recommendations: recommend.DefaultSettings(),
		QA:              qa.DefaultSettings(),
	}
}

type Service interface {
	Analyze(ctx context.Context, ds *domain.Dataset, mode string) (domain.AnalysisResult, error)
	Ask(ctx context.Context, question string, language string, result domain.AnalysisResult) domain.QAResponse
	GenerateRecommendations(result domain.AnalysisResult) []domain.Recommendation
	Suggestions(language string) []string
}

type service struct {
	settings  Settings
	resolver  columns.Resolver
	engine    metrics.Engine
	explainer explain.Generator
	advisor   recommend.Generator
	qa        qa.Resolver
	now       func() time.Time
}

func NewService(settings Settings) Service {
	return &service{
		settings:  settings,
		resolver:  columns.NewResolver(settings.Columns),
		engine:    metrics.NewEngine(settings.Metrics),
		explainer: explain.NewGenerator(),
		advisor:   recommend.NewGenerator(settings.Recommendations),
		qa:        qa.NewResolver(settings.QA),
		now:       time.Now,
	}
}

func (s *service) Analyze(ctx context.Context, ds *domain.Dataset, mode string) (domain.AnalysisResult, error) {
	logger := zerolog.Ctx(ctx)

	m, ok := domain.ParseMode(mode)
	if !ok {
		logger.Warn().Str("requested", mode).Str("mode", string(m)).Msg("unsupported analysis mode, falling back")
	}

	fields, err := s.resolver.Resolve(ds)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("failed to resolve columns: %w", err)
	}
	logger.Debug().
		Str("source", ds.Source).
		Int("rows", len(ds.Rows)).
		Int("columns", len(ds.Columns)).
		Interface("fields", fields.All()).
		Msg("resolved dataset columns")

	computed := s.engine.Compute(ds, fields)
	explanations := s.explainer.Generate(computed, explain.KeysFor(m, computed))

	result := domain.AnalysisResult{
		ID:            uuid.NewString(),
		Source:        ds.Source,
		Mode:          m,
		CreatedAt:     s.now().UTC(),
		Summary:       computed.Summary,
		Jurisdictions: computed.Jurisdictions,
		Unallocated:   computed.Unallocated,
		Adjustments:   computed.Adjustments,
		Explanations:  explanations,
		Fields:        fields.All(),
	}
	result.Recommendations = recommend.NewModeGenerator(s.settings.Recommendations, m).Generate(result)

	logger.Info().
		Str("analysis_id", result.ID).
		Str("mode", string(m)).
		Float64("revenue", result.Summary.Revenue).
		Float64("taxes", result.Summary.Taxes).
		Bool("estimated_taxes", result.Summary.EstimatedTaxes).
		Str("zero_tax_cause", string(result.Summary.ZeroTaxCause)).
		Bool("tax_adjustments", result.Adjustments != nil).
		Int("recommendations", len(result.Recommendations)).
		Msg("analysis completed")

	return result, nil
}

func (s *service) Ask(ctx context.Context, question string, language string, result domain.AnalysisResult) domain.QAResponse {
	resp := s.qa.Ask(question, language, result)
	zerolog.Ctx(ctx).Info().
		Str("analysis_id", result.ID).
		Str("intent", string(resp.Intent)).
		Str("language", string(resp.Language)).
		Float64("confidence", resp.Confidence).
		Msg("question answered")
	return resp
}

// GenerateRecommendations evaluates every rule regardless of the mode the analysis ran in.
func (s *service) GenerateRecommendations(result domain.AnalysisResult) []domain.Recommendation {
	return s.advisor.Generate(result)
}

func (s *service) Suggestions(language string) []string {
	return s.qa.Suggestions(language)
}
