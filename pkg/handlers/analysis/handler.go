package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/adapters"
	"github.com/de-tools/pillar-atlas/pkg/models/api"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	analysissvc "github.com/de-tools/pillar-atlas/pkg/services/analysis"
	"github.com/de-tools/pillar-atlas/pkg/store/dataset"
	analysisstore "github.com/de-tools/pillar-atlas/pkg/store/duckdb/analysis"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxUploadSize     = 32 << 20 // 32 MiB
	maxJSONBodySize   = 1 << 20
	maxBatchQuestions = 20
	defaultLimit      = 20
)

var (
	errBadRequest = errors.New("bad request")
	errTooLarge   = errors.New("request body too large")
)

type Handler struct {
	service analysissvc.Service
	store   analysisstore.Store
	loader  dataset.Loader
}

func NewHandler(service analysissvc.Service, store analysisstore.Store, loader dataset.Loader) *Handler {
	return &Handler{
		service: service,
		store:   store,
		loader:  loader,
	}
}

// CreateAnalysis accepts either a multipart upload (file, mode, language) or a JSON body naming a source.
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, ds, err := h.readDataset(w, r)
	if err != nil {
		h.writeError(w, r, err, "failed to load dataset")
		return
	}

	result, err := h.service.Analyze(ctx, ds, req.Mode)
	if err != nil {
		h.writeError(w, r, err, "failed to analyze dataset")
		return
	}

	if err = h.store.Save(ctx, adapters.MapAnalysisDomainToStore(result)); err != nil {
		h.writeError(w, r, err, "failed to save analysis")
		return
	}

	lang, _ := domain.ParseLanguage(req.Language)
	logger.Info().Str("id", result.ID).Str("source", result.Source).Msg("analysis created")
	writeJSON(w, r, http.StatusCreated, adapters.MapAnalysisDomainToApi(result, lang))
}

func (h *Handler) readDataset(w http.ResponseWriter, r *http.Request) (api.CreateAnalysisRequest, *domain.Dataset, error) {
	ctx := r.Context()
	var req api.CreateAnalysisRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return req, nil, bodyError("invalid multipart form", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return req, nil, fmt.Errorf("%w: missing file: %v", errBadRequest, err)
		}
		defer file.Close()

		req.Mode = r.FormValue("mode")
		req.Language = r.FormValue("language")
		ds, err := h.loader.LoadReader(ctx, header.Filename, file)
		return req, ds, err
	}

	if err := decodeJSON(w, r, &req); err != nil {
		return req, nil, err
	}
	if req.Source == "" {
		return req, nil, fmt.Errorf("%w: source is required", errBadRequest)
	}
	ds, err := h.loader.Load(ctx, req.Source)
	return req, ds, err
}

func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw), "invalid limit")
			return
		}
		limit = n
	}

	headers, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err, "failed to list analyses")
		return
	}

	response := make([]api.AnalysisInfo, 0, len(headers))
	for _, header := range headers {
		response = append(response, adapters.MapAnalysisHeaderStoreToApi(header))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, ok := h.loadResult(w, r)
	if !ok {
		return
	}
	lang, _ := domain.ParseLanguage(r.URL.Query().Get("language"))
	writeJSON(w, r, http.StatusOK, adapters.MapAnalysisDomainToApi(result, lang))
}

func (h *Handler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete analysis")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req api.QuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err, "invalid question")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		h.writeError(w, r, fmt.Errorf("%w: question is required", errBadRequest), "invalid question")
		return
	}

	result, ok := h.loadResult(w, r)
	if !ok {
		return
	}

	answer := h.service.Ask(r.Context(), req.Question, req.Language, result)
	writeJSON(w, r, http.StatusOK, adapters.MapQAResponseDomainToApi(answer))
}

// AskQuestions answers several questions against one stored analysis, in request order.
func (h *Handler) AskQuestions(w http.ResponseWriter, r *http.Request) {
	var req api.BatchQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err, "invalid questions")
		return
	}
	if err := validateQuestions(req.Questions); err != nil {
		h.writeError(w, r, err, "invalid questions")
		return
	}

	result, ok := h.loadResult(w, r)
	if !ok {
		return
	}

	answers := make([]domain.QAResponse, 0, len(req.Questions))
	for _, q := range req.Questions {
		answers = append(answers, h.service.Ask(r.Context(), q, req.Language, result))
	}
	lang, _ := domain.ParseLanguage(req.Language)
	zerolog.Ctx(r.Context()).Debug().Int("questions", len(answers)).Msg("batch answered")
	writeJSON(w, r, http.StatusOK, adapters.MapBatchQuestionsDomainToApi(lang, answers))
}

func validateQuestions(questions []string) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: questions are required", errBadRequest)
	}
	if len(questions) > maxBatchQuestions {
		return fmt.Errorf("%w: at most %d questions per request", errBadRequest, maxBatchQuestions)
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: question %d is empty", errBadRequest, i+1)
		}
	}
	return nil
}

// GetRecommendations renders the stored recommendations, so the list always matches the analysis mode.
// min_severity drops everything below the given level.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	minimum := domain.SeverityLow
	if raw := r.URL.Query().Get("min_severity"); raw != "" {
		sev, ok := domain.ParseSeverity(raw)
		if !ok {
			h.writeError(w, r, fmt.Errorf("%w: invalid min_severity %q", errBadRequest, raw), "invalid severity")
			return
		}
		minimum = sev
	}

	result, ok := h.loadResult(w, r)
	if !ok {
		return
	}
	lang, _ := domain.ParseLanguage(r.URL.Query().Get("language"))
	recs := domain.FilterRecommendations(result.Recommendations, minimum)
	writeJSON(w, r, http.StatusOK, api.RecommendationsResponse{
		Language:        string(lang),
		Recommendations: domain.RenderRecommendations(recs, lang),
	})
}

func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("language")
	lang, _ := domain.ParseLanguage(raw)
	writeJSON(w, r, http.StatusOK, api.SuggestionsResponse{
		Language:    string(lang),
		Suggestions: h.service.Suggestions(raw),
	})
}

func (h *Handler) loadResult(w http.ResponseWriter, r *http.Request) (domain.AnalysisResult, bool) {
	id := chi.URLParam(r, "id")
	stored, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "failed to get analysis")
		return domain.AnalysisResult{}, false
	}
	return adapters.MapAnalysisStoreToDomain(*stored), true
}

// decodeJSON reads a JSON body of at most maxJSONBodySize bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return bodyError("invalid request body", err)
	}
	return nil
}

func bodyError(msg string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %s: %v", errBadRequest, msg, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, dataset.ErrSourceNotAllowed):
		return http.StatusBadRequest
	case domain.IsInvalidDataset(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysisstore.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if status == http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg(msg)

	writeJSON(w, r, status, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
