package roi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/roi-atlas/pkg/adapters"
	"github.com/de-tools/roi-atlas/pkg/models/api"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/analysis"
	roisvc "github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	dateLayout      = "2006-01-02"
	defaultRunLimit = 20
	maxBodyBytes    = 1 << 20
)

type Handler struct {
	svc      analysis.Service
	defaults roisvc.Options
}

func NewHandler(svc analysis.Service, defaults roisvc.Options) *Handler {
	return &Handler{svc: svc, defaults: defaults}
}

func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics, err := h.svc.ChannelMetrics(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapChannelMetricsListDomainToApi(metrics))
}

func (h *Handler) GetOptimization(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := floatParam(r, "budget", h.defaults.Budget)
	if err != nil || !roisvc.ValidBudget(budget) {
		http.Error(w, "invalid 'budget'. Expected a positive number", http.StatusBadRequest)
		return
	}

	allocs, err := h.svc.Optimize(r.Context(), filter, budget)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAllocationsDomainToApi(allocs))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := h.defaults
	if opts.Budget, err = floatParam(r, "budget", opts.Budget); err != nil || !roisvc.ValidBudget(opts.Budget) {
		http.Error(w, "invalid 'budget'. Expected a positive number", http.StatusBadRequest)
		return
	}
	if opts.Top, err = intParam(r, "top", opts.Top); err != nil || opts.Top < 0 {
		http.Error(w, "invalid 'top'. Expected a non-negative integer", http.StatusBadRequest)
		return
	}
	if opts.Review, err = intParam(r, "review", opts.Review); err != nil || opts.Review < 0 {
		http.Error(w, "invalid 'review'. Expected a non-negative integer", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AnalyzeStored(r.Context(), filter, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAnalysisDomainToApi(result.Analysis))
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	opts := h.defaults
	if req.Budget != nil {
		opts.Budget = *req.Budget
	}
	if req.Top != nil {
		opts.Top = *req.Top
	}
	if req.Review != nil {
		opts.Review = *req.Review
	}
	if !roisvc.ValidBudget(opts.Budget) || opts.Top < 0 || opts.Review < 0 {
		http.Error(w, "budget must be positive, top and review must not be negative", http.StatusBadRequest)
		return
	}

	filter, err := buildFilter(req.From, req.To, req.Channels)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.AnalyzeStored(r.Context(), filter, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if req.Save {
		if _, err := h.svc.SaveRun(r.Context(), result); err != nil {
			writeError(w, r, err)
			return
		}
		status = http.StatusCreated
	}

	resp := adapters.MapAnalysisDomainToApi(result.Analysis)
	resp.RunID = result.RunID
	writeJSON(w, r, status, resp)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultRunLimit)
	if err != nil || limit <= 0 {
		http.Error(w, "invalid 'limit'. Expected a positive integer", http.StatusBadRequest)
		return
	}

	runs, err := h.svc.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := make([]api.AnalysisRun, 0, len(runs))
	for _, run := range runs {
		dto := adapters.MapRunDomainToApi(run)
		dto.Results = nil
		response = append(response, dto)
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapRunDomainToApi(*run))
}

func parseFilter(r *http.Request) (domain.RecordFilter, error) {
	q := r.URL.Query()
	return buildFilter(q.Get("from"), q.Get("to"), q["channel"])
}

func buildFilter(from, to string, channels []string) (domain.RecordFilter, error) {
	filter := domain.RecordFilter{Channels: channels}
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return filter, fmt.Errorf("invalid 'from' date format. Expected format: YYYY-MM-DD")
		}
		filter.From = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return filter, fmt.Errorf("invalid 'to' date format. Expected format: YYYY-MM-DD")
		}
		filter.To = &t
	}
	return filter, nil
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNoRecords):
		http.Error(w, "no campaign records match the request", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrRunNotFound):
		http.Error(w, "analysis run not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidBudget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
