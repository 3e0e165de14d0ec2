package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/internal/infra/sqlite"
)

// ReportHandler serves the report-history REST API. CreateReport runs a
// synchronous batch over the requested subreddits and persists the result.
type ReportHandler struct {
	store  *sqlite.ReportStore
	runner *trend.BatchRunner
}

// NewReportHandler creates a ReportHandler over store and runner.
func NewReportHandler(store *sqlite.ReportStore, runner *trend.BatchRunner) *ReportHandler {
	return &ReportHandler{store: store, runner: runner}
}

// CreateReportRequest is the request body for creating a report. An empty or
// omitted subreddit list runs the batch over currently trending subreddits.
type CreateReportRequest struct {
	Subreddits []string `json:"subreddits"`
}

// ListReportsResponse is the response body for listing reports.
type ListReportsResponse struct {
	Data []*sqlite.Report `json:"data"`
	Meta Meta             `json:"meta"`
}

// CreateReport handles POST /api/v1/reports. It blocks until the batch run
// completes; a pipeline failure produces 502 and nothing is stored.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateReportRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.runner.Run(ctx, trend.ToTopics(req.Subreddits))
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("batch run failed: %v", err))
		return
	}

	report, err := h.store.Save(ctx, req.Subreddits, result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store report: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// ListReports handles GET /api/v1/reports.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	page := parsePaginationParams(r)

	reports, total, err := h.store.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list reports: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, ListReportsResponse{
		Data: reports,
		Meta: Meta{Total: total, Limit: page.Limit, Offset: page.Offset},
	})
}

// GetReport handles GET /api/v1/reports/{id}.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.store.Get(r.Context(), id)
	if errors.Is(err, trend.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get report: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, report)
}
