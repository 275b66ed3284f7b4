package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/analyzer"
	"github.com/mktud1/arq503/internal/storage"
)

// errorResponse is the structured failure body. For gate failures it names
// the stage and the observed vs. required values.
type errorResponse struct {
	Error    string         `json:"error"`
	Stage    analyzer.Stage `json:"stage,omitempty"`
	Observed int            `json:"observed,omitempty"`
	Required int            `json:"required,omitempty"`
	ID       string         `json:"id,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	defer r.Body.Close()

	slog.Debug("Received analysis request", "segmento", req.Segmento)

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeAnalysisError(w, analysis, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "analysis not found", ID: id})
		return
	}
	if err != nil {
		slog.Error("Failed to load analysis", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	analyses, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list analyses", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, analysis *apimodels.Analysis, err error) {
	resp := errorResponse{Error: err.Error()}
	if analysis != nil {
		resp.ID = analysis.ID
	}

	var gateErr *analyzer.GateError
	if errors.As(err, &gateErr) {
		resp.Stage = gateErr.Stage
		resp.Observed = gateErr.Observed
		resp.Required = gateErr.Required
	}

	writeJSON(w, statusForError(err), resp)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, analyzer.ErrInsufficientSearchData),
		errors.Is(err, analyzer.ErrInsufficientExtraction),
		errors.Is(err, analyzer.ErrInvalidAIResponse),
		errors.Is(err, analyzer.ErrReportTooShort),
		errors.Is(err, analyzer.ErrMissingSection):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
