package course

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"course-builder/internal/gateway"
	"course-builder/internal/platform/metrics"
)

const maxRequestBytes = 1 << 20

const (
	msgPromptRequired = "prompt is required and must be a string"
	msgQuotaExceeded  = "YouTube API quota exceeded. Please try again later."
	msgGenerateFailed = "failed to generate course"
)

// Handler exposes the course endpoint.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

type courseRequest struct {
	Prompt *string `json:"prompt"`
}

type courseResponse struct {
	Videos []VideoResult `json:"videos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GenerateCourse handles POST /api/course.
// Body: { "prompt": "learn react" }.
func (h *Handler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req courseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.log.Debug("invalid course body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgPromptRequired})
		return
	}
	if req.Prompt == nil || strings.TrimSpace(*req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgPromptRequired})
		return
	}

	videos, err := h.svc.Generate(r.Context(), *req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPrompt):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgPromptRequired})
		case errors.Is(err, gateway.ErrQuotaExceeded):
			h.record(metrics.OutcomeQuota, 0)
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msgQuotaExceeded})
		default:
			h.log.Error("generate course failed", slog.String("error", err.Error()))
			h.record(metrics.OutcomeFailed, 0)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgGenerateFailed})
		}
		return
	}

	outcome := metrics.OutcomeOK
	if len(videos) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	h.record(outcome, len(videos))
	writeJSON(w, http.StatusOK, courseResponse{Videos: videos})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) record(outcome string, n int) {
	if h.metrics == nil {
		return
	}
	h.metrics.IncGeneration(outcome)
	if outcome == metrics.OutcomeOK || outcome == metrics.OutcomeEmpty {
		h.metrics.ObserveSegments(n)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
