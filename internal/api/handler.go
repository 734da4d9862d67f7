package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/edgewatch/edgewatch/internal/pipeline"
	"github.com/edgewatch/edgewatch/internal/store"
)

// recentWindow is how far back the alerts listing reaches.
const recentWindow = time.Hour

// Checker runs one pipeline check. Implemented by *pipeline.Runner.
type Checker interface {
	RunCheck(ctx context.Context) (pipeline.Summary, error)
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	checker Checker
	history *store.Store
	mux     *http.ServeMux
}

// New creates a Handler wired to the given checker and alert history and
// registers all routes.
func New(checker Checker, history *store.Store) http.Handler {
	h := &Handler{checker: checker, history: history, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/check", h.check)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/alerts", h.alerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// check runs the pipeline once. The scheduler may use GET or POST; anything
// else is rejected without touching the pipeline.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sum, err := h.checker.RunCheck(r.Context())
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	msg := fmt.Sprintf("processed %d entries, sent %d alerts", sum.Processed, sum.AlertsSent)
	if sum.DeliveryFailures > 0 {
		msg = fmt.Sprintf("%s (%d deliveries failed)", msg, sum.DeliveryFailures)
	}

	jsonResp(w, http.StatusOK, CheckResponse{
		Success:    true,
		Message:    msg,
		CheckID:    sum.CheckID,
		Processed:  sum.Processed,
		AlertsSent: sum.AlertsSent,
	})
}

// health returns GET /api/v1/health — a cheap liveness probe.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		AlertsOnFile: h.history.Count(),
	})
}

// alerts returns GET /api/v1/alerts — alerts dispatched in the past hour.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, AlertsResponse{Alerts: h.history.Recent(recentWindow)})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Success: false, Error: msg})
}
