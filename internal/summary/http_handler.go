package summary

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rpattn/fxdeals/internal/repository"
)

// Handler serves run summaries and counter reports.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with GET endpoints.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.HasSuffix(r.URL.Path, "/counters") {
		h.handleCounters(w, r)
		return
	}
	h.handleRunSummary(w, r)
}

func (h *Handler) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
	if fileName == "" {
		http.Error(w, "fileName is required", http.StatusBadRequest)
		return
	}

	out, err := h.service.RunSummary(r.Context(), fileName)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := h.service.Counters(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
