package export

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayfare/wayfare/pkg/google"
	"github.com/wayfare/wayfare/pkg/itinerary"
)

type ResultDTO struct {
	ExportedEvents int `json:"exportedEvents"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, google.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, itinerary.ErrScopeDenied):
		return http.StatusForbidden
	case errors.Is(err, itinerary.ErrUnknownScope):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = itinerary.ScopeMain
	}

	exported, err := h.service.ExportSchedule(r.Context(), scope)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ResultDTO{ExportedEvents: exported}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
