package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayfare/wayfare/pkg/itinerary"
)

type ActivityDTO struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Location string  `json:"location,omitempty"`
}

type AddToItineraryDTO struct {
	ActivityId string `json:"activityId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, itinerary.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrActivityNotFound), errors.Is(err, itinerary.ErrUnknownScope):
		return http.StatusNotFound
	case errors.Is(err, itinerary.ErrScopeDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func scopeOf(r *http.Request) string {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		return itinerary.ScopeMain
	}
	return scope
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	query := r.URL.Query()

	activities, err := h.service.Search(r.Context(), query.Get("destination"), query.Get("category"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	dtos := make([]ActivityDTO, 0, len(activities))
	for _, a := range activities {
		dtos = append(dtos, ActivityDTO(a))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) AddToItinerary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AddToItineraryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.service.AddToItinerary(r.Context(), scopeOf(r), dto.ActivityId, dto.Date, dto.Time)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(event); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
