package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wayfare/wayfare/pkg/itinerary"
)

type SummaryDTO struct {
	Id       string  `json:"id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Date     string  `json:"date,omitempty"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency,omitempty"`
}

type ImportResultDTO struct {
	AddedEvents int `json:"addedEvents"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, itinerary.ErrScopeDenied):
		return http.StatusForbidden
	case errors.Is(err, itinerary.ErrUnknownScope):
		return http.StatusNotFound
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

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	dtos := make([]SummaryDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, SummaryDTO(b))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ImportFlight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	added, err := h.service.ImportFlight(r.Context(), scopeOf(r), mux.Vars(r)["orderId"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ImportResultDTO{AddedEvents: added}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ImportHotel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	added, err := h.service.ImportHotel(r.Context(), scopeOf(r), mux.Vars(r)["orderId"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ImportResultDTO{AddedEvents: added}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
