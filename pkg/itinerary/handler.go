package itinerary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Category string  `json:"category,omitempty"`
	Type     string  `json:"type"`
}

type DayDTO struct {
	Date   string     `json:"date"`
	Events []EventDTO `json:"events"`
}

type ScheduleDTO struct {
	Days      []DayDTO `json:"days"`
	TotalCost float64  `json:"totalCost"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func scopeOf(r *http.Request) string {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = ScopeMain
	}
	return scope
}

func (h *Handler) statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrScopeDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUnknownScope):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	schedule, err := h.service.GetSchedule(r.Context(), scopeOf(r))
	if err != nil {
		http.Error(w, err.Error(), h.statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(scheduleToDTO(schedule)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding itinerary event")
	w.Header().Set("Content-Type", "application/json")

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.AddEvent(r.Context(), scopeOf(r), dtoToEvent(dto))
	if err != nil {
		http.Error(w, err.Error(), h.statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["eventId"]

	if err := h.service.RemoveEvent(r.Context(), scopeOf(r), eventId); err != nil {
		http.Error(w, err.Error(), h.statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Flush(r.Context(), scopeOf(r)); err != nil {
		http.Error(w, err.Error(), h.statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Leave(r.Context(), scopeOf(r)); err != nil {
		http.Error(w, err.Error(), h.statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func eventToDTO(event Event) EventDTO {
	return EventDTO{
		ID:       event.ID,
		Name:     event.Name,
		Cost:     event.Cost,
		Date:     event.Date,
		Time:     event.Time,
		Category: event.Category,
		Type:     string(event.Type),
	}
}

func dtoToEvent(dto EventDTO) Event {
	return Event{
		ID:       dto.ID,
		Name:     dto.Name,
		Cost:     dto.Cost,
		Date:     dto.Date,
		Time:     dto.Time,
		Category: dto.Category,
		Type:     EventType(dto.Type),
	}
}

func scheduleToDTO(schedule Schedule) ScheduleDTO {
	days := make([]DayDTO, 0, len(schedule.Days))
	for _, day := range schedule.Days {
		events := make([]EventDTO, 0, len(day.Events))
		for _, event := range day.Events {
			events = append(events, eventToDTO(event))
		}
		days = append(days, DayDTO{Date: day.Date, Events: events})
	}
	return ScheduleDTO{Days: days, TotalCost: schedule.TotalCost}
}
