package trip

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type MemberDTO struct {
	UserId int    `json:"userId"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type TripDTO struct {
	Id          string      `json:"id"`
	Name        string      `json:"name"`
	Destination string      `json:"destination"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	OwnerId     int         `json:"ownerId"`
	Members     []MemberDTO `json:"members,omitempty"`
}

type InviteDTO struct {
	UserId int `json:"userId"`
}

type InviteResponseDTO struct {
	Accept bool `json:"accept"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTripNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyAdded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	trips, err := h.service.ListTrips(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	dtos := make([]TripDTO, 0, len(trips))
	for _, t := range trips {
		dtos = append(dtos, tripToDTO(t))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	trip, err := h.service.GetTrip(r.Context(), mux.Vars(r)["tripId"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tripToDTO(trip)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto TripDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateTrip(r.Context(), dtoToTrip(dto))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(tripToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto TripDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.Id = mux.Vars(r)["tripId"]

	updated, err := h.service.UpdateTrip(r.Context(), dtoToTrip(dto))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tripToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTrip(r.Context(), mux.Vars(r)["tripId"]); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	var dto InviteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Invite(r.Context(), mux.Vars(r)["tripId"], dto.UserId); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	var dto InviteResponseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RespondToInvite(r.Context(), mux.Vars(r)["tripId"], dto.Accept); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LeaveTrip(r.Context(), mux.Vars(r)["tripId"]); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func tripToDTO(trip Trip) TripDTO {
	members := make([]MemberDTO, 0, len(trip.Members))
	for _, m := range trip.Members {
		members = append(members, MemberDTO{UserId: m.UserId, Role: string(m.Role), Status: string(m.Status)})
	}
	return TripDTO{
		Id:          trip.Id,
		Name:        trip.Name,
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		OwnerId:     trip.OwnerId,
		Members:     members,
	}
}

func dtoToTrip(dto TripDTO) Trip {
	return Trip{
		Id:          dto.Id,
		Name:        dto.Name,
		Destination: dto.Destination,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		OwnerId:     dto.OwnerId,
	}
}
