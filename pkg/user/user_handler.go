package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Id          int         `json:"id"`
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	HomeCurrency     string `json:"homeCurrency"`
	Timezone         string `json:"timezone"`
	BookingEmail     *bool  `json:"bookingEmail,omitempty"`
	BookingPush      *bool  `json:"bookingPush,omitempty"`
	GoogleCalendarId string `json:"googleCalendarId,omitempty"`
}

type SettingsPatchDTO struct {
	HomeCurrency     *string `json:"homeCurrency,omitempty"`
	Timezone         *string `json:"timezone,omitempty"`
	BookingEmail     *bool   `json:"bookingEmail,omitempty"`
	BookingPush      *bool   `json:"bookingPush,omitempty"`
	GoogleCalendarId *string `json:"googleCalendarId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new user")
	w.Header().Set("Content-Type", "application/json")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Uid == "" || dto.Username == "" {
		http.Error(w, "uid and username are required", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateUser(r.Context(), dtoToUser(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(userToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), dtoToUser(dto))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateSettings(r.Context(), SettingsPatch{
		HomeCurrency:     dto.HomeCurrency,
		Timezone:         dto.Timezone,
		BookingEmail:     dto.BookingEmail,
		BookingPush:      dto.BookingPush,
		GoogleCalendarId: dto.GoogleCalendarId,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	username := r.URL.Query().Get("username")

	available, err := h.service.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"available": available}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAvailableUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userToDTO(u))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userId, err := strconv.Atoi(vars["userId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userId); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userToDTO(user User) UserDTO {
	return UserDTO{
		Id:          user.Id,
		Uid:         user.Uid,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Settings: SettingsDTO{
			HomeCurrency:     user.Settings.HomeCurrency,
			Timezone:         user.Settings.Timezone,
			BookingEmail:     user.Settings.Notifications.BookingEmail,
			BookingPush:      user.Settings.Notifications.BookingPush,
			GoogleCalendarId: user.Settings.GoogleCalendarId,
		},
	}
}

func dtoToUser(dto UserDTO) User {
	return User{
		Id:          dto.Id,
		Uid:         dto.Uid,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings: Settings{
			HomeCurrency: dto.Settings.HomeCurrency,
			Timezone:     dto.Settings.Timezone,
			Notifications: NotificationPrefs{
				BookingEmail: dto.Settings.BookingEmail,
				BookingPush:  dto.Settings.BookingPush,
			},
			GoogleCalendarId: dto.Settings.GoogleCalendarId,
		},
	}
}
