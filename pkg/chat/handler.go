package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type MessageDTO struct {
	Id          int    `json:"id"`
	TripId      string `json:"tripId"`
	UserId      int    `json:"userId"`
	DisplayName string `json:"displayName"`
	Body        string `json:"body"`
	SentAt      string `json:"sentAt"`
}

type postDTO struct {
	Body string `json:"body"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// same-origin enforcement happens at the reverse proxy
		return true
	},
}

type Handler struct {
	service Service
	hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotMember):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := h.service.History(r.Context(), mux.Vars(r)["tripId"], limit)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, messageToDTO(m))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto postDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.service.Post(r.Context(), mux.Vars(r)["tripId"], dto.Body)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(messageToDTO(message)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Live upgrades the connection and streams new messages for the trip room.
// Incoming frames are treated as message bodies and posted on the sender's
// behalf.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	tripId := mux.Vars(r)["tripId"]

	// membership is checked before the upgrade so unauthorized users never
	// hold a socket open
	if _, err := h.service.History(r.Context(), tripId, 1); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	h.hub.Join(tripId, conn)
	defer func() {
		h.hub.Leave(tripId, conn)
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if len(payload) == 0 {
			continue
		}
		if _, err := h.service.Post(r.Context(), tripId, string(payload)); err != nil {
			log.Warnf("Dropping chat message from websocket: %v", err)
		}
	}
}

func messageToDTO(message Message) MessageDTO {
	return MessageDTO(message)
}
