package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Broadcaster fans a payload out to everyone connected to a trip's room.
type Broadcaster interface {
	Broadcast(tripId string, payload []byte)
}

// Hub tracks the live websocket connections per trip room. Connections whose
// writes fail are dropped from the room and closed.
type Hub struct {
	mu    sync.Mutex
	rooms map[string][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string][]*websocket.Conn)}
}

func (h *Hub) Join(tripId string, conn *websocket.Conn) {
	h.mu.Lock()
	h.rooms[tripId] = append(h.rooms[tripId], conn)
	h.mu.Unlock()
}

func (h *Hub) Leave(tripId string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[tripId]
	kept := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(h.rooms, tripId)
		return
	}
	h.rooms[tripId] = kept
}

func (h *Hub) Broadcast(tripId string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[tripId]
	kept := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err == nil {
			kept = append(kept, conn)
		} else {
			conn.Close()
		}
	}
	h.rooms[tripId] = kept
}
