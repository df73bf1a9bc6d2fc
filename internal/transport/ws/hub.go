package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Message is the WebSocket envelope format, both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Sink is the engine side of the transport boundary.
type Sink interface {
	Submit(connID string, data []byte)
	Disconnect(connID string)
}

// Hub tracks live connections and room membership, and implements the
// engine's Broadcaster. Delivery to a connection is a buffered channel send;
// a slow client drops messages rather than blocking the engine.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	rooms map[string]map[string]*Connection // roomCode -> connID -> conn

	sink Sink
	log  zerolog.Logger
}

// NewHub creates an empty hub. SetSink must be called before serving.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*Connection),
		rooms: make(map[string]map[string]*Connection),
		log:   logger,
	}
}

// SetSink wires the engine in after construction (the engine needs the hub
// as its Broadcaster first).
func (h *Hub) SetSink(sink Sink) { h.sink = sink }

func (h *Hub) add(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()
	h.log.Debug().Str("conn", conn.ID).Msg("connection registered")
}

func (h *Hub) remove(conn *Connection) {
	h.mu.Lock()
	if existing, ok := h.conns[conn.ID]; ok && existing == conn {
		delete(h.conns, conn.ID)
		for code, members := range h.rooms {
			if _, ok := members[conn.ID]; ok {
				delete(members, conn.ID)
				if len(members) == 0 {
					delete(h.rooms, code)
				}
			}
		}
		close(conn.send)
	}
	h.mu.Unlock()
	h.log.Debug().Str("conn", conn.ID).Msg("connection removed")
}

// JoinRoom adds a connection to a room's broadcast set.
func (h *Hub) JoinRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]*Connection)
	}
	h.rooms[roomCode][connID] = conn
}

// LeaveRoom removes a connection from a room's broadcast set.
func (h *Hub) LeaveRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// CloseRoom forgets a room's broadcast set entirely.
func (h *Hub) CloseRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomCode)
}

// ToRoom sends an event to every connection in the room.
func (h *Hub) ToRoom(roomCode, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode broadcast")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.rooms[roomCode] {
		conn.trySend(data)
	}
}

// ToConn sends an event to one connection.
func (h *Hub) ToConn(connID, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode message")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.conns[connID]; ok {
		conn.trySend(data)
	}
}

// ToAll sends an event to every live connection (shutdown notice).
func (h *Hub) ToAll(event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode broadcast")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.conns {
		conn.trySend(data)
	}
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: event, Payload: data})
}
