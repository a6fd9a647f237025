package ws

import (
	"chatlens/internal/model"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub fans upload status events out to every open page of a session
type Hub struct {
	// session ID -> open connections
	sessions map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for one session
type BroadcastMessage struct {
	SessionID string
	Data      []byte
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.sessions[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			log.Debug().Str("session_id", conn.SessionID).Msg("Status socket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.sessions[conn.SessionID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.sessions, conn.SessionID)
					}
					log.Debug().Str("session_id", conn.SessionID).Msg("Status socket disconnected")
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.sessions[msg.SessionID] {
				select {
				case conn.Send <- msg.Data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, conns := range h.sessions {
				for conn := range conns {
					close(conn.Send)
				}
			}
			h.sessions = make(map[string]map[*Connection]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues an event for the session's connections (implements
// service.Broadcaster). It never blocks the caller; events are dropped when
// the queue is full.
func (h *Hub) Publish(sessionID string, event *model.StatusEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode status event")
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Data: data}:
	default:
		log.Warn().Str("session_id", sessionID).Msg("Status queue full, dropping event")
	}
}

// ConnectionCount returns the number of open sockets of a session.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Close disconnects every socket and stops the hub.
func (h *Hub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
