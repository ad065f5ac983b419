package events

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// Feeds lists every event type a subscriber may receive. It is announced
// in the welcome payload so clients can dispatch without guessing.
func Feeds() []string {
	return []string{
		TypePersonCreated,
		TypeMovieAdded,
		TypeMovieUpdated,
		TypeMovieDeleted,
		TypeListCleared,
	}
}

type welcome struct {
	Type      string   `json:"type"`
	Transport string   `json:"transport"`
	Feeds     []string `json:"feeds"`
	Clients   int      `json:"clients"`
}

// Hub fans list events out to every subscriber. Both transports are
// line-oriented: one JSON object per event, newline-terminated.
type Hub struct {
	mu  sync.Mutex
	tcp map[net.Conn]struct{}
	ws  map[*websocket.Conn]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{
		tcp: make(map[net.Conn]struct{}),
		ws:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.tcp[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.tcp, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.ws[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.ws, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Broadcast delivers one list event to all subscribers. A connection
// that fails its write is dropped on the spot; a lagging client never
// blocks the list operation that produced the event.
func (h *Hub) Broadcast(ev ListEvent) {
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.tcp {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := c.Write(line); err != nil {
			_ = c.Close()
			delete(h.tcp, c)
		}
	}

	for ws := range h.ws {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, line); err != nil {
			_ = ws.Close()
			delete(h.ws, ws)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tcp)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.tcp),
		WSClients:  len(h.ws),
	}
}

// Welcome greets a new TCP subscriber with the feed catalog.
func (h *Hub) Welcome(conn net.Conn) {
	payload, err := json.Marshal(welcome{
		Type:      "welcome",
		Transport: "tcp",
		Feeds:     Feeds(),
		Clients:   h.Count(),
	})
	if err != nil {
		return
	}
	_, _ = conn.Write(append(payload, '\n'))
}

// WelcomeWS is the WebSocket counterpart of Welcome.
func (h *Hub) WelcomeWS(ws *websocket.Conn) {
	h.mu.Lock()
	clients := len(h.ws)
	h.mu.Unlock()

	payload, err := json.Marshal(welcome{
		Type:      "welcome",
		Transport: "websocket",
		Feeds:     Feeds(),
		Clients:   clients,
	})
	if err != nil {
		return
	}
	_ = ws.WriteMessage(websocket.TextMessage, append(payload, '\n'))
}
