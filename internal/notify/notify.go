package notify

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"strconv"
	"sync"
)

const (
	RegisterMessageType   = "register"
	MovieAddedMessageType = "movie_added"
)

// RegisterMessage is sent by a client that wants pushes for one
// person's list. PersonID 0 means "all lists".
type RegisterMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
	PersonID int64  `json:"person_id"`
}

type MovieAddedMessage struct {
	Type     string `json:"type"`
	PersonID int64  `json:"person_id"`
	MovieID  int64  `json:"movie_id"`
	Title    string `json:"title"`
}

type Client struct {
	ClientID string
	PersonID int64
	Addr     *net.UDPAddr
}

type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(clientID string, personID int64, addr *net.UDPAddr) {
	if clientID == "" || addr == nil {
		return
	}
	r.mu.Lock()
	r.clients[clientID] = Client{ClientID: clientID, PersonID: personID, Addr: addr}
	r.mu.Unlock()
}

func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	delete(r.clients, clientID)
	r.mu.Unlock()
}

// Subscribers returns the clients watching personID, plus watch-all clients.
func (r *Registry) Subscribers(personID int64) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, client := range r.clients {
		if client.PersonID == 0 || client.PersonID == personID {
			clients = append(clients, client)
		}
	}
	return clients
}

type Server struct {
	addr     string
	registry *Registry
	logger   *log.Logger
	conn     *net.UDPConn
}

func NewServer(addr string, registry *Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{addr: addr, registry: registry, logger: logger}
}

func (s *Server) Run() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn
	defer conn.Close()

	s.logger.Printf("UDP notify server listening on %s", s.addr)

	buffer := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		msg, err := parseRegisterMessage(buffer[:n])
		if err != nil {
			s.logger.Printf("invalid UDP message from %s: %v", addr, err)
			continue
		}
		if msg.Type != RegisterMessageType {
			continue
		}
		s.registry.Register(msg.ClientID, msg.PersonID, addr)
		s.logger.Printf("registered UDP client %s for person %s (%s)",
			msg.ClientID, personLabel(msg.PersonID), addr)
	}
}

func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Server) BroadcastMovieAdded(personID, movieID int64, title string) {
	if s.conn == nil {
		s.logger.Printf("UDP notify server not running")
		return
	}
	payload, err := json.Marshal(MovieAddedMessage{
		Type:     MovieAddedMessageType,
		PersonID: personID,
		MovieID:  movieID,
		Title:    title,
	})
	if err != nil {
		s.logger.Printf("failed to marshal broadcast: %v", err)
		return
	}

	for _, client := range s.registry.Subscribers(personID) {
		s.sendWithRetry(client, payload)
	}
}

func (s *Server) sendWithRetry(client Client, payload []byte) {
	if err := s.sendOnce(client, payload); err == nil {
		return
	}
	if err := s.sendOnce(client, payload); err != nil {
		s.logger.Printf("failed to notify client %s at %s: %v", client.ClientID, client.Addr, err)
		s.registry.Remove(client.ClientID)
	}
}

func (s *Server) sendOnce(client Client, payload []byte) error {
	if client.Addr == nil {
		return errors.New("missing client address")
	}
	_, err := s.conn.WriteToUDP(payload, client.Addr)
	return err
}

func parseRegisterMessage(data []byte) (RegisterMessage, error) {
	var msg RegisterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.ClientID == "" || msg.Type == "" {
		return msg, errors.New("missing required fields")
	}
	return msg, nil
}

func personLabel(id int64) string {
	if id == 0 {
		return "all"
	}
	return strconv.FormatInt(id, 10)
}
