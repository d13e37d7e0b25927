package main

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub manages all connected clients and routes them to sessions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   *SessionManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	cfg    Config
	db     *DB
	tokens *Tokens
	tuning *TuningStore
	log    zerolog.Logger
}

// NewHub creates a new Hub. Games started through it report to deps.
func NewHub(cfg Config, tuning *TuningStore, deps GameDeps) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		sessions:   NewSessionManager(cfg.MaxSessions, deps),
		ipConns:    make(map[string]int),
		cfg:        cfg,
		db:         deps.DB,
		tokens:     deps.Tokens,
		tuning:     tuning,
		log:        deps.Log,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.detach(client)
		}
	}
}

// detach removes a client from its session. A departing player ends the
// game; a departing controller only hands input back to the player.
func (h *Hub) detach(c *Client) {
	sid := c.sessionID
	if sid == "" {
		return
	}
	c.sessionID = ""
	if c.isController {
		c.isController = false
		if sess := h.sessions.GetSession(sid); sess != nil {
			sess.Game.RemoveController(c)
		}
		return
	}
	h.sessions.EndSession(sid)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
