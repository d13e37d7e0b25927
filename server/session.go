package main

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionFull = errors.New("too many active sessions")

// Session is one player's running level
type Session struct {
	ID        string
	Game      *Game
	CreatedAt time.Time
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	deps     GameDeps
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(max int, deps GameDeps) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		max:      max,
		deps:     deps,
	}
}

// LevelBuilder creates the level a new game runs. The game is passed so it
// can receive the level's events.
type LevelBuilder func(g *Game) (*Level, error)

// CreateSession builds a level for player, welcomes the player and starts
// the game loop. The session removes itself when the loop exits.
func (sm *SessionManager) CreateSession(player Broadcaster, resumed bool, build LevelBuilder) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.max {
		return nil, ErrSessionFull
	}

	id := uuid.NewString()
	game := NewGame(id, sm.deps)
	level, err := build(game)
	if err != nil {
		return nil, err
	}
	game.level = level
	game.player = player

	sess := &Session{
		ID:        id,
		Game:      game,
		CreatedAt: time.Now(),
	}
	game.onExit = func() {
		sm.remove(id)
		sm.deps.Metrics.SessionEnded()
	}
	sm.sessions[id] = sess
	sm.deps.Metrics.SessionStarted()
	if player != nil {
		player.SendJSON(Envelope{T: MsgWelcome, Data: game.Welcome(resumed)})
	}
	go game.Run()
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// EndSession stops a session's game. The game loop removes the session.
func (sm *SessionManager) EndSession(id string) {
	sess := sm.GetSession(id)
	if sess == nil {
		return
	}
	sess.Game.Stop()
}

// StopAll stops every running game
func (sm *SessionManager) StopAll() {
	sm.mu.RLock()
	games := make([]*Game, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		games = append(games, s.Game)
	}
	sm.mu.RUnlock()
	for _, g := range games {
		g.Stop()
	}
}

// Count returns the number of active sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, id)
}
