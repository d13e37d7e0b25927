package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxQueuedEvents bounds the pointer events buffered between ticks
const maxQueuedEvents = 32

// Broadcaster sends messages to a connected client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// GameDeps are the services a running game reports to
type GameDeps struct {
	Config  Config
	DB      *DB
	Tokens  *Tokens
	Events  *EventLog
	Metrics *Metrics
	Log     zerolog.Logger
}

// Game runs one level for one player at a fixed tick rate
type Game struct {
	mu         sync.Mutex
	sid        string
	level      *Level
	player     Broadcaster
	controller Broadcaster
	pending    Input
	destroyed  int
	liveAI     int
	liveLasers int
	running    bool
	stop       chan struct{}
	onExit     func()

	deps GameDeps
	log  zerolog.Logger
}

// NewGame creates a Game with no level loaded. It counts as running from
// creation so a Stop before Run is not lost.
func NewGame(sid string, deps GameDeps) *Game {
	return &Game{
		sid:     sid,
		running: true,
		stop:    make(chan struct{}),
		deps:    deps,
		log:     deps.Log.With().Str("sid", sid).Logger(),
	}
}

// Run starts the game loop and blocks until the level pauses, ends or the
// game is stopped.
func (g *Game) Run() {
	ticker := time.NewTicker(g.deps.Config.TickDuration())
	defer ticker.Stop()
	defer func() {
		g.mu.Lock()
		g.trackLive(0, 0)
		g.mu.Unlock()
		if g.onExit != nil {
			g.onExit()
		}
	}()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

func (g *Game) stopLocked() {
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// Emit receives level events during a tick. The game lock is held.
func (g *Game) Emit(ev Event) {
	if ev.Kind == EventDestroyed {
		g.destroyed++
	}
	tick := uint64(0)
	if g.level != nil {
		tick = g.level.Tick
	}
	g.deps.Events.Track(g.sid, tick, ev)
	g.deps.Metrics.Event(ev)
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgEvent, Data: ev})
	}
}

// HandleInput queues pointer events and replaces the touch sample if the
// message carries one
func (g *Game) HandleInput(in InputMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, ev := range in.Events {
		if len(g.pending.Events) >= maxQueuedEvents {
			break
		}
		g.pending.Events = append(g.pending.Events, ev)
	}
	if in.Touch != nil {
		g.pending.Touch = *in.Touch
	}
}

// SetPlayer associates the owning client
func (g *Game) SetPlayer(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.player = b
}

// SetController attaches a second client as the touch input source
func (g *Game) SetController(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.controller = b
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgCtrlOn})
	}
}

// RemoveController detaches the controller, if b is the one attached
func (g *Game) RemoveController(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.controller != b {
		return
	}
	g.controller = nil
	g.pending.Touch = TouchSample{}
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgCtrlOff})
	}
}

// Welcome describes the loaded level to the player
func (g *Game) Welcome(resumed bool) WelcomeMsg {
	g.mu.Lock()
	defer g.mu.Unlock()
	l := g.level
	return WelcomeMsg{
		SID:        g.sid,
		PlayerID:   l.Player.ID,
		Difficulty: l.Difficulty.String(),
		Lives:      l.Player.LivesLeft,
		Arena:      l.Arena,
		Screen:     l.Screen,
		Controls:   l.Controls,
		Resumed:    resumed,
	}
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running || g.level == nil {
		return
	}

	// A panicking tick leaves the level half-updated; the only way back is
	// the last stored snapshot.
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Uint64("tick", g.level.Tick).Msg("tick failed, stopping session")
			if g.player != nil {
				g.player.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "simulation failed, resume from your last pause"}})
			}
			g.stopLocked()
		}
	}()

	in := g.pending
	g.pending = Input{Touch: in.Touch}

	start := time.Now()
	action := g.level.Update(1/float64(g.deps.Config.TickRate), in)
	g.deps.Metrics.Tick(time.Since(start))
	g.trackLive(g.level.Counts())

	switch {
	case action == ActionPause:
		g.pause()
		return
	case g.level.Ended():
		g.finish()
		return
	}

	if g.level.Tick%g.deps.Config.BroadcastEvery() == 0 {
		g.broadcastFrame()
	}
}

// trackLive reports the change in live entities since the last tick
func (g *Game) trackLive(ai, lasers int) {
	g.deps.Metrics.Live(ai-g.liveAI, lasers-g.liveLasers)
	g.liveAI, g.liveLasers = ai, lasers
}

// pause stores the level and hands the player a resume token
func (g *Game) pause() {
	defer g.stopLocked()

	token, err := g.save()
	if err != nil {
		g.log.Error().Err(err).Msg("pause failed")
		if g.player != nil {
			g.player.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "could not save level"}})
		}
		return
	}
	g.log.Info().Uint64("tick", g.level.Tick).Msg("level paused")
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgPaused, Data: PausedMsg{Token: token, Tick: g.level.Tick}})
	}
}

func (g *Game) save() (string, error) {
	if g.deps.DB == nil || g.deps.Tokens == nil {
		return "", fmt.Errorf("no snapshot store configured")
	}
	id := uuid.NewString()
	if err := g.deps.DB.SaveSnapshot(id, g.sid, g.level.Snapshot()); err != nil {
		return "", err
	}
	return g.deps.Tokens.Issue(id, g.sid)
}

// finish records the outcome and tells the player
func (g *Game) finish() {
	defer g.stopLocked()

	l := g.level
	g.broadcastFrame()
	g.deps.Metrics.Outcome(l.Outcome, l.Difficulty)
	if g.deps.DB != nil {
		_, err := g.deps.DB.RecordResult(ResultRow{
			SessionID:  g.sid,
			Outcome:    l.Outcome.String(),
			Difficulty: l.Difficulty.String(),
			Ticks:      l.Tick,
			LivesLost:  l.Player.LivesLost,
			Destroyed:  g.destroyed,
		})
		if err != nil {
			g.log.Error().Err(err).Msg("record result")
		}
	}
	g.log.Info().Str("outcome", l.Outcome.String()).Uint64("ticks", l.Tick).Msg("level ended")
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgEnded, Data: EndedMsg{
			Outcome:   l.Outcome.String(),
			Ticks:     l.Tick,
			LivesLost: l.Player.LivesLost,
			Destroyed: g.destroyed,
		}})
	}
}

// broadcastFrame sends the projected level to the player
func (g *Game) broadcastFrame() {
	if g.player == nil {
		return
	}
	data, err := EncodeFrame(BuildFrame(g.level))
	if err != nil {
		g.log.Error().Err(err).Msg("encode frame")
		return
	}
	g.player.SendBinary(data)
}
