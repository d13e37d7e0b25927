package main

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/rs/zerolog"
)

// spawnAttempts bounds the search for a spawn point clear of asteroids
const spawnAttempts = 16

// PointerKind is the kind of a discrete pointer event
type PointerKind int

const (
	PointerDown    PointerKind = 0
	PointerUp      PointerKind = 1
	PointerDragged PointerKind = 2
)

// PointerEvent is one touch event in screen pixels
type PointerEvent struct {
	Kind    PointerKind `json:"k"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Pointer int         `json:"p"`
}

// Input is everything the player did since the previous tick
type Input struct {
	Events []PointerEvent
	Touch  TouchSample
}

// EventKind names a side effect the level signals to the outside
type EventKind string

const (
	EventFired     EventKind = "fired"
	EventDestroyed EventKind = "destroyed"
	EventButton    EventKind = "button"
)

// Event is a side effect raised during a tick
type Event struct {
	Kind     EventKind `json:"kind"`
	EntityID string    `json:"id,omitempty"`
}

// Sink receives level events. It must not call back into the level.
type Sink interface {
	Emit(ev Event)
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// Outcome is the end state of a level
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "playing"
}

// LevelConfig is threaded into a level once, when it is created
type LevelConfig struct {
	Tuning       Tuning
	Difficulty   Difficulty
	ScreenWidth  int
	ScreenHeight int
	Letterbox    bool // draw into a centred 3:2 area instead of the full screen
	Seed         int64
}

// Level is one running space level: the player, the AI ships, the
// asteroids and the camera. It is not safe for concurrent use.
type Level struct {
	Arena      Arena
	Difficulty Difficulty
	Layer      LayerViewport
	Screen     ScreenViewport
	Controls   Controls

	Player    *Ship
	AI        []*Ship
	Asteroids []*Asteroid

	Tick    uint64
	Outcome Outcome

	tuning Tuning
	laser  LaserSpec
	sink   Sink
	log    zerolog.Logger

	grid    *SpatialGrid
	nearIdx []int
	nearBuf []*Asteroid
}

func newLevelShell(cfg LevelConfig, sink Sink, log zerolog.Logger) (*Level, error) {
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	if sink == nil {
		sink = nopSink{}
	}
	screen := ScreenViewport{Width: cfg.ScreenWidth, Height: cfg.ScreenHeight}
	if cfg.Letterbox {
		screen = Create3To2AspectRatioViewport(cfg.ScreenWidth, cfg.ScreenHeight)
	}
	t := cfg.Tuning
	return &Level{
		Arena:      t.Arena,
		Difficulty: cfg.Difficulty,
		Layer:      NewLayerViewport(screen),
		Screen:     screen,
		Controls:   NewControls(cfg.ScreenWidth, cfg.ScreenHeight),
		tuning:     t,
		laser: LaserSpec{
			MuzzleSpeed:  t.LaserMuzzleSpeed,
			MaxLasers:    t.MaxLasers,
			MaxAgeFrames: t.LaserMaxAgeFrames,
			Size:         t.SpriteSize(LaserSprite),
		},
		sink: sink,
		log:  log,
		grid: NewSpatialGrid(t.Arena),
	}, nil
}

// NewLevel builds a fresh level from the configuration: the player at the
// start position with lives from the difficulty, then asteroids, seekers
// and turrets at random positions.
func NewLevel(cfg LevelConfig, sink Sink, log zerolog.Logger) (*Level, error) {
	l, err := newLevelShell(cfg, sink, log)
	if err != nil {
		return nil, err
	}
	t := cfg.Tuning
	def := cfg.Difficulty.Def()
	rng := rand.New(rand.NewSource(cfg.Seed))

	l.Player = NewShip(KindPlayer, t.PlayerStart, t.Player, t.SpriteSize(t.Player.Sprite))
	l.Player.LivesLeft = def.PlayerLives

	asteroidSize := t.SpriteSize(AsteroidSprite)
	l.Asteroids = make([]*Asteroid, 0, t.Asteroids)
	for i := 0; i < t.Asteroids; i++ {
		l.Asteroids = append(l.Asteroids, NewAsteroid(l.spawnPoint(rng), t.AsteroidSpin, asteroidSize, rng))
	}

	l.AI = make([]*Ship, 0, t.Seekers+t.Turrets)
	for _, group := range []struct {
		kind  ShipKind
		count int
	}{{KindSeeker, t.Seekers}, {KindTurret, t.Turrets}} {
		p := t.Profile(group.kind).Scaled(cfg.Difficulty)
		size := t.SpriteSize(p.Sprite)
		for i := 0; i < group.count; i++ {
			l.AI = append(l.AI, NewShip(group.kind, l.spawnPoint(rng), p, size))
		}
	}

	l.Layer.Follow(l.Player.Position, l.Arena)
	l.log.Debug().
		Str("difficulty", cfg.Difficulty.String()).
		Int("asteroids", len(l.Asteroids)).
		Int("ai", len(l.AI)).
		Msg("level created")
	return l, nil
}

// spawnPoint picks a random arena point that is not inside an existing
// asteroid, giving up after a few tries.
func (l *Level) spawnPoint(rng *rand.Rand) Vector2 {
	var p Vector2
	for try := 0; try < spawnAttempts; try++ {
		p = Vector2{rng.Float64() * l.Arena.Width, rng.Float64() * l.Arena.Height}
		free := true
		for _, a := range l.Asteroids {
			if a.Bound().Contains(p.X, p.Y) {
				free = false
				break
			}
		}
		if free {
			break
		}
	}
	return p
}

// RestoreLevel rebuilds a level from a snapshot taken with Snapshot.
// The screen layout comes from cfg; everything else from the snapshot.
func RestoreLevel(cfg LevelConfig, snap *Snapshot, sink Sink, log zerolog.Logger) (*Level, error) {
	if snap == nil || snap.Player == nil {
		return nil, fmt.Errorf("level: restore: empty snapshot")
	}
	cfg.Difficulty = snap.Difficulty
	l, err := newLevelShell(cfg, sink, log)
	if err != nil {
		return nil, err
	}
	l.Tick = snap.Tick
	l.Layer = snap.Viewport
	l.Player = snap.Player
	l.Asteroids = snap.Asteroids
	l.AI = snap.AI
	return l, nil
}

// Snapshot captures a deep copy of the level's entities and camera
func (l *Level) Snapshot() *Snapshot {
	s := &Snapshot{
		Difficulty: l.Difficulty,
		Tick:       l.Tick,
		Viewport:   l.Layer,
		Player:     l.Player.Clone(),
		Asteroids:  make([]*Asteroid, len(l.Asteroids)),
		AI:         make([]*Ship, len(l.AI)),
	}
	for i, a := range l.Asteroids {
		ac := *a
		s.Asteroids[i] = &ac
	}
	for i, m := range l.AI {
		s.AI[i] = m.Clone()
	}
	return s
}

// Ended reports whether the level has reached an outcome
func (l *Level) Ended() bool {
	return l.Outcome != OutcomePlaying
}

// Update advances the level by one tick of dt seconds. The order of the
// steps is fixed:
//
//  1. spend a player life if health ran out, ending the level on the last
//  2. end the level as won when no AI ships are left
//  3. route the first pointer event to pause or fire; both end the tick
//  4. move the player and keep it in the arena
//  5. centre the camera on the player
//  6. steer, collide and move every AI ship, removing the destroyed
//  7. collide every asteroid with the player and spin it
//
// Reload counters advance before step 1. Once the level has an outcome
// Update does nothing.
func (l *Level) Update(dt float64, in Input) Action {
	if l.Ended() {
		return ActionNone
	}
	l.Tick++

	l.Player.AdvanceReload()
	for _, m := range l.AI {
		m.AdvanceReload()
	}

	// 1
	if !l.Player.Alive() {
		out := l.Player.LoseLife()
		l.log.Debug().Int("lives", l.Player.LivesLeft).Uint64("tick", l.Tick).Msg("player lost a life")
		if out {
			l.end(OutcomeLost)
			return ActionNone
		}
	}

	// 2
	if len(l.AI) == 0 {
		l.end(OutcomeWon)
		return ActionNone
	}

	// 3
	if len(in.Events) > 0 {
		ev := in.Events[0]
		switch l.Controls.HitTest(ev.X, ev.Y) {
		case ActionPause:
			l.sink.Emit(Event{Kind: EventButton})
			return ActionPause
		case ActionFire:
			l.fire(l.Player)
			return ActionFire
		}
	}

	// 4
	UpdatePlayer(l.Player, in.Touch, l.Screen, dt)
	l.Player.ClampToArena(l.Arena)
	l.Player.UpdateLasers(dt, l.Arena, l.laser.MaxAgeFrames)

	// 5
	l.Layer.Follow(l.Player.Position, l.Arena)

	// 6
	l.rebuildGrid()
	for i := 0; i < len(l.AI); {
		m := l.AI[i]
		if l.updateMob(m, dt) {
			l.AI = slices.Delete(l.AI, i, i+1)
			l.destroyed(m)
			continue
		}
		i++
	}

	// 7
	for _, a := range l.Asteroids {
		if IsCollision(l.Player.Bound(), a.Bound()) {
			ApplyContact(l.Player, a, l.tuning.CollisionDamage)
		}
		a.Update(dt)
	}
	return ActionNone
}

// updateMob runs one AI ship for a tick. Returns true when the ship was
// destroyed and must be removed.
func (l *Level) updateMob(m *Ship, dt float64) bool {
	p := l.Player
	SteerMob(m, MobContext{Player: p, Others: l.AI, Asteroids: l.nearbyAsteroids(m)})

	if IsCollision(p.Bound(), m.Bound()) {
		if _, died := ApplyContact(p, m, l.tuning.CollisionDamage); died {
			return true
		}
	}

	for _, a := range l.Asteroids {
		if IsCollision(m.Bound(), a.Bound()) {
			if died, _ := ApplyContact(m, a, l.tuning.CollisionDamage); died {
				return true
			}
		}
	}

	var killed bool
	p.Lasers, killed = hitLasers(p.Lasers, m.Bound(), func(las *Laser) bool {
		return ApplyLaserHit(m, las)
	})
	if killed {
		return true
	}

	m.Lasers, _ = hitLasers(m.Lasers, p.Bound(), func(las *Laser) bool {
		ApplyLaserHit(p, las)
		return false
	})

	if WantsToFire(m, p, l.tuning.FireRange, l.tuning.TurretFireCone) {
		l.fire(m)
	}

	m.Integrate(dt)
	m.ClampToArena(l.Arena)
	m.UpdateLasers(dt, l.Arena, l.laser.MaxAgeFrames)
	return false
}

func (l *Level) fire(s *Ship) {
	if las := s.Fire(l.laser); las != nil {
		l.sink.Emit(Event{Kind: EventFired, EntityID: s.ID})
	}
}

func (l *Level) destroyed(m *Ship) {
	l.sink.Emit(Event{Kind: EventDestroyed, EntityID: m.ID})
	l.log.Debug().Str("id", m.ID).Str("kind", m.Kind.String()).Int("left", len(l.AI)).Msg("ship destroyed")
}

func (l *Level) end(o Outcome) {
	l.Outcome = o
	l.log.Debug().Str("outcome", o.String()).Uint64("tick", l.Tick).Int("lives_lost", l.Player.LivesLost).Msg("level ended")
}

// rebuildGrid files every asteroid in the broad-phase grid
func (l *Level) rebuildGrid() {
	l.grid.Clear()
	for i, a := range l.Asteroids {
		l.grid.Insert(a.Position.X, a.Position.Y, i)
	}
}

// nearbyAsteroids returns the asteroids that may be within separation
// range of m. The returned slice is reused on the next call.
func (l *Level) nearbyAsteroids(m *Ship) []*Asteroid {
	l.nearIdx = l.grid.QueryBuf(m.Position.X, m.Position.Y, SeparateThresholdAsteroid, l.nearIdx[:0])
	l.nearBuf = l.nearBuf[:0]
	for _, i := range l.nearIdx {
		l.nearBuf = append(l.nearBuf, l.Asteroids[i])
	}
	return l.nearBuf
}

// Counts returns the number of AI ships and live lasers
func (l *Level) Counts() (ai, lasers int) {
	lasers = len(l.Player.Lasers)
	for _, m := range l.AI {
		lasers += len(m.Lasers)
	}
	return len(l.AI), lasers
}
