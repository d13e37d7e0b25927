package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SpriteSize is what the client's asset store reports for one sprite:
// world half extents and the pixel size of its bitmap.
type SpriteSize struct {
	HalfWidth    float64 `yaml:"half_width"`
	HalfHeight   float64 `yaml:"half_height"`
	BitmapWidth  int     `yaml:"bitmap_width"`
	BitmapHeight int     `yaml:"bitmap_height"`
}

var defaultSpriteSize = SpriteSize{HalfWidth: 25, HalfHeight: 25, BitmapWidth: 50, BitmapHeight: 50}

// Tuning is the level definition read at level start
type Tuning struct {
	Arena       Arena   `yaml:"arena"`
	PlayerStart Vector2 `yaml:"player_start"`

	Asteroids    int     `yaml:"asteroids"`
	Seekers      int     `yaml:"seekers"`
	Turrets      int     `yaml:"turrets"`
	AsteroidSpin float64 `yaml:"asteroid_spin"` // spin is drawn from [-AsteroidSpin, AsteroidSpin)

	Player ShipProfile `yaml:"player"`
	Seeker ShipProfile `yaml:"seeker"`
	Turret ShipProfile `yaml:"turret"`

	FireRange         float64 `yaml:"fire_range"`
	TurretFireCone    float64 `yaml:"turret_fire_cone"` // degrees either side of the bearing
	CollisionDamage   int     `yaml:"collision_damage"`
	LaserMuzzleSpeed  float64 `yaml:"laser_muzzle_speed"`
	LaserMaxAgeFrames int     `yaml:"laser_max_age_frames"` // 0 keeps lasers until they hit or leave the arena
	MaxLasers         int     `yaml:"max_lasers"`

	Sprites map[string]SpriteSize `yaml:"sprites"`
}

// DefaultTuning returns the stock level: a 1000x1000 arena with 20
// asteroids, 5 seekers and 5 turrets.
func DefaultTuning() Tuning {
	return Tuning{
		Arena:            Arena{Width: 1000, Height: 1000},
		PlayerStart:      Vector2{100, 100},
		Asteroids:        20,
		Seekers:          5,
		Turrets:          5,
		AsteroidSpin:     20,
		Player:           DefaultShipProfile(KindPlayer),
		Seeker:           DefaultShipProfile(KindSeeker),
		Turret:           DefaultShipProfile(KindTurret),
		FireRange:        200,
		TurretFireCone:   10,
		CollisionDamage:  1,
		LaserMuzzleSpeed: 150,
		MaxLasers:        100,
		Sprites: map[string]SpriteSize{
			"Spaceship1": defaultSpriteSize,
			"Spaceship2": defaultSpriteSize,
			"Turret":     defaultSpriteSize,
			"Asteroid":   defaultSpriteSize,
			"Laser":      {HalfWidth: 4.5, HalfHeight: 1.5, BitmapWidth: 9, BitmapHeight: 3},
		},
	}
}

// Profile returns the ship profile for kind
func (t *Tuning) Profile(kind ShipKind) ShipProfile {
	switch kind {
	case KindSeeker:
		return t.Seeker
	case KindTurret:
		return t.Turret
	default:
		return t.Player
	}
}

// SpriteSize resolves a sprite name to its size, falling back to a 50x50 sprite
func (t *Tuning) SpriteSize(name string) SpriteSize {
	if s, ok := t.Sprites[name]; ok {
		return s
	}
	return defaultSpriteSize
}

// Validate checks the tuning is usable for building a level
func (t *Tuning) Validate() error {
	if t.Arena.Width <= 0 || t.Arena.Height <= 0 {
		return fmt.Errorf("arena must have a positive size, got %vx%v", t.Arena.Width, t.Arena.Height)
	}
	if t.Asteroids < 0 || t.Seekers < 0 || t.Turrets < 0 {
		return errors.New("entity counts must not be negative")
	}
	for _, p := range []ShipProfile{t.Player, t.Seeker, t.Turret} {
		if p.Health <= 0 {
			return errors.New("ship health must be positive")
		}
		if p.ReloadFrames < 0 {
			return errors.New("reload frames must not be negative")
		}
	}
	return nil
}

// LoadTuning reads a YAML level file on top of the defaults
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("tuning: unmarshal %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning: %s: %w", path, err)
	}
	return t, nil
}

// TuningStore holds the current tuning and reloads it when the file changes.
// Reloads only affect levels created afterwards.
type TuningStore struct {
	mu      sync.RWMutex
	path    string
	current Tuning
	log     zerolog.Logger
}

// NewTuningStore loads path, or uses the defaults when path is empty
func NewTuningStore(path string, log zerolog.Logger) (*TuningStore, error) {
	s := &TuningStore{path: path, current: DefaultTuning(), log: log}
	if path == "" {
		return s, nil
	}
	t, err := LoadTuning(path)
	if err != nil {
		return nil, err
	}
	s.current = t
	return s, nil
}

// Current returns the tuning new levels should use
func (s *TuningStore) Current() Tuning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *TuningStore) reload() {
	t, err := LoadTuning(s.path)
	if err != nil {
		s.log.Warn().Err(err).Msg("tuning reload failed, keeping previous values")
		return
	}
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	s.log.Info().Str("path", s.path).Msg("tuning reloaded")
}

// Watch reloads the tuning file on every write until ctx is done.
// The parent directory is watched so editors that replace the file still
// trigger a reload.
func (s *TuningStore) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tuning: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("tuning: watch %s: %w", s.path, err)
	}
	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				s.reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("tuning watcher error")
		}
	}
}
