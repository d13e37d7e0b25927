package main

import "slices"

// Ship is a player or AI ship. It owns the lasers it has fired.
type Ship struct {
	Body
	ID     string   `msgpack:"id"`
	Kind   ShipKind `msgpack:"kind"`
	Sprite string   `msgpack:"sprite"`
	Lasers []*Laser `msgpack:"lasers"`

	MaxHealth   int `msgpack:"maxhp"`
	LaserDamage int `msgpack:"dmg"`

	// Reload state: Ready until a shot is fired, then ReloadCounter counts
	// ticks until it reaches ReloadFrames.
	ReloadFrames  int  `msgpack:"reload"`
	ReloadCounter int  `msgpack:"reloadc"`
	Ready         bool `msgpack:"ready"`

	// Player only
	LivesLeft int `msgpack:"lives"`
	LivesLost int `msgpack:"lost"`
}

// NewShip creates a ship of the given kind at pos from a profile
func NewShip(kind ShipKind, pos Vector2, p ShipProfile, size SpriteSize) *Ship {
	return &Ship{
		Body: Body{
			Position:               pos,
			MaxAcceleration:        p.MaxAcceleration,
			MaxVelocity:            p.MaxVelocity,
			MaxAngularVelocity:     p.MaxAngularVelocity,
			MaxAngularAcceleration: p.MaxAngularAcceleration,
			Health:                 p.Health,
			HalfWidth:              size.HalfWidth,
			HalfHeight:             size.HalfHeight,
		},
		ID:           GenerateID(4),
		Kind:         kind,
		Sprite:       p.Sprite,
		MaxHealth:    p.Health,
		LaserDamage:  p.LaserDamage,
		ReloadFrames: p.ReloadFrames,
		Ready:        true,
	}
}

// AdvanceReload counts one tick of reloading
func (s *Ship) AdvanceReload() {
	if s.Ready {
		return
	}
	s.ReloadCounter++
	if s.ReloadCounter >= s.ReloadFrames {
		s.Ready = true
	}
}

// CanFire reports whether Fire would produce a laser
func (s *Ship) CanFire(maxLasers int) bool {
	if !s.Alive() || !s.Ready {
		return false
	}
	return maxLasers <= 0 || len(s.Lasers) < maxLasers
}

// Fire spawns a laser from the ship's nose and starts reloading.
// Returns nil when the ship is dead, reloading or at its laser cap.
func (s *Ship) Fire(spec LaserSpec) *Laser {
	if !s.CanFire(spec.MaxLasers) {
		return nil
	}
	l := NewLaser(s, spec)
	s.Lasers = append(s.Lasers, l)
	s.Ready = false
	s.ReloadCounter = 0
	return l
}

// TakeDamage reduces health, never below zero. Returns true if this hit
// brought the ship to zero. Damaging a dead ship does nothing.
func (s *Ship) TakeDamage(dmg int) bool {
	if !s.Alive() || dmg <= 0 {
		return false
	}
	s.Health -= dmg
	if s.Health <= 0 {
		s.Health = 0
		return true
	}
	return false
}

// LoseLife spends one life and restores full health.
// Returns true when no lives remain.
func (s *Ship) LoseLife() bool {
	s.LivesLeft--
	s.LivesLost++
	s.Health = s.MaxHealth
	if s.LivesLeft <= 0 {
		s.LivesLeft = 0
		return true
	}
	return false
}

// UpdateLasers moves every laser and drops those that left the arena or
// outlived maxAge frames.
func (s *Ship) UpdateLasers(dt float64, arena Arena, maxAge int) {
	for i := 0; i < len(s.Lasers); {
		l := s.Lasers[i]
		l.Update(dt)
		if !arena.Overlaps(l.Bound()) || (maxAge > 0 && l.AgeFrames >= maxAge) {
			s.Lasers = slices.Delete(s.Lasers, i, i+1)
			continue
		}
		i++
	}
}

// ToState converts to protocol state
func (s *Ship) ToState() ShipState {
	return ShipState{
		ID:    s.ID,
		Kind:  s.Kind.String(),
		X:     round1(s.Position.X),
		Y:     round1(s.Position.Y),
		R:     round1(WrapDegrees(s.Orientation)),
		HP:    s.Health,
		MaxHP: s.MaxHealth,
		Lives: s.LivesLeft,
		Ready: s.Ready,
	}
}
