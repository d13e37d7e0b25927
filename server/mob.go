package main

import "math"

// MobContext is what an AI ship can see when it steers
type MobContext struct {
	Player    *Ship
	Others    []*Ship // every AI ship, self included
	Asteroids []*Asteroid
}

// SteerMob sets the acceleration and angular acceleration of an AI ship
// for this tick according to its kind.
func SteerMob(m *Ship, ctx MobContext) {
	if !m.Alive() || ctx.Player == nil {
		return
	}
	switch m.Kind {
	case KindTurret:
		m.Acceleration = Vector2{}
		m.AngularAcceleration = LookAt(&m.Body, ctx.Player.Position)
	case KindSeeker:
		seek := Seek(&m.Body, ctx.Player.Position)

		var avoid Vector2
		avoid.AddInPlace(Separate(&m.Body, []*Ship{ctx.Player}, SeparateThresholdShip, 1))
		avoid.AddInPlace(Separate(&m.Body, ctx.Others, SeparateThresholdShip, 1))
		avoid.AddInPlace(Separate(&m.Body, ctx.Asteroids, SeparateThresholdAsteroid, 1))

		if avoid.IsZero() {
			m.Acceleration = seek
		} else {
			m.Acceleration = seek.Scale(SeekWeight).Add(avoid.Scale(SeparateWeight))
		}
		m.AngularAcceleration = AlignWithMovement(&m.Body)
	}
}

// WantsToFire reports whether an AI ship should fire at the player this
// tick. Turrets also need to be pointing within cone degrees of the player.
func WantsToFire(m *Ship, player *Ship, fireRange, cone float64) bool {
	if !m.Alive() || !m.Ready || player == nil || !player.Alive() {
		return false
	}
	if m.Position.Distance(player.Position) > fireRange {
		return false
	}
	if m.Kind == KindTurret {
		off := WrapDegrees(Bearing(m.Position, player.Position) - m.Orientation)
		return math.Abs(off) <= cone
	}
	return true
}
