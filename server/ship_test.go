package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLaserSpec = LaserSpec{MuzzleSpeed: 150, MaxLasers: 100, Size: SpriteSize{HalfWidth: 4.5, HalfHeight: 1.5}}

func newTestShip(kind ShipKind, pos Vector2) *Ship {
	return NewShip(kind, pos, DefaultShipProfile(kind), defaultSpriteSize)
}

func TestNewShip(t *testing.T) {
	s := newTestShip(KindSeeker, Vec(10, 20))
	p := DefaultShipProfile(KindSeeker)

	assert.Equal(t, Vec(10, 20), s.Position)
	assert.Equal(t, p.Health, s.Health)
	assert.Equal(t, p.Health, s.MaxHealth)
	assert.Equal(t, p.MaxVelocity, s.MaxVelocity)
	assert.Equal(t, "Spaceship1", s.Sprite)
	assert.Equal(t, 25.0, s.HalfWidth)
	assert.True(t, s.Ready)
	assert.Len(t, s.ID, 8)
}

func TestReloadTiming(t *testing.T) {
	for _, frames := range []int{1, 5, 60} {
		s := newTestShip(KindPlayer, Vec(100, 100))
		s.ReloadFrames = frames

		require.NotNil(t, s.Fire(testLaserSpec), "first shot")
		// ticks T+1 .. T+frames-1
		for k := 1; k < frames; k++ {
			s.AdvanceReload()
			assert.False(t, s.CanFire(0), "reload %d: fired again %d ticks later", frames, k)
			assert.Nil(t, s.Fire(testLaserSpec))
		}
		// tick T+frames
		s.AdvanceReload()
		assert.True(t, s.CanFire(0), "reload %d: not ready after %d ticks", frames, frames)
		assert.NotNil(t, s.Fire(testLaserSpec))
	}
}

func TestFireRespectsLaserCap(t *testing.T) {
	s := newTestShip(KindPlayer, Vec(100, 100))
	s.ReloadFrames = 0
	spec := testLaserSpec
	spec.MaxLasers = 2
	for i := 0; i < 2; i++ {
		require.NotNil(t, s.Fire(spec))
		s.AdvanceReload()
	}
	assert.Nil(t, s.Fire(spec), "third laser exceeds the cap")
	assert.Len(t, s.Lasers, 2)
}

func TestDeadShipCannotFire(t *testing.T) {
	s := newTestShip(KindSeeker, Vec(0, 0))
	s.Health = 0
	assert.Nil(t, s.Fire(testLaserSpec))
}

func TestShipTakeDamage(t *testing.T) {
	s := newTestShip(KindSeeker, Vec(0, 0))
	s.Health = 15

	assert.False(t, s.TakeDamage(10))
	assert.Equal(t, 5, s.Health)

	assert.True(t, s.TakeDamage(10), "hit to zero")
	assert.Equal(t, 0, s.Health, "health never goes negative")

	assert.False(t, s.TakeDamage(10), "damaging a dead ship reports nothing")
	assert.Equal(t, 0, s.Health)
}

func TestLoseLife(t *testing.T) {
	s := newTestShip(KindPlayer, Vec(0, 0))
	s.LivesLeft = 2
	s.Health = 0

	assert.False(t, s.LoseLife())
	assert.Equal(t, 1, s.LivesLeft)
	assert.Equal(t, 1, s.LivesLost)
	assert.Equal(t, s.MaxHealth, s.Health)

	s.Health = 0
	assert.True(t, s.LoseLife())
	assert.Equal(t, 0, s.LivesLeft)
	assert.Equal(t, 2, s.LivesLost)
	assert.Equal(t, s.MaxHealth, s.Health)
}

func TestUpdateLasersDropsOffArena(t *testing.T) {
	arena := Arena{Width: 1000, Height: 1000}
	s := newTestShip(KindPlayer, Vec(990, 500))
	l := s.Fire(testLaserSpec)
	require.NotNil(t, l)

	for i := 0; i < 60 && len(s.Lasers) > 0; i++ {
		s.UpdateLasers(1.0/60, arena, 0)
	}
	assert.Empty(t, s.Lasers, "laser should leave the arena and be dropped")
}

func TestUpdateLasersMaxAge(t *testing.T) {
	arena := Arena{Width: 1000, Height: 1000}
	s := newTestShip(KindPlayer, Vec(500, 500))
	s.Fire(testLaserSpec)

	s.UpdateLasers(0, arena, 3)
	s.UpdateLasers(0, arena, 3)
	assert.Len(t, s.Lasers, 1)
	s.UpdateLasers(0, arena, 3)
	assert.Empty(t, s.Lasers)
}

func TestShipToState(t *testing.T) {
	s := newTestShip(KindTurret, Vec(12.345, 67.891))
	s.Orientation = 370
	st := s.ToState()
	assert.Equal(t, "turret", st.Kind)
	assert.Equal(t, 12.3, st.X)
	assert.Equal(t, 67.9, st.Y)
	assert.Equal(t, 10.0, st.R)
	assert.Equal(t, s.MaxHealth, st.MaxHP)
}
