package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultTuningIsValid(t *testing.T) {
	tu := DefaultTuning()
	assert.NoError(t, tu.Validate())
	assert.Equal(t, DefaultShipProfile(KindTurret), tu.Profile(KindTurret))
	assert.Equal(t, DefaultShipProfile(KindPlayer), tu.Profile(KindPlayer))
}

func TestLoadTuningOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "level.yaml", `
arena:
  width: 2000
  height: 1500
seekers: 8
seeker:
  max_velocity: 80
  health: 50
fire_range: 300
`)
	tu, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, tu.Arena.Width)
	assert.Equal(t, 1500.0, tu.Arena.Height)
	assert.Equal(t, 8, tu.Seekers)
	assert.Equal(t, 80.0, tu.Seeker.MaxVelocity)
	assert.Equal(t, 50, tu.Seeker.Health)
	assert.Equal(t, 300.0, tu.FireRange)
	// untouched keys keep their defaults
	assert.Equal(t, 20, tu.Asteroids)
	assert.Equal(t, DefaultShipProfile(KindTurret), tu.Turret)
}

func TestLoadTuningRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTuning(writeFile(t, dir, "bad.yaml", "arena:\n  width: -1\n"))
	assert.ErrorContains(t, err, "positive size")

	_, err = LoadTuning(writeFile(t, dir, "neg.yaml", "turrets: -2\n"))
	assert.Error(t, err)

	_, err = LoadTuning(writeFile(t, dir, "junk.yaml", "arena: [1, 2\n"))
	assert.Error(t, err)

	_, err = LoadTuning(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSpriteSizeFallback(t *testing.T) {
	tu := DefaultTuning()
	assert.Equal(t, 4.5, tu.SpriteSize(LaserSprite).HalfWidth)
	assert.Equal(t, defaultSpriteSize, tu.SpriteSize("NoSuchSprite"))
}

func TestTuningStore(t *testing.T) {
	s, err := NewTuningStore("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning().Seekers, s.Current().Seekers)

	dir := t.TempDir()
	path := writeFile(t, dir, "level.yaml", "seekers: 2\n")
	s, err = NewTuningStore(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Current().Seekers)

	writeFile(t, dir, "level.yaml", "seekers: 7\n")
	s.reload()
	assert.Equal(t, 7, s.Current().Seekers)

	// a broken edit keeps the last good tuning
	writeFile(t, dir, "level.yaml", "arena:\n  width: 0\n")
	s.reload()
	assert.Equal(t, 7, s.Current().Seekers)

	_, err = NewTuningStore(filepath.Join(dir, "missing.yaml"), zerolog.Nop())
	assert.Error(t, err)
}
