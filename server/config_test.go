package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 30, cfg.BroadcastRate)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 100, cfg.MaxSessions)
	assert.Equal(t, time.Second/60, cfg.TickDuration())
	assert.Equal(t, uint64(2), cfg.BroadcastEvery())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spacewars.yaml", `
addr: ":9000"
tickRate: 120
broadcastRate: 20
tokenTTL: 2h
tuningFile: levels/hard.yaml
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, uint64(6), cfg.BroadcastEvery())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "levels/hard.yaml", cfg.TuningFile)
	assert.Equal(t, "info", cfg.LogLevel, "unset keys keep defaults")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spacewars.yaml", "addr: \":9000\"\n")
	t.Setenv("SPACEWARS_ADDR", ":7000")
	t.Setenv("SPACEWARS_MAXSESSIONS", "3")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxSessions)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spacewars.yaml", "tickRate: 30\nbroadcastRate: 60\n")
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "broadcastRate")

	bad := t.TempDir()
	writeFile(t, bad, "spacewars.yaml", "addr: [\n")
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	ok := Config{TickRate: 60, BroadcastRate: 60, MaxSessions: 1}
	assert.NoError(t, ok.Validate())

	noTick := ok
	noTick.TickRate = 0
	assert.Error(t, noTick.Validate())

	noSessions := ok
	noSessions.MaxSessions = 0
	assert.Error(t, noSessions.Validate())
}
