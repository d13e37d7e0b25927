package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestBuildFrameProjectsVisibleSprites(t *testing.T) {
	l := emptyLevel(t, nil)
	near := addSeeker(l, Vec(150, 120))
	far := addSeeker(l, Vec(900, 900))
	l.Layer.Follow(l.Player.Position, l.Arena)
	l.fire(l.Player)

	f := BuildFrame(l)

	assert.Equal(t, 2, f.AI)
	assert.Equal(t, "playing", f.Outcome)
	assert.Equal(t, l.Player.ID, f.Player.ID)

	ids := make(map[string]SpriteFrame)
	for _, s := range f.Sprites {
		ids[s.ID] = s
	}
	assert.Contains(t, ids, near.ID)
	assert.NotContains(t, ids, far.ID, "off-camera ships are culled")
	require.Contains(t, ids, l.Player.ID)
	assert.Equal(t, l.Player.ID, f.Sprites[len(f.Sprites)-1].ID, "player is drawn last")
	assert.Equal(t, "Spaceship2", ids[l.Player.ID].Sprite)
	assert.Contains(t, ids, l.Player.Lasers[0].ID)
}

func TestEncodeFrame(t *testing.T) {
	l := emptyLevel(t, nil)
	addSeeker(l, Vec(150, 120))
	l.Tick = 12

	data, err := EncodeFrame(BuildFrame(l))
	require.NoError(t, err)

	var got Frame
	require.NoError(t, msgpack.Unmarshal(data, &got))
	assert.Equal(t, uint64(12), got.Tick)
	assert.Equal(t, 1, got.AI)
	assert.Equal(t, l.Player.MaxHealth, got.Player.MaxHP)
	assert.NotEmpty(t, got.Sprites)
}
