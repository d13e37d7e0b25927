package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyDef(t *testing.T) {
	assert.Equal(t, 5, DifficultyEasy.Def().PlayerLives)
	assert.Equal(t, 1, DifficultyInsane.Def().PlayerLives)
	assert.Equal(t, "hard", DifficultyHard.String())

	assert.False(t, Difficulty(0).Valid())
	assert.False(t, Difficulty(9).Valid())
	assert.Equal(t, DifficultyNormal.Def(), Difficulty(9).Def(), "unknown falls back to normal")
}

func TestProfileScaled(t *testing.T) {
	base := DefaultShipProfile(KindSeeker)

	easy := base.Scaled(DifficultyEasy)
	assert.InDelta(t, base.MaxVelocity*0.5, easy.MaxVelocity, eps)
	assert.InDelta(t, base.MaxAngularAcceleration*0.5, easy.MaxAngularAcceleration, eps)
	assert.Equal(t, 3, easy.LaserDamage, "5 * 0.5 rounds to 3")
	assert.Equal(t, base.Health, easy.Health, "health is not scaled")

	insane := base.Scaled(DifficultyInsane)
	assert.Equal(t, 10, insane.LaserDamage)
	assert.InDelta(t, base.MaxAcceleration*2, insane.MaxAcceleration, eps)

	weak := ShipProfile{LaserDamage: 1}
	assert.Equal(t, 1, weak.Scaled(DifficultyEasy).LaserDamage, "damage never drops below 1")
}
