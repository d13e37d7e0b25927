package main

import "math/rand"

const AsteroidSprite = "Asteroid"

// Asteroid is an obstacle that only spins. Its velocity and acceleration
// caps are zero, so collision pushes move it but never set it drifting.
type Asteroid struct {
	Body
	ID string `msgpack:"id"`
}

// NewAsteroid places an asteroid at pos with a fixed spin drawn from
// [-maxSpin, maxSpin) degrees per second.
func NewAsteroid(pos Vector2, maxSpin float64, size SpriteSize, rng *rand.Rand) *Asteroid {
	spin := 0.0
	if maxSpin > 0 {
		spin = rng.Float64()*2*maxSpin - maxSpin
	}
	return &Asteroid{
		Body: Body{
			Position:               pos,
			Orientation:            rng.Float64() * 360,
			AngularVelocity:        spin,
			MaxAngularVelocity:     maxSpin,
			MaxAngularAcceleration: 0,
			HalfWidth:              size.HalfWidth,
			HalfHeight:             size.HalfHeight,
		},
		ID: GenerateID(4),
	}
}

// Update spins the asteroid one tick
func (a *Asteroid) Update(dt float64) {
	a.Integrate(dt)
}
