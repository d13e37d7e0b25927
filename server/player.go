package main

const (
	// Damping applied to the player every tick before integration
	PlayerAngularAccDamping = 0.95
	PlayerAngularVelDamping = 0.75
	PlayerAccDamping        = 0.75
	PlayerVelDamping        = 0.95
)

// TouchSample is the continuous state of the primary touch, in screen pixels
type TouchSample struct {
	Active bool    `json:"active"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// TouchAcceleration maps a touch to an acceleration: the offset from the
// screen centre, normalised to [-1, 1] per axis with y flipped, times maxAcc.
func TouchAcceleration(touch TouchSample, screen ScreenViewport, maxAcc float64) Vector2 {
	if screen.Width <= 0 || screen.Height <= 0 {
		return Vector2{}
	}
	hw := float64(screen.Width) / 2
	hh := float64(screen.Height) / 2
	cx := float64(screen.Left) + hw
	cy := float64(screen.Top) + hh
	return Vector2{
		X: (touch.X - cx) / hw * maxAcc,
		Y: (cy - touch.Y) / hh * maxAcc,
	}
}

// UpdatePlayer runs the player's motion controller and integrates it.
// Without an active touch the previous acceleration keeps decaying.
func UpdatePlayer(p *Ship, touch TouchSample, screen ScreenViewport, dt float64) {
	if !p.Alive() {
		return
	}
	if touch.Active {
		p.Acceleration = TouchAcceleration(touch, screen, p.MaxAcceleration)
	}
	p.AngularAcceleration = AlignWithMovement(&p.Body)

	p.AngularAcceleration *= PlayerAngularAccDamping
	p.AngularVelocity *= PlayerAngularVelDamping
	p.Acceleration.ScaleInPlace(PlayerAccDamping)
	p.Velocity.ScaleInPlace(PlayerVelDamping)

	p.Integrate(dt)
}
