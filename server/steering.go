package main

import "math"

const (
	// Separation thresholds used by Seeker ships
	SeparateThresholdShip     = 75.0
	SeparateThresholdAsteroid = 125.0

	// Blend weights applied when a Seeker is avoiding something
	SeekWeight     = 0.3
	SeparateWeight = 0.7

	steerTimeToTarget = 0.1  // seconds over which a heading error is closed
	alignMinSpeedSq   = 1e-6 // below this speed there is no heading to align with
)

// Kinematic is implemented by anything carrying a Body
type Kinematic interface {
	Kinematics() *Body
}

// Kinematics returns the body itself; embedded bodies promote it.
func (b *Body) Kinematics() *Body {
	return b
}

// Seek returns an acceleration of magnitude MaxAcceleration pointing at target
func Seek(self *Body, target Vector2) Vector2 {
	return target.Sub(self.Position).Normalize().Scale(self.MaxAcceleration)
}

// Separate returns an acceleration steering self away from every other body
// closer than threshold. Each contribution grows as threshold/distance.
func Separate[T Kinematic](self *Body, others []T, threshold, strength float64) Vector2 {
	var acc Vector2
	for _, o := range others {
		ob := o.Kinematics()
		if ob == self {
			continue
		}
		away := self.Position.Sub(ob.Position)
		dist := away.Length()
		if dist >= threshold || dist == 0 {
			continue
		}
		acc.AddInPlace(away.Scale(1 / dist).Scale(strength * self.MaxAcceleration * threshold / dist))
	}
	return acc
}

// AlignWithMovement returns the angular acceleration that turns self
// toward its direction of travel.
func AlignWithMovement(self *Body) float64 {
	if self.Velocity.LengthSq() < alignMinSpeedSq {
		return 0
	}
	return turnToward(self, math.Atan2(self.Velocity.Y, self.Velocity.X)*180/math.Pi)
}

// LookAt returns the angular acceleration that turns self toward target
func LookAt(self *Body, target Vector2) float64 {
	if target.Sub(self.Position).IsZero() {
		return 0
	}
	return turnToward(self, Bearing(self.Position, target))
}

func turnToward(self *Body, desired float64) float64 {
	diff := WrapDegrees(desired - self.Orientation)
	wantVel := clampAbs(diff/steerTimeToTarget, self.MaxAngularVelocity)
	return clampAbs((wantVel-self.AngularVelocity)/steerTimeToTarget, self.MaxAngularAcceleration)
}
