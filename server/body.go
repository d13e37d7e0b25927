package main

import "math"

// BoundingBox is an axis-aligned box given by centre and half extents
type BoundingBox struct {
	X, Y                  float64
	HalfWidth, HalfHeight float64
}

func (b BoundingBox) Left() float64   { return b.X - b.HalfWidth }
func (b BoundingBox) Right() float64  { return b.X + b.HalfWidth }
func (b BoundingBox) Bottom() float64 { return b.Y - b.HalfHeight }
func (b BoundingBox) Top() float64    { return b.Y + b.HalfHeight }

// Contains reports whether the point lies inside the box (edges included)
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.Left() && x <= b.Right() && y >= b.Bottom() && y <= b.Top()
}

// Body is the kinematic state shared by every moving entity.
// Orientation is in degrees and is not wrapped here.
type Body struct {
	Position            Vector2 `msgpack:"pos"`
	Orientation         float64 `msgpack:"rot"`
	Velocity            Vector2 `msgpack:"vel"`
	AngularVelocity     float64 `msgpack:"avel"`
	Acceleration        Vector2 `msgpack:"acc"`
	AngularAcceleration float64 `msgpack:"aacc"`

	MaxVelocity            float64 `msgpack:"maxv"`
	MaxAngularVelocity     float64 `msgpack:"maxav"`
	MaxAcceleration        float64 `msgpack:"maxa"`
	MaxAngularAcceleration float64 `msgpack:"maxaa"`

	Health     int     `msgpack:"hp"`
	HalfWidth  float64 `msgpack:"hw"`
	HalfHeight float64 `msgpack:"hh"`
}

// Bound returns the body's current bounding box
func (b *Body) Bound() BoundingBox {
	return BoundingBox{
		X:          b.Position.X,
		Y:          b.Position.Y,
		HalfWidth:  b.HalfWidth,
		HalfHeight: b.HalfHeight,
	}
}

// Integrate advances the body by dt seconds. Linear and angular
// acceleration and velocity are clamped to their caps on every call.
func (b *Body) Integrate(dt float64) {
	b.Acceleration = b.Acceleration.ClampLength(b.MaxAcceleration)
	b.Velocity.AddInPlace(b.Acceleration.Scale(dt))
	b.Velocity = b.Velocity.ClampLength(b.MaxVelocity)
	b.Position.AddInPlace(b.Velocity.Scale(dt))

	b.AngularAcceleration = clampAbs(b.AngularAcceleration, b.MaxAngularAcceleration)
	b.AngularVelocity += b.AngularAcceleration * dt
	b.AngularVelocity = clampAbs(b.AngularVelocity, b.MaxAngularVelocity)
	b.Orientation += b.AngularVelocity * dt
}

// Arena is the fixed world extent, anchored at the origin
type Arena struct {
	Width  float64 `msgpack:"w" yaml:"width"`
	Height float64 `msgpack:"h" yaml:"height"`
}

// Contains reports whether the box lies fully inside the arena
func (a Arena) Contains(b BoundingBox) bool {
	return b.Left() >= 0 && b.Right() <= a.Width && b.Bottom() >= 0 && b.Top() <= a.Height
}

// Overlaps reports whether any part of the box is inside the arena
func (a Arena) Overlaps(b BoundingBox) bool {
	return b.Right() > 0 && b.Left() < a.Width && b.Top() > 0 && b.Bottom() < a.Height
}

// ClampToArena pushes the body back inside the arena
func (b *Body) ClampToArena(a Arena) {
	bound := b.Bound()
	if bound.Left() < 0 {
		b.Position.X = b.HalfWidth
	} else if bound.Right() > a.Width {
		b.Position.X = farEdge(a.Width, b.HalfWidth)
	}
	if bound.Bottom() < 0 {
		b.Position.Y = b.HalfHeight
	} else if bound.Top() > a.Height {
		b.Position.Y = farEdge(a.Height, b.HalfHeight)
	}
}

// farEdge is the largest centre c with c+half <= limit. limit-half alone
// can round so that adding half back lands past limit.
func farEdge(limit, half float64) float64 {
	c := limit - half
	for c+half > limit {
		c = math.Nextafter(c, math.Inf(-1))
	}
	return c
}

// Alive reports whether the body still has health
func (b *Body) Alive() bool {
	return b.Health > 0
}

func clampAbs(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Clamp(v, -max, max)
}
