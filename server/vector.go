package main

import "math"

// Vector2 is a 2D vector in world units
type Vector2 struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

// Vec returns a Vector2
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Dot returns the dot product
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// LengthSq returns the squared length
func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns |v - o|
func (v Vector2) Distance(o Vector2) float64 {
	return Distance(v.X, v.Y, o.X, o.Y)
}

// IsZero reports whether both components are exactly zero
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

// ClampLength returns v rescaled to max if it is longer than max.
// Vectors already within the cap are returned unchanged.
func (v Vector2) ClampLength(max float64) Vector2 {
	if max <= 0 {
		return Vector2{}
	}
	if v.LengthSq() > max*max {
		return v.Normalize().Scale(max)
	}
	return v
}

// Set overwrites v in place
func (v *Vector2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

// AddInPlace adds o to v
func (v *Vector2) AddInPlace(o Vector2) {
	v.X += o.X
	v.Y += o.Y
}

// ScaleInPlace multiplies v by s
func (v *Vector2) ScaleInPlace(s float64) {
	v.X *= s
	v.Y *= s
}

// Heading returns the unit vector for an orientation in degrees
// (0 = +X, counter-clockwise positive, world Y up).
func Heading(deg float64) Vector2 {
	r := deg * math.Pi / 180
	return Vector2{math.Cos(r), math.Sin(r)}
}

// Bearing returns the orientation in degrees of the vector from -> to
func Bearing(from, to Vector2) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
}
