package main

// CollisionSide says where the first body sits relative to the second
type CollisionSide int

const (
	CollisionNone CollisionSide = iota
	CollisionTop
	CollisionBottom
	CollisionLeft
	CollisionRight
)

// separationSlop keeps resolved boxes from re-touching through rounding
const separationSlop = 1e-6

// IsCollision checks whether two boxes strictly overlap on both axes
func IsCollision(a, b BoundingBox) bool {
	return a.Left() < b.Right() && a.Right() > b.Left() &&
		a.Bottom() < b.Top() && a.Top() > b.Bottom()
}

// penetration finds the axis of minimum overlap, seen from a.
func penetration(a, b BoundingBox) (CollisionSide, float64) {
	side := CollisionNone
	depth := 0.0
	consider := func(s CollisionSide, d float64) {
		if d > 0 && (side == CollisionNone || d < depth) {
			side, depth = s, d
		}
	}
	// a on top of b, below, to the right, to the left
	consider(CollisionTop, b.Top()-a.Bottom())
	consider(CollisionBottom, a.Top()-b.Bottom())
	consider(CollisionRight, b.Right()-a.Left())
	consider(CollisionLeft, a.Right()-b.Left())
	return side, depth
}

// Resolve separates two overlapping bodies along the axis of minimum
// penetration. Both bodies move by half the depth and any closing velocity
// along that axis is cancelled with an equal-mass, zero-restitution impulse.
// Returns CollisionNone when the bodies do not overlap.
func Resolve(a, b *Body) CollisionSide {
	if a == nil || b == nil || a == b {
		return CollisionNone
	}
	if !IsCollision(a.Bound(), b.Bound()) {
		return CollisionNone
	}
	side, depth := penetration(a.Bound(), b.Bound())

	// normal points from b toward a
	var n Vector2
	switch side {
	case CollisionTop:
		n = Vector2{0, 1}
	case CollisionBottom:
		n = Vector2{0, -1}
	case CollisionRight:
		n = Vector2{1, 0}
	case CollisionLeft:
		n = Vector2{-1, 0}
	default:
		return CollisionNone
	}

	half := depth/2 + separationSlop
	a.Position.AddInPlace(n.Scale(half))
	b.Position.AddInPlace(n.Scale(-half))

	closing := a.Velocity.Sub(b.Velocity).Dot(n)
	if closing < 0 {
		j := -closing / 2
		a.Velocity.AddInPlace(n.Scale(j))
		b.Velocity.AddInPlace(n.Scale(-j))
	}
	return side
}
