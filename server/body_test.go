package main

import (
	"math"
	"math/rand"
	"testing"
)

func TestIntegrateClampsEveryTick(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		b := Body{
			Velocity:               Vec(rng.Float64()*400-200, rng.Float64()*400-200),
			Acceleration:           Vec(rng.Float64()*2000-1000, rng.Float64()*2000-1000),
			AngularVelocity:        rng.Float64()*1000 - 500,
			AngularAcceleration:    rng.Float64()*1000 - 500,
			MaxVelocity:            rng.Float64() * 100,
			MaxAcceleration:        rng.Float64() * 300,
			MaxAngularVelocity:     rng.Float64() * 180,
			MaxAngularAcceleration: rng.Float64() * 360,
		}
		for tick := 0; tick < 5; tick++ {
			b.Integrate(1.0 / 60)
			if b.Velocity.Length() > b.MaxVelocity+eps {
				t.Fatalf("case %d: |v| = %f > %f", i, b.Velocity.Length(), b.MaxVelocity)
			}
			if b.Acceleration.Length() > b.MaxAcceleration+eps {
				t.Fatalf("case %d: |a| = %f > %f", i, b.Acceleration.Length(), b.MaxAcceleration)
			}
			if b.AngularVelocity > b.MaxAngularVelocity+eps || b.AngularVelocity < -b.MaxAngularVelocity-eps {
				t.Fatalf("case %d: angular velocity %f over cap %f", i, b.AngularVelocity, b.MaxAngularVelocity)
			}
		}
	}
}

func TestIntegrateMovesByVelocity(t *testing.T) {
	b := Body{Position: Vec(10, 10), Velocity: Vec(60, 0), MaxVelocity: 100}
	b.Integrate(0.5)
	if !near(b.Position.X, 40) || !near(b.Position.Y, 10) {
		t.Errorf("expected (40, 10), got %+v", b.Position)
	}
}

func TestIntegrateZeroStepIsNoop(t *testing.T) {
	b := Body{
		Position:               Vec(120.5, -33.25),
		Orientation:            47,
		Velocity:               Vec(30, -40),
		AngularVelocity:        12,
		Acceleration:           Vec(-60, 80),
		AngularAcceleration:    -9,
		MaxVelocity:            100,
		MaxAngularVelocity:     90,
		MaxAcceleration:        200,
		MaxAngularAcceleration: 180,
	}
	before := b
	b.Integrate(0)
	if b != before {
		t.Errorf("Integrate(0) changed the body:\n got %+v\nwant %+v", b, before)
	}
}

func TestIntegrateZeroCapsStopEverything(t *testing.T) {
	b := Body{Position: Vec(5, 5), Velocity: Vec(10, 10), Acceleration: Vec(10, 10)}
	b.Integrate(1)
	if b.Position != Vec(5, 5) {
		t.Errorf("body with zero caps moved to %+v", b.Position)
	}
}

func TestClampToArena(t *testing.T) {
	arena := Arena{Width: 100, Height: 100}
	tests := []struct {
		name string
		pos  Vector2
		want Vector2
	}{
		{"inside", Vec(50, 50), Vec(50, 50)},
		{"left", Vec(-20, 50), Vec(10, 50)},
		{"right", Vec(130, 50), Vec(90, 50)},
		{"bottom", Vec(50, 2), Vec(50, 10)},
		{"top corner", Vec(99, 99), Vec(90, 90)},
	}
	for _, tt := range tests {
		b := Body{Position: tt.pos, HalfWidth: 10, HalfHeight: 10}
		b.ClampToArena(arena)
		if !near(b.Position.X, tt.want.X) || !near(b.Position.Y, tt.want.Y) {
			t.Errorf("%s: got %+v, want %+v", tt.name, b.Position, tt.want)
		}
		if !arena.Contains(b.Bound()) {
			t.Errorf("%s: body still outside arena", tt.name)
		}
	}
}

func TestClampToArenaAlwaysContains(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	arenas := []Arena{{Width: 1000, Height: 1000}, {Width: 3840.7, Height: 2160.3}}
	for i := 0; i < 100000; i++ {
		arena := arenas[i%len(arenas)]
		hw, hh := 25.3, 17.1
		if i%2 == 1 {
			hw, hh = 1+rng.Float64()*60, 1+rng.Float64()*60
		}
		b := Body{
			Position:   Vec(rng.Float64()*(arena.Width+400)-200, rng.Float64()*(arena.Height+400)-200),
			HalfWidth:  hw,
			HalfHeight: hh,
		}
		b.ClampToArena(arena)
		if !arena.Contains(b.Bound()) {
			bb := b.Bound()
			t.Fatalf("case %d: box [%v, %v]x[%v, %v] outside %+v", i, bb.Left(), bb.Right(), bb.Bottom(), bb.Top(), arena)
		}
	}
}

func TestFarEdge(t *testing.T) {
	for _, tt := range []struct{ limit, half float64 }{
		{1000, 25.3}, {1000, 17.1}, {0.3, 0.1}, {2160.3, 33.33}, {100, 10},
	} {
		c := farEdge(tt.limit, tt.half)
		if c+tt.half > tt.limit {
			t.Errorf("farEdge(%v, %v) = %v overshoots", tt.limit, tt.half, c)
		}
		if math.Abs(c-(tt.limit-tt.half)) > 1e-9 {
			t.Errorf("farEdge(%v, %v) = %v, want about %v", tt.limit, tt.half, c, tt.limit-tt.half)
		}
	}
}

func TestArenaOverlaps(t *testing.T) {
	arena := Arena{Width: 100, Height: 100}
	if !arena.Overlaps(BoundingBox{X: -2, Y: 50, HalfWidth: 5, HalfHeight: 5}) {
		t.Error("box straddling the edge should overlap")
	}
	if arena.Overlaps(BoundingBox{X: -10, Y: 50, HalfWidth: 5, HalfHeight: 5}) {
		t.Error("box fully outside should not overlap")
	}
}
