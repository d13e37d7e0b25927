package main

import "testing"

func TestApplyContactWithAsteroid(t *testing.T) {
	ship := newTestShip(KindPlayer, Vec(100, 100))
	ship.Health = 5
	rock := &Asteroid{Body: Body{Position: Vec(130, 100), HalfWidth: 25, HalfHeight: 25}}

	shipDied, rockDied := ApplyContact(ship, rock, 1)

	if shipDied || rockDied {
		t.Error("nothing should die")
	}
	if ship.Health != 4 {
		t.Errorf("expected health 4, got %d", ship.Health)
	}
	if IsCollision(ship.Bound(), rock.Bound()) {
		t.Error("contact should push the two apart")
	}
}

func TestApplyContactBetweenShips(t *testing.T) {
	player := newTestShip(KindPlayer, Vec(100, 100))
	mob := newTestShip(KindSeeker, Vec(110, 100))
	player.Health = 10
	mob.Health = 1

	playerDied, mobDied := ApplyContact(player, mob, 1)

	if playerDied {
		t.Error("player should survive")
	}
	if !mobDied {
		t.Error("mob with 1 health should die on contact")
	}
	if player.Health != 9 || mob.Health != 0 {
		t.Errorf("unexpected health player=%d mob=%d", player.Health, mob.Health)
	}
}

func TestApplyLaserHit(t *testing.T) {
	victim := newTestShip(KindSeeker, Vec(0, 0))
	victim.Health = 15
	l := &Laser{Damage: 10}

	if ApplyLaserHit(victim, l) {
		t.Error("first hit should not kill")
	}
	if !ApplyLaserHit(victim, l) {
		t.Error("second hit should kill")
	}
	if victim.Health != 0 {
		t.Errorf("expected 0 health, got %d", victim.Health)
	}
}

func TestHitLasersRemovesOnlyHits(t *testing.T) {
	target := box(100, 100, 25, 25)
	lasers := []*Laser{
		{Body: Body{Position: Vec(0, 0), HalfWidth: 4.5, HalfHeight: 1.5}, ID: "miss"},
		{Body: Body{Position: Vec(100, 100), HalfWidth: 4.5, HalfHeight: 1.5}, ID: "hit1"},
		{Body: Body{Position: Vec(110, 90), HalfWidth: 4.5, HalfHeight: 1.5}, ID: "hit2"},
	}
	var hits []string
	rest, stopped := hitLasers(lasers, target, func(l *Laser) bool {
		hits = append(hits, l.ID)
		return false
	})
	if stopped {
		t.Error("should not stop when hit returns false")
	}
	if len(rest) != 1 || rest[0].ID != "miss" {
		t.Errorf("expected only the miss to remain, got %d lasers", len(rest))
	}
	if len(hits) != 2 {
		t.Errorf("expected 2 hits, got %v", hits)
	}
}

func TestHitLasersStopsOnKill(t *testing.T) {
	target := box(100, 100, 25, 25)
	lasers := []*Laser{
		{Body: Body{Position: Vec(100, 100), HalfWidth: 4.5, HalfHeight: 1.5}},
		{Body: Body{Position: Vec(105, 100), HalfWidth: 4.5, HalfHeight: 1.5}},
	}
	rest, stopped := hitLasers(lasers, target, func(*Laser) bool { return true })
	if !stopped {
		t.Error("expected to stop on the killing hit")
	}
	if len(rest) != 1 {
		t.Errorf("second laser should survive, %d left", len(rest))
	}
}
