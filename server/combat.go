package main

import "slices"

// ApplyContact damages a ship that touched a hostile body, then pushes the
// two apart. The other side only loses health when it is a ship as well.
// Returns whether each side was brought to zero health by this contact.
func ApplyContact(ship *Ship, other Kinematic, dmg int) (shipDied, otherDied bool) {
	if ship == nil || other == nil {
		return false, false
	}
	shipDied = ship.TakeDamage(dmg)
	if o, ok := other.(*Ship); ok {
		otherDied = o.TakeDamage(dmg)
	}
	Resolve(&ship.Body, other.Kinematics())
	return shipDied, otherDied
}

// ApplyLaserHit damages victim with a laser. Returns true if the hit
// brought it to zero health.
func ApplyLaserHit(victim *Ship, l *Laser) bool {
	if victim == nil || l == nil {
		return false
	}
	return victim.TakeDamage(l.Damage)
}

// hitLasers removes every laser in lasers that overlaps target, calling hit
// for each one, and returns the shortened slice. It stops early once hit
// returns true.
func hitLasers(lasers []*Laser, target BoundingBox, hit func(*Laser) bool) ([]*Laser, bool) {
	for i := 0; i < len(lasers); {
		l := lasers[i]
		if !IsCollision(target, l.Bound()) {
			i++
			continue
		}
		lasers = slices.Delete(lasers, i, i+1)
		if hit(l) {
			return lasers, true
		}
	}
	return lasers, false
}
