package main

const (
	LaserHalfWidth  = 4.5
	LaserHalfHeight = 1.5
	LaserSprite     = "Laser"
)

// LaserSpec holds the level-wide laser settings a ship fires with
type LaserSpec struct {
	MuzzleSpeed  float64
	MaxLasers    int
	MaxAgeFrames int
	Size         SpriteSize
}

// Laser is a straight-line projectile owned by the ship that fired it
type Laser struct {
	Body
	ID        string `msgpack:"id"`
	OwnerID   string `msgpack:"owner"`
	Damage    int    `msgpack:"dmg"`
	AgeFrames int    `msgpack:"age"`
}

// NewLaser spawns a laser at the owner's nose. It inherits twice the
// owner's velocity plus the muzzle speed along the owner's heading, and
// never accelerates.
func NewLaser(owner *Ship, spec LaserSpec) *Laser {
	hw, hh := spec.Size.HalfWidth, spec.Size.HalfHeight
	if hw <= 0 || hh <= 0 {
		hw, hh = LaserHalfWidth, LaserHalfHeight
	}
	dir := Heading(owner.Orientation)
	vel := owner.Velocity.Scale(2).Add(dir.Scale(spec.MuzzleSpeed))
	return &Laser{
		Body: Body{
			Position:    owner.Position.Add(dir.Scale(owner.HalfWidth)),
			Orientation: owner.Orientation,
			Velocity:    vel,
			MaxVelocity: vel.Length(),
			Health:      1,
			HalfWidth:   hw,
			HalfHeight:  hh,
		},
		ID:      GenerateID(3),
		OwnerID: owner.ID,
		Damage:  owner.LaserDamage,
	}
}

// Update moves the laser one tick
func (l *Laser) Update(dt float64) {
	l.Integrate(dt)
	l.AgeFrames++
}
