package main

// ShipKind identifies how a ship is controlled
type ShipKind int

const (
	KindPlayer ShipKind = 0
	KindSeeker ShipKind = 1
	KindTurret ShipKind = 2
)

func (k ShipKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindSeeker:
		return "seeker"
	case KindTurret:
		return "turret"
	}
	return "unknown"
}

// ShipProfile holds the movement caps and combat stats for a kind of ship
type ShipProfile struct {
	MaxAcceleration        float64 `yaml:"max_acceleration"`
	MaxVelocity            float64 `yaml:"max_velocity"`
	MaxAngularVelocity     float64 `yaml:"max_angular_velocity"`
	MaxAngularAcceleration float64 `yaml:"max_angular_acceleration"`
	Health                 int     `yaml:"health"`
	ReloadFrames           int     `yaml:"reload_frames"`
	LaserDamage            int     `yaml:"laser_damage"`
	Sprite                 string  `yaml:"sprite"`
}

var defaultShipProfiles = [3]ShipProfile{
	// Player: nimble, reloads once a second at 60fps
	{
		MaxAcceleration: 300, MaxVelocity: 100,
		MaxAngularVelocity: 1440, MaxAngularAcceleration: 1440,
		Health: 100, ReloadFrames: 60, LaserDamage: 10, Sprite: "Spaceship2",
	},
	// Seeker: slow pursuer
	{
		MaxAcceleration: 30, MaxVelocity: 50,
		MaxAngularVelocity: 150, MaxAngularAcceleration: 300,
		Health: 100, ReloadFrames: 90, LaserDamage: 5, Sprite: "Spaceship1",
	},
	// Turret: never moves, only rotates
	{
		MaxAcceleration: 0, MaxVelocity: 0,
		MaxAngularVelocity: 50, MaxAngularAcceleration: 50,
		Health: 100, ReloadFrames: 120, LaserDamage: 5, Sprite: "Turret",
	},
}

// DefaultShipProfile returns the built-in profile for a kind
func DefaultShipProfile(kind ShipKind) ShipProfile {
	if kind < 0 || int(kind) >= len(defaultShipProfiles) {
		return defaultShipProfiles[KindPlayer]
	}
	return defaultShipProfiles[kind]
}

// Scaled applies a difficulty to an AI profile: movement caps scale by the
// speed multiplier and laser damage by the damage multiplier (minimum 1).
func (p ShipProfile) Scaled(d Difficulty) ShipProfile {
	def := d.Def()
	p.MaxAcceleration *= def.SpeedMultiplier
	p.MaxVelocity *= def.SpeedMultiplier
	p.MaxAngularVelocity *= def.SpeedMultiplier
	p.MaxAngularAcceleration *= def.SpeedMultiplier
	dmg := int(float64(p.LaserDamage)*def.DamageMultiplier + 0.5)
	if dmg < 1 {
		dmg = 1
	}
	p.LaserDamage = dmg
	return p
}
