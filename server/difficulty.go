package main

// Difficulty is the level difficulty chosen before a level starts
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyNormal Difficulty = 2
	DifficultyHard   Difficulty = 3
	DifficultyInsane Difficulty = 4
)

// DifficultyDef holds the multipliers a difficulty applies at level start
type DifficultyDef struct {
	Name             string
	SpeedMultiplier  float64 // AI max velocity/acceleration/angular caps
	DamageMultiplier float64 // damage dealt by AI lasers
	PlayerLives      int
}

var difficulties = map[Difficulty]DifficultyDef{
	DifficultyEasy:   {Name: "easy", SpeedMultiplier: 0.5, DamageMultiplier: 0.5, PlayerLives: 5},
	DifficultyNormal: {Name: "normal", SpeedMultiplier: 1.0, DamageMultiplier: 1.0, PlayerLives: 3},
	DifficultyHard:   {Name: "hard", SpeedMultiplier: 1.5, DamageMultiplier: 1.5, PlayerLives: 2},
	DifficultyInsane: {Name: "insane", SpeedMultiplier: 2.0, DamageMultiplier: 2.0, PlayerLives: 1},
}

// Def returns the definition for d. Unknown values get Normal.
func (d Difficulty) Def() DifficultyDef {
	if def, ok := difficulties[d]; ok {
		return def
	}
	return difficulties[DifficultyNormal]
}

// Valid reports whether d is one of the four known levels
func (d Difficulty) Valid() bool {
	_, ok := difficulties[d]
	return ok
}

func (d Difficulty) String() string {
	return d.Def().Name
}
