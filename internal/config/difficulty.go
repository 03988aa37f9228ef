package config

// DifficultyConfig ramps the hunter sample from its initial level to the
// hardest level as the session distance grows.
type DifficultyConfig struct {
	Enabled         bool    `yaml:"enabled"`
	InitialLevel    float64 `yaml:"initial_level"`    // 0.0 to 1.0
	MaxAtFeet       float64 `yaml:"max_at_feet"`      // session distance at full difficulty
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // extra asteroid speed at level 1.0
	SpawnReduction  int     `yaml:"spawn_reduction"`  // fewer ticks between spawns at level 1.0
}

// DifficultyManager turns session distance into asteroid parameters.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a manager for the given curve.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	cfg.InitialLevel = clampF(cfg.InitialLevel, 0, 1)
	return &DifficultyManager{cfg: cfg}
}

// Level returns the difficulty in [0, 1] for a session distance.
func (d *DifficultyManager) Level(feet float64) float64 {
	if !d.cfg.Enabled || d.cfg.MaxAtFeet <= 0 {
		return d.cfg.InitialLevel
	}
	progress := clampF(feet/d.cfg.MaxAtFeet, 0, 1)
	return d.cfg.InitialLevel + progress*(1-d.cfg.InitialLevel)
}

// Speed scales a base asteroid speed by the current level.
func (d *DifficultyManager) Speed(base, feet float64) float64 {
	return base * (1 + d.Level(feet)*d.cfg.SpeedMultiplier)
}

// SpawnEvery shortens the spawn interval by the current level, never below 2 ticks.
func (d *DifficultyManager) SpawnEvery(base int, feet float64) int {
	reduction := int(d.Level(feet) * float64(d.cfg.SpawnReduction))
	return max(base-reduction, 2)
}

func clampF(val, lo, hi float64) float64 {
	return max(lo, min(val, hi))
}
