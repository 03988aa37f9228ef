// Package config provides YAML configuration for the platform emulator,
// the stat/achievement schema, tracker policy, display font and samples.
package config

// Config is the root of hunter.yaml.
type Config struct {
	Platform     PlatformConfig   `yaml:"platform"`
	Stats        []StatDef        `yaml:"stats"`
	Achievements []AchievementDef `yaml:"achievements"`
	Leaderboards []LeaderboardDef `yaml:"leaderboards"`
	Tracker      TrackerConfig    `yaml:"tracker"`
	Font         FontConfig       `yaml:"font"`
	Hunter       HunterConfig     `yaml:"hunter"`
}

// PlatformConfig describes the emulated platform client.
type PlatformConfig struct {
	AppID          uint32          `yaml:"app_id"`
	Persona        string          `yaml:"persona"`
	Language       string          `yaml:"language"`
	Languages      []string        `yaml:"languages"`
	InstallDir     string          `yaml:"install_dir"`
	CurrentPlayers int             `yaml:"current_players"`
	StoreRate      StoreRateConfig `yaml:"store_rate"`
}

// StoreRateConfig throttles StoreStats calls per user.
type StoreRateConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// StatType is the value type of a stat.
type StatType string

const (
	StatInt   StatType = "int"
	StatFloat StatType = "float"
)

// StatDef is one server-side stat with its validation constraints.
// A store that violates a constraint is reverted by the service.
type StatDef struct {
	Name          string   `yaml:"name"`
	Type          StatType `yaml:"type"`
	Default       float64  `yaml:"default"`
	Min           *float64 `yaml:"min,omitempty"`
	Max           *float64 `yaml:"max,omitempty"`
	IncrementOnly bool     `yaml:"increment_only"`
	MaxChange     float64  `yaml:"max_change"` // 0 means unlimited
}

// AchievementDef is the display schema the service holds for an achievement.
type AchievementDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Hidden      bool   `yaml:"hidden"`
}

// LeaderboardDef names a leaderboard. Ascending boards rank the lowest
// score first.
type LeaderboardDef struct {
	Name      string `yaml:"name"`
	Ascending bool   `yaml:"ascending"`
}

// TrackerConfig bounds how often a failed stats fetch is retried.
type TrackerConfig struct {
	MaxFetchRetries int `yaml:"max_fetch_retries"`
	RetryDelayTicks int `yaml:"retry_delay_ticks"`
}

// FontConfig lists the glyphs the display font can draw.
type FontConfig struct {
	Charset     string `yaml:"charset"` // "ascii" or "latin1"
	Extra       string `yaml:"extra"`
	Replacement string `yaml:"replacement"`
}

// HunterConfig tunes the Achievement Hunter sample.
type HunterConfig struct {
	ShipSpeed     float64          `yaml:"ship_speed"`     // feet per tick while thrusting
	GoalFeet      float64          `yaml:"goal_feet"`      // distance that wins a round
	AsteroidEvery int              `yaml:"asteroid_every"` // ticks between spawns
	AsteroidSpeed float64          `yaml:"asteroid_speed"` // cells per tick
	Difficulty    DifficultyConfig `yaml:"difficulty"`
}

// StatDef returns the definition for a stat name.
func (c Config) StatDef(name string) (StatDef, bool) {
	for _, d := range c.Stats {
		if d.Name == name {
			return d, true
		}
	}
	return StatDef{}, false
}

// AchievementDef returns the display schema for an achievement id.
func (c Config) AchievementDef(id string) (AchievementDef, bool) {
	for _, d := range c.Achievements {
		if d.ID == id {
			return d, true
		}
	}
	return AchievementDef{}, false
}

// Leaderboard returns the definition for a board name.
func (c Config) Leaderboard(name string) (LeaderboardDef, bool) {
	for _, d := range c.Leaderboards {
		if d.Name == name {
			return d, true
		}
	}
	return LeaderboardDef{}, false
}
