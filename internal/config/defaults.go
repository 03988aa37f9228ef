package config

import (
	_ "embed"
)

//go:embed defaults/hunter.yaml
var defaultHunterYAML []byte

func ptr(v float64) *float64 {
	return &v
}

// DefaultConfig returns the built-in configuration. It mirrors
// defaults/hunter.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Platform: PlatformConfig{
			AppID:          480,
			Persona:        "Player",
			Language:       "english",
			Languages:      []string{"english", "german", "french"},
			InstallDir:     "~/.hunter/apps/480",
			CurrentPlayers: 1337,
			StoreRate:      StoreRateConfig{PerSecond: 1, Burst: 3},
		},
		Stats: []StatDef{
			{Name: "NumGames", Type: StatInt, Min: ptr(0), IncrementOnly: true},
			{Name: "NumWins", Type: StatInt, Min: ptr(0), IncrementOnly: true},
			{Name: "NumLosses", Type: StatInt, Min: ptr(0), IncrementOnly: true},
			{Name: "FeetTraveled", Type: StatFloat, Min: ptr(0), IncrementOnly: true, MaxChange: 100000},
			{Name: "MaxFeetTraveled", Type: StatFloat, Min: ptr(0), Max: ptr(100000)},
		},
		Achievements: []AchievementDef{
			{ID: "ACH_WIN_ONE_GAME", Name: "Winner", Description: "Win one game."},
			{ID: "ACH_WIN_100_GAMES", Name: "Champion", Description: "Win 100 games."},
			{ID: "ACH_HEAVY_FIRE", Name: "Heavy Fire", Description: "Destroy five asteroids in one round.", Hidden: true},
			{ID: "ACH_TRAVEL_FAR_ACCUM", Name: "Interstellar", Description: "Travel 5280 feet in total."},
			{ID: "ACH_TRAVEL_FAR_SINGLE", Name: "Orbiter", Description: "Travel 500 feet in one game."},
		},
		Leaderboards: []LeaderboardDef{
			{Name: "Quickest Win", Ascending: true},
			{Name: "Feet Traveled"},
		},
		Tracker: TrackerConfig{
			MaxFetchRetries: 5,
			RetryDelayTicks: 60,
		},
		Font: FontConfig{
			Charset: "ascii",
		},
		Hunter: HunterConfig{
			ShipSpeed:     2.5,
			GoalFeet:      600,
			AsteroidEvery: 24,
			AsteroidSpeed: 0.6,
			Difficulty: DifficultyConfig{
				Enabled:         true,
				InitialLevel:    0.1,
				MaxAtFeet:       600,
				SpeedMultiplier: 1.5,
				SpawnReduction:  14,
			},
		},
	}
}
