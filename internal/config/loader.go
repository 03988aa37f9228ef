package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidValue is wrapped by every validation failure.
var ErrInvalidValue = errors.New("invalid value")

// Load reads the configuration.
// Search order: customPath -> ~/.hunter/configs/hunter.yaml -> ./configs/hunter.yaml -> embedded default.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped silently when missing or malformed.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("hunter.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "hunter.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultHunterYAML)
	if err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Parse decodes YAML on top of the built-in defaults and validates the result.
// Sections left out of the document keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	// Lists replace the defaults wholesale instead of merging element-wise.
	cfg.Stats, cfg.Achievements, cfg.Leaderboards = nil, nil, nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	defaults := DefaultConfig()
	if cfg.Stats == nil {
		cfg.Stats = defaults.Stats
	}
	if cfg.Achievements == nil {
		cfg.Achievements = defaults.Achievements
	}
	if cfg.Leaderboards == nil {
		cfg.Leaderboards = defaults.Leaderboards
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the emulator cannot use.
func (c Config) Validate() error {
	if c.Platform.AppID == 0 {
		return fmt.Errorf("%w: platform.app_id must be set", ErrInvalidValue)
	}
	if c.Platform.StoreRate.PerSecond <= 0 || c.Platform.StoreRate.Burst <= 0 {
		return fmt.Errorf("%w: platform.store_rate needs positive per_second and burst", ErrInvalidValue)
	}

	seen := make(map[string]bool, len(c.Stats))
	for _, s := range c.Stats {
		if s.Name == "" {
			return fmt.Errorf("%w: stat without a name", ErrInvalidValue)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate stat %q", ErrInvalidValue, s.Name)
		}
		seen[s.Name] = true
		if s.Type != StatInt && s.Type != StatFloat {
			return fmt.Errorf("%w: stat %q has type %q, expected int or float", ErrInvalidValue, s.Name, s.Type)
		}
		if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
			return fmt.Errorf("%w: stat %q has min above max", ErrInvalidValue, s.Name)
		}
		if s.MaxChange < 0 {
			return fmt.Errorf("%w: stat %q has negative max_change", ErrInvalidValue, s.Name)
		}
	}

	for _, a := range c.Achievements {
		if a.ID == "" {
			return fmt.Errorf("%w: achievement without an id", ErrInvalidValue)
		}
	}

	for _, l := range c.Leaderboards {
		if l.Name == "" {
			return fmt.Errorf("%w: leaderboard without a name", ErrInvalidValue)
		}
	}

	if c.Tracker.MaxFetchRetries < 0 || c.Tracker.RetryDelayTicks < 1 {
		return fmt.Errorf("%w: tracker needs max_fetch_retries >= 0 and retry_delay_ticks >= 1", ErrInvalidValue)
	}

	switch c.Font.Charset {
	case "ascii", "latin1":
	default:
		return fmt.Errorf("%w: font.charset %q, expected ascii or latin1", ErrInvalidValue, c.Font.Charset)
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hunter", "configs", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
