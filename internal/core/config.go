package core

import "time"

// RuntimeConfig is handed to a sample whenever it is reset.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Frames per second of the host loop
	Seed     int64
}

// DefaultConfig returns an 80x24 screen at 60 frames per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickDuration is the wall time covered by one frame.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is what a sample reports back to the host after a tick.
type GameState struct {
	Ticks    uint64 // Frames since the last reset
	Paused   bool
	GameOver bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
