package hunter

import (
	"math/rand"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
)

// Asteroid drifts from the right edge of the field to the left.
type Asteroid struct {
	X    float64 // column inside the field
	Lane int     // row inside the field
}

// Rect returns the collision rectangle in field coordinates.
func (a Asteroid) Rect() core.Rect {
	return core.NewRect(int(a.X), a.Lane, 1, 1)
}

// Field spawns, moves and expires asteroids.
type Field struct {
	asteroids  []Asteroid
	rng        *rand.Rand
	width      int
	lanes      int
	sinceSpawn int
	cfg        *config.HunterConfig
	difficulty *config.DifficultyManager
}

// NewField creates an empty field of the given size.
func NewField(seed int64, width, lanes int, cfg *config.HunterConfig, diff *config.DifficultyManager) *Field {
	f := &Field{
		asteroids:  make([]Asteroid, 0, 16),
		width:      width,
		lanes:      lanes,
		cfg:        cfg,
		difficulty: diff,
	}
	f.Reset(seed)
	return f
}

// Reset clears all asteroids and reseeds the RNG.
func (f *Field) Reset(seed int64) {
	f.asteroids = f.asteroids[:0]
	f.rng = rand.New(rand.NewSource(seed))
	f.sinceSpawn = 0
}

// Clear drops the asteroids but keeps the RNG sequence going.
func (f *Field) Clear() {
	f.asteroids = f.asteroids[:0]
	f.sinceSpawn = 0
}

// Resize changes the field size. Asteroids outside the new bounds go.
func (f *Field) Resize(width, lanes int) {
	f.width, f.lanes = width, lanes
	kept := f.asteroids[:0]
	for _, a := range f.asteroids {
		if a.Lane < lanes && int(a.X) < width {
			kept = append(kept, a)
		}
	}
	f.asteroids = kept
}

// Update moves asteroids left and spawns new ones. Difficulty scales with
// the distance covered in the current round.
func (f *Field) Update(roundFeet float64) {
	speed := f.difficulty.Speed(f.cfg.AsteroidSpeed, roundFeet)

	kept := f.asteroids[:0]
	for _, a := range f.asteroids {
		a.X -= speed
		if a.X >= 0 {
			kept = append(kept, a)
		}
	}
	f.asteroids = kept

	f.sinceSpawn++
	if f.sinceSpawn >= f.difficulty.SpawnEvery(f.cfg.AsteroidEvery, roundFeet) {
		f.sinceSpawn = 0
		f.asteroids = append(f.asteroids, Asteroid{
			X:    float64(f.width - 1),
			Lane: f.rng.Intn(max(f.lanes, 1)),
		})
	}
}

// Asteroids returns the live asteroids.
func (f *Field) Asteroids() []Asteroid {
	return f.asteroids
}

// CheckCollision tests if the rectangle hits any asteroid.
func (f *Field) CheckCollision(r core.Rect) bool {
	for _, a := range f.asteroids {
		if r.Intersects(a.Rect()) {
			return true
		}
	}
	return false
}
