package hunter

import (
	"testing"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/core"
)

func newTestField(seed int64) *Field {
	cfg := config.DefaultConfig().Hunter
	cfg.AsteroidEvery = 5
	cfg.AsteroidSpeed = 1
	cfg.Difficulty.Enabled = false
	cfg.Difficulty.InitialLevel = 0
	return NewField(seed, 20, 4, &cfg, config.NewDifficultyManager(cfg.Difficulty))
}

func TestFieldSpawnsOnInterval(t *testing.T) {
	f := newTestField(1)
	for i := 0; i < 4; i++ {
		f.Update(0)
	}
	if n := len(f.Asteroids()); n != 0 {
		t.Fatalf("asteroids after 4 ticks = %d, want 0", n)
	}
	f.Update(0)
	as := f.Asteroids()
	if len(as) != 1 {
		t.Fatalf("asteroids after 5 ticks = %d, want 1", len(as))
	}
	if as[0].X != 19 {
		t.Errorf("spawn X = %v, want 19", as[0].X)
	}
	if as[0].Lane < 0 || as[0].Lane >= 4 {
		t.Errorf("spawn lane %d out of range", as[0].Lane)
	}
}

func TestFieldExpiresAsteroids(t *testing.T) {
	f := newTestField(1)
	for i := 0; i < 5; i++ {
		f.Update(0)
	}
	// The first asteroid needs 20 more ticks to move past column 0.
	for i := 0; i < 19; i++ {
		f.Update(0)
	}
	for _, a := range f.Asteroids() {
		if a.X < 0 {
			t.Errorf("asteroid left the field but was kept: %+v", a)
		}
	}
	first := f.Asteroids()[0]
	if first.X != 0 {
		t.Fatalf("oldest asteroid X = %v, want 0", first.X)
	}
	f.Update(0)
	if f.Asteroids()[0].X == -1 {
		t.Error("asteroid at X=-1 should be removed")
	}
}

func TestFieldCollision(t *testing.T) {
	f := newTestField(1)
	f.asteroids = append(f.asteroids, Asteroid{X: 2.4, Lane: 1})

	if !f.CheckCollision(core.NewRect(1, 1, 2, 1)) {
		t.Error("expected collision with the ship rectangle")
	}
	if f.CheckCollision(core.NewRect(1, 0, 2, 1)) {
		t.Error("different lane must not collide")
	}
	if f.CheckCollision(core.NewRect(5, 1, 2, 1)) {
		t.Error("asteroid behind the ship must not collide")
	}
}

func TestFieldResetIsDeterministic(t *testing.T) {
	a, b := newTestField(9), newTestField(9)
	for i := 0; i < 40; i++ {
		a.Update(0)
		b.Update(0)
	}
	a.Reset(9)
	for i := 0; i < 40; i++ {
		a.Update(0)
	}
	if len(a.Asteroids()) != len(b.Asteroids()) {
		t.Fatalf("counts differ: %d vs %d", len(a.Asteroids()), len(b.Asteroids()))
	}
	for i := range a.Asteroids() {
		if a.Asteroids()[i] != b.Asteroids()[i] {
			t.Errorf("asteroid %d differs after reseed", i)
		}
	}
}

func TestFieldClear(t *testing.T) {
	f := newTestField(1)
	for i := 0; i < 10; i++ {
		f.Update(0)
	}
	f.Clear()
	if len(f.Asteroids()) != 0 {
		t.Error("Clear() should drop all asteroids")
	}
}

func TestFieldResizeDropsOutOfBounds(t *testing.T) {
	f := newTestField(1)
	f.asteroids = append(f.asteroids,
		Asteroid{X: 3, Lane: 0},
		Asteroid{X: 3, Lane: 3},
		Asteroid{X: 15, Lane: 1},
	)

	f.Resize(10, 2)
	as := f.Asteroids()
	if len(as) != 1 || as[0] != (Asteroid{X: 3, Lane: 0}) {
		t.Errorf("asteroids after resize = %+v, want only {3 0}", as)
	}
}
