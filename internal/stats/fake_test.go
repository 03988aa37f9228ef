package stats

// fakeService is an in-memory Service that records every call.
type fakeService struct {
	available bool
	game      GameID
	requestOK bool
	storeOK   bool

	ints     map[string]int32
	floats   map[string]float32
	achieved map[string]bool
	display  map[string]string

	requests int
	stores   int
	resets   int
	setAch   map[string]int

	ch chan Completion
}

func newFakeService() *fakeService {
	f := &fakeService{
		available: true,
		game:      480,
		requestOK: true,
		storeOK:   true,
		ints:      map[string]int32{},
		floats:    map[string]float32{},
		achieved:  map[string]bool{},
		display:   map[string]string{},
		setAch:    map[string]int{},
		ch:        make(chan Completion, 16),
	}
	f.zero()
	return f
}

func (f *fakeService) zero() {
	for _, n := range []string{StatNumGames, StatNumWins, StatNumLosses} {
		f.ints[n] = 0
	}
	for _, n := range []string{StatFeetTraveled, StatMaxFeetTraveled} {
		f.floats[n] = 0
	}
	for _, a := range Catalog() {
		f.achieved[a.ID.String()] = false
	}
	f.achieved[AchHeavyFire.String()] = false
}

func (f *fakeService) Available() bool { return f.available }
func (f *fakeService) GameID() GameID  { return f.game }

func (f *fakeService) RequestCurrentStats() bool {
	f.requests++
	return f.requestOK
}

func (f *fakeService) GetStatInt(name string) (int32, bool) {
	v, ok := f.ints[name]
	return v, ok
}

func (f *fakeService) GetStatFloat(name string) (float32, bool) {
	v, ok := f.floats[name]
	return v, ok
}

func (f *fakeService) SetStatInt(name string, value int32) bool {
	if _, ok := f.ints[name]; !ok {
		return false
	}
	f.ints[name] = value
	return true
}

func (f *fakeService) SetStatFloat(name string, value float32) bool {
	if _, ok := f.floats[name]; !ok {
		return false
	}
	f.floats[name] = value
	return true
}

func (f *fakeService) GetAchievement(id string) (bool, bool) {
	v, ok := f.achieved[id]
	return v, ok
}

func (f *fakeService) SetAchievement(id string) bool {
	if _, ok := f.achieved[id]; !ok {
		return false
	}
	f.setAch[id]++
	f.achieved[id] = true
	return true
}

func (f *fakeService) GetAchievementDisplayAttribute(id, attr string) string {
	return f.display[id+"/"+attr]
}

func (f *fakeService) StoreStats() bool {
	f.stores++
	return f.storeOK
}

func (f *fakeService) ResetAllStats(bool) bool {
	f.resets++
	f.zero()
	return true
}

func (f *fakeService) Subscribe() <-chan Completion { return f.ch }
func (f *fakeService) Unsubscribe(<-chan Completion) {}

func (f *fakeService) received(r Result) {
	f.ch <- StatsReceived{Game: f.game, User: "tester", Result: r}
}
