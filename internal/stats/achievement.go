package stats

// AchievementID is the enum-like key of an achievement. Its String form is
// the API name registered with the platform.
type AchievementID int

const (
	AchWinOneGame AchievementID = iota
	AchWin100Games
	AchHeavyFire
	AchTravelFarAccum
	AchTravelFarSingle
)

func (id AchievementID) String() string {
	switch id {
	case AchWinOneGame:
		return "ACH_WIN_ONE_GAME"
	case AchWin100Games:
		return "ACH_WIN_100_GAMES"
	case AchHeavyFire:
		return "ACH_HEAVY_FIRE"
	case AchTravelFarAccum:
		return "ACH_TRAVEL_FAR_ACCUM"
	case AchTravelFarSingle:
		return "ACH_TRAVEL_FAR_SINGLE"
	default:
		return "ACH_UNKNOWN"
	}
}

// Stat API names.
const (
	StatNumGames        = "NumGames"
	StatNumWins         = "NumWins"
	StatNumLosses       = "NumLosses"
	StatFeetTraveled    = "FeetTraveled"
	StatMaxFeetTraveled = "MaxFeetTraveled"
)

// Unlock thresholds.
const (
	VeteranWins       = 100
	FeetPerMile       = 5280
	SingleSessionFeet = 500
)

// Achievement is one entry of the tracker's catalog.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Achieved    bool
}

// Catalog returns a fresh copy of the achievements the tracker evaluates.
// ACH_HEAVY_FIRE is registered with the platform but has no unlock rule.
func Catalog() []Achievement {
	return []Achievement{
		{ID: AchWinOneGame, Name: "Winner"},
		{ID: AchWin100Games, Name: "Champion"},
		{ID: AchTravelFarAccum, Name: "Interstellar"},
		{ID: AchTravelFarSingle, Name: "Orbiter"},
	}
}

// Met reports whether the unlock condition for id holds for the counters.
func Met(id AchievementID, c Counters) bool {
	switch id {
	case AchWinOneGame:
		return c.Wins >= 1
	case AchWin100Games:
		return c.Wins >= VeteranWins
	case AchTravelFarAccum:
		return c.FeetTraveled >= FeetPerMile
	case AchTravelFarSingle:
		return c.SessionFeet >= SingleSessionFeet
	default:
		return false
	}
}
