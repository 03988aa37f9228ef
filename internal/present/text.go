package present

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-hunter/internal/stats"
)

// UnavailableMessage is shown in place of stats when the platform client
// is not running.
const UnavailableMessage = "Error: Please start your platform client before you run this example!"

// StalledMessage is shown when stats could not be fetched.
const StalledMessage = "Error: Stats could not be fetched. Press R to try again."

// StatsLines is the stats panel text.
func StatsLines(s stats.Snapshot) string {
	c := s.Counters
	return fmt.Sprintf(`
DistanceTraveled: %s

NumGames: %d
NumWins: %d
NumLosses: %d
FeetTraveled: %s
MaxFeetTraveled: %s`,
		formatFeet(c.SessionFeet), c.GamesPlayed, c.Wins, c.Losses,
		formatFeet(c.FeetTraveled), formatFeet(c.MaxFeetTraveled))
}

// AchievementBlock is the text block for one achievement.
func AchievementBlock(a stats.Achievement) string {
	return fmt.Sprintf(`
ID: %s
Name: %s
Description: %s
Achieved: %s`, a.ID, a.Name, a.Description, formatBool(a.Achieved))
}

// AchievementBlocks returns one block per catalog entry, in catalog order.
func AchievementBlocks(s stats.Snapshot) []string {
	blocks := make([]string, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		blocks = append(blocks, AchievementBlock(a))
	}
	return blocks
}

// StatusMessage is the message to show instead of stats, if any.
func StatusMessage(s stats.Snapshot) (string, bool) {
	switch {
	case s.State == stats.StateDisabled:
		return UnavailableMessage, true
	case s.Stalled:
		return StalledMessage, true
	default:
		return "", false
	}
}

func formatFeet(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
