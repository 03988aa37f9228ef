package local

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/platform"
)

// PersonaName is the logged on user's display name.
func (s *Service) PersonaName() string {
	if s.user != "" {
		return s.user
	}
	return s.cfg.Platform.Persona
}

func (s *Service) CurrentGameLanguage() string { return s.cfg.Platform.Language }

func (s *Service) AvailableGameLanguages() string {
	return strings.Join(s.cfg.Platform.Languages, ",")
}

func (s *Service) AppInstallDir() string {
	dir, err := config.ExpandHome(s.cfg.Platform.InstallDir)
	if err != nil {
		return s.cfg.Platform.InstallDir
	}
	return dir
}

// SecondsSinceAppActive counts from client creation.
func (s *Service) SecondsSinceAppActive() uint32 {
	return uint32(s.now().Sub(s.started).Seconds())
}

func (s *Service) RequestNumberOfCurrentPlayers() bool {
	if !s.available {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueue(platform.NumberOfCurrentPlayers{
		Game:    s.game,
		Success: true,
		Players: s.cfg.Platform.CurrentPlayers,
	})
	return true
}

func (s *Service) FindLeaderboard(name string) bool {
	if !s.available || name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	found := platform.LeaderboardFound{Game: s.game, Name: name}
	if _, ok := s.cfg.Leaderboard(name); ok {
		n, err := s.store.EntryCount(s.cfg.Platform.AppID, name)
		if err != nil {
			s.log.Error("FindLeaderboard failed", "board", name, "err", err)
		} else {
			found.Found = true
			found.Handle = leaderboardHandle(s.cfg.Platform.AppID, name)
			found.EntryCount = n
		}
	}
	s.enqueue(found)
	return true
}

func (s *Service) UploadLeaderboardScore(board string, score int) bool {
	if !s.available {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.cfg.Leaderboard(board)
	if !ok {
		return false
	}
	result := platform.LeaderboardScoreUploaded{Game: s.game, Board: board, Score: score}
	appID := s.cfg.Platform.AppID
	if _, err := s.store.SubmitScore(appID, board, s.user, score, s.now()); err != nil {
		s.log.Error("UploadLeaderboardScore failed", "board", board, "err", err)
	} else if rank, err := s.store.Rank(appID, board, score, def.Ascending); err != nil {
		s.log.Error("leaderboard rank failed", "board", board, "err", err)
		result.Success = true
	} else {
		result.Success = true
		result.Rank = rank
	}
	s.enqueue(result)
	return true
}

func (s *Service) OverlayActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

func (s *Service) ToggleOverlay() {
	if !s.available {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = !s.overlay
	s.enqueue(platform.OverlayActivated{Game: s.game, Active: s.overlay})
}

// leaderboardHandle is stable per app and board name.
func leaderboardHandle(appID uint32, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "hunter://%d/leaderboards/%s", appID, name)).String()
}
