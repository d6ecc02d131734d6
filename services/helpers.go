package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
	"github.com/Dosada05/tournament-fixtures/storage"
	"golang.org/x/sync/errgroup"
)

const maxNameLength = 255

// Notifier pushes events to websocket rooms. *brackets.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

var _ Notifier = (*brackets.Hub)(nil)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID int
	Role   models.UserRole
}

// CanManage reports whether the actor owns the tournament or is an admin.
func (a Actor) CanManage(t *models.Tournament) bool {
	return a.Role == models.RoleAdmin || (t != nil && t.UserID == a.UserID)
}

func sanitizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", false
	}
	return name, true
}

// sanitizeTeamNames trims the names and rejects blanks and duplicates.
func sanitizeTeamNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name, ok := sanitizeName(raw)
		if !ok {
			return nil, ErrTeamNameRequired
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, ErrDuplicateTeamName
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// populateTournamentDetails loads teams and matches concurrently and derives
// the status and published fixture URL.
func populateTournamentDetails(
	ctx context.Context,
	tournament *models.Tournament,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
) error {
	g, gctx := errgroup.WithContext(ctx)

	var teams []models.Team
	var matches []models.Match
	g.Go(func() error {
		var err error
		teams, err = teamRepo.ListByTournament(gctx, nil, tournament.ID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = matchRepo.ListByTournament(gctx, nil, tournament.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return handleRepositoryError("load tournament details", err)
	}

	attachDetails(tournament, teams, matches, uploader)
	return nil
}

func attachDetails(tournament *models.Tournament, teams []models.Team, matches []models.Match, uploader storage.FileUploader) {
	if teams == nil {
		teams = []models.Team{}
	}
	if matches == nil {
		matches = []models.Match{}
	}
	tournament.Teams = teams
	tournament.Matches = matches
	tournament.RefreshStatus()
	populateFixtureURL(tournament, uploader)
}

func populateFixtureURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament == nil || uploader == nil || !tournament.Started() {
		return
	}
	if url := uploader.GetPublicURL(storage.FixtureArchiveKey(tournament.ID)); url != "" {
		tournament.FixtureURL = &url
	}
}
