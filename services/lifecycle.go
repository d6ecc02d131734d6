package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/metrics"
	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
	"github.com/Dosada05/tournament-fixtures/storage"
)

const archiveUploadTimeout = 15 * time.Second

// fixtureArchive is the JSON document published to object storage after a start.
type fixtureArchive struct {
	TournamentID int            `json:"tournament_id"`
	Name         string         `json:"name"`
	Rounds       int            `json:"rounds"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Teams        []models.Team  `json:"teams"`
	Matches      []models.Match `json:"matches"`
}

// StartTournament moves the tournament out of registration. The row lock,
// guard, roster read, generation and insert share one transaction: either
// every match is stored or none is.
func (s *tournamentService) StartTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	started := s.now()
	logger := s.loggerFor(tournamentID)

	var tournament *models.Tournament
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		var err error
		tournament, err = s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		matchCount, err := s.matchRepo.CountByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if matchCount > 0 {
			return ErrTournamentAlreadyStarted
		}

		teams, err := s.teamRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if len(teams) < 2 {
			return ErrInsufficientTeams
		}

		fixtures, err := s.generator(teams, tournament.Rounds)
		if err != nil {
			if !errors.Is(err, ErrInvalidInput) {
				err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return err
		}
		for i := range fixtures {
			fixtures[i].TournamentID = tournamentID
		}

		inserted, err := s.matchRepo.InsertBatch(ctx, exec, fixtures)
		if err != nil {
			return err
		}
		attachDetails(tournament, teams, inserted, nil)
		return nil
	})

	elapsed := s.now().Sub(started).Seconds()
	if err != nil {
		err = handleRepositoryError("start tournament", err)
		outcome := startOutcome(err)
		s.metrics.ObserveStart(outcome, 0, elapsed)
		if outcome == metrics.OutcomeFailed {
			logger.ErrorContext(ctx, "tournament start failed", slog.Any("error", err))
		} else {
			logger.WarnContext(ctx, "tournament start rejected", slog.String("outcome", outcome), slog.Any("error", err))
		}
		return nil, err
	}
	s.metrics.ObserveStart(metrics.OutcomeScheduled, len(tournament.Matches), elapsed)
	logger.InfoContext(ctx, "tournament scheduled",
		slog.Int("teams", len(tournament.Teams)),
		slog.Int("matches", len(tournament.Matches)),
		slog.Int("cycles", tournament.Rounds))

	s.archiveFixtures(ctx, tournament)
	if s.notifier != nil {
		room := brackets.RoomForTournament(tournamentID)
		s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageFixturesGenerated,
			Payload: tournament,
			RoomID:  room,
		})
	}
	return tournament, nil
}

func startOutcome(err error) string {
	var se *StorageError
	switch {
	case errors.Is(err, ErrTournamentAlreadyStarted):
		return metrics.OutcomeAlreadyStarted
	case errors.As(err, &se):
		return metrics.OutcomeFailed
	case isDomainError(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

// archiveFixtures publishes the committed fixture list. Failures are logged
// only; the database stays the source of truth.
func (s *tournamentService) archiveFixtures(ctx context.Context, tournament *models.Tournament) {
	if s.uploader == nil {
		return
	}
	logger := s.loggerFor(tournament.ID)

	body, err := json.Marshal(fixtureArchive{
		TournamentID: tournament.ID,
		Name:         tournament.Name,
		Rounds:       tournament.Rounds,
		GeneratedAt:  s.now().UTC(),
		Teams:        tournament.Teams,
		Matches:      tournament.Matches,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode fixture archive", slog.Any("error", err))
		return
	}

	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveUploadTimeout)
	defer cancel()

	key := storage.FixtureArchiveKey(tournament.ID)
	result, err := s.uploader.Upload(uploadCtx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.WarnContext(ctx, "failed to archive fixtures", slog.String("key", key), slog.Any("error", err))
		return
	}
	if result != nil && result.Location != "" {
		location := result.Location
		tournament.FixtureURL = &location
	}
}
