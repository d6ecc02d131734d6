package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
)

type MatchService interface {
	ListMatchesByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateMatch(ctx context.Context, tournamentID, matchID int, actor Actor, input UpdateMatchInput) (*models.Match, error)
}

// UpdateMatchInput is a field mask over the result of a match.
type UpdateMatchInput struct {
	HomeTeamScore *int
	AwayTeamScore *int
	Location      *string
	Played        *bool
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	notifier       Notifier
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *matchService) ListMatchesByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("list matches", err)
	}
	if matches == nil {
		return []models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, tournamentID, matchID int, actor Actor, input UpdateMatchInput) (*models.Match, error) {
	patch := repositories.MatchPatch{
		HomeTeamScore: input.HomeTeamScore,
		AwayTeamScore: input.AwayTeamScore,
		Location:      input.Location,
		Played:        input.Played,
	}
	if patch.IsEmpty() {
		return nil, ErrNothingToUpdate
	}
	if (patch.HomeTeamScore != nil && *patch.HomeTeamScore < 0) || (patch.AwayTeamScore != nil && *patch.AwayTeamScore < 0) {
		return nil, ErrInvalidScore
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	if !actor.CanManage(tournament) {
		return nil, ErrForbiddenOperation
	}

	match, err := s.matchRepo.Update(ctx, nil, tournamentID, matchID, patch)
	if err != nil {
		return nil, handleRepositoryError("update match", err)
	}

	s.logger.InfoContext(ctx, "match updated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", matchID),
		slog.Int("user_id", actor.UserID))

	if s.notifier != nil {
		room := brackets.RoomForTournament(tournamentID)
		s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageMatchUpdated,
			Payload: match,
			RoomID:  room,
		})
	}
	return match, nil
}
