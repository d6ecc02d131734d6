package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/metrics"
	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
	"github.com/Dosada05/tournament-fixtures/storage"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	// parallel detail loads per list request
	listDetailsConcurrency = 4
)

type TournamentService interface {
	CreateTournament(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, actor Actor, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int, actor Actor) error
	AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error)
	// StartTournament generates and stores the fixture list exactly once.
	StartTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name             string
	SignUpExpiration *time.Time
	MaxTeams         *int
	Rounds           *int
	Public           bool
	Sport            *string
	Teams            []string
}

// UpdateTournamentInput is a field mask: nil fields are left unchanged.
type UpdateTournamentInput struct {
	Name             *string
	SignUpExpiration *time.Time
	MaxTeams         *int
	Rounds           *int
	Public           *bool
	Sport            *string
}

type AddTeamInput struct {
	Name string
}

type ListTournamentsFilter struct {
	UserID *int
	Limit  int
	Offset int
}

type tournamentService struct {
	transactor     repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.FixtureGenerator
	notifier       Notifier
	uploader       storage.FileUploader
	metrics        metrics.FixtureMetrics
	logger         *slog.Logger
	now            func() time.Time
}

// NewTournamentService wires the tournament lifecycle. notifier and uploader
// may be nil.
func NewTournamentService(
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	uploader storage.FileUploader,
	fixtureMetrics metrics.FixtureMetrics,
	logger *slog.Logger,
) TournamentService {
	if fixtureMetrics == nil {
		fixtureMetrics = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		generator:      brackets.RoundRobin,
		notifier:       notifier,
		uploader:       uploader,
		metrics:        fixtureMetrics,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error) {
	name, ok := sanitizeName(input.Name)
	if !ok {
		return nil, ErrTournamentNameRequired
	}
	rounds := 1
	if input.Rounds != nil {
		rounds = *input.Rounds
	}
	if rounds < 1 {
		return nil, ErrTournamentInvalidRounds
	}
	teamNames, err := sanitizeTeamNames(input.Teams)
	if err != nil {
		return nil, err
	}
	if input.MaxTeams != nil && (*input.MaxTeams < 2 || len(teamNames) > *input.MaxTeams) {
		return nil, ErrTournamentInvalidCapacity
	}

	tournament := &models.Tournament{
		Name:             name,
		UserID:           actor.UserID,
		SignUpExpiration: input.SignUpExpiration,
		MaxTeams:         input.MaxTeams,
		Rounds:           rounds,
		Public:           input.Public,
		Sport:            input.Sport,
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return err
		}
		teams := make([]models.Team, 0, len(teamNames))
		for _, teamName := range teamNames {
			team := models.Team{TournamentID: tournament.ID, Name: teamName}
			if err := s.teamRepo.Create(ctx, exec, &team); err != nil {
				return err
			}
			teams = append(teams, team)
		}
		attachDetails(tournament, teams, nil, nil)
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError("create tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("user_id", actor.UserID),
		slog.Int("teams", len(tournament.Teams)))
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	if err := populateTournamentDetails(ctx, tournament, s.teamRepo, s.matchRepo, s.uploader); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		UserID: filter.UserID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, handleRepositoryError("list tournaments", err)
	}
	if tournaments == nil {
		return []models.Tournament{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listDetailsConcurrency)
	for i := range tournaments {
		t := &tournaments[i]
		g.Go(func() error {
			return populateTournamentDetails(gctx, t, s.teamRepo, s.matchRepo, s.uploader)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, actor Actor, input UpdateTournamentInput) (*models.Tournament, error) {
	patch := repositories.TournamentPatch{
		SignUpExpiration: input.SignUpExpiration,
		MaxTeams:         input.MaxTeams,
		Rounds:           input.Rounds,
		Public:           input.Public,
		Sport:            input.Sport,
	}
	if input.Name != nil {
		name, ok := sanitizeName(*input.Name)
		if !ok {
			return nil, ErrTournamentNameRequired
		}
		patch.Name = &name
	}
	if patch.IsEmpty() {
		return nil, ErrNothingToUpdate
	}
	if patch.Rounds != nil && *patch.Rounds < 1 {
		return nil, ErrTournamentInvalidRounds
	}
	if patch.MaxTeams != nil && *patch.MaxTeams < 2 {
		return nil, ErrTournamentInvalidCapacity
	}

	var updated *models.Tournament
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		current, err := s.tournamentRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(current) {
			return ErrForbiddenOperation
		}

		matchCount, err := s.matchRepo.CountByTournament(ctx, exec, id)
		if err != nil {
			return err
		}
		if matchCount > 0 && patch.Rounds != nil && *patch.Rounds != current.Rounds {
			return ErrTournamentUpdateNotAllowed
		}

		teams, err := s.teamRepo.ListByTournament(ctx, exec, id)
		if err != nil {
			return err
		}
		if patch.MaxTeams != nil && *patch.MaxTeams < len(teams) {
			return ErrTournamentInvalidCapacity
		}

		updated, err = s.tournamentRepo.Update(ctx, exec, id, patch)
		if err != nil {
			return err
		}
		matches, err := s.matchRepo.ListByTournament(ctx, exec, id)
		if err != nil {
			return err
		}
		attachDetails(updated, teams, matches, s.uploader)
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError("update tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament updated", slog.Int("tournament_id", id), slog.Int("user_id", actor.UserID))
	return updated, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int, actor Actor) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return handleRepositoryError("get tournament", err)
	}
	if !actor.CanManage(tournament) {
		return ErrForbiddenOperation
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError("delete tournament", err)
	}

	if s.uploader != nil {
		key := storage.FixtureArchiveKey(id)
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete fixture archive",
				slog.Int("tournament_id", id), slog.String("key", key), slog.Any("error", err))
		}
	}
	s.logger.InfoContext(ctx, "tournament deleted", slog.Int("tournament_id", id), slog.Int("user_id", actor.UserID))
	return nil
}

// AddTeam registers a team while the tournament is still open. It holds the
// tournament row lock so a concurrent start sees either the old or the new roster.
func (s *tournamentService) AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error) {
	name, ok := sanitizeName(input.Name)
	if !ok {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{TournamentID: tournamentID, Name: name}
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
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
		if tournament.SignUpExpiration != nil && !s.now().Before(*tournament.SignUpExpiration) {
			return ErrRegistrationClosed
		}
		teams, err := s.teamRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		for _, existing := range teams {
			if strings.EqualFold(existing.Name, name) {
				return ErrTeamNameConflict
			}
		}
		if tournament.MaxTeams != nil && len(teams) >= *tournament.MaxTeams {
			return ErrTournamentFull
		}
		return s.teamRepo.Create(ctx, exec, team)
	})
	if err != nil {
		return nil, handleRepositoryError("add team", err)
	}

	s.logger.InfoContext(ctx, "team registered",
		slog.Int("tournament_id", tournamentID), slog.Int("team_id", team.ID))
	return team, nil
}

func (s *tournamentService) loggerFor(tournamentID int) *slog.Logger {
	return s.logger.With(slog.Int("tournament_id", tournamentID))
}
