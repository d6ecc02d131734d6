package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
	"golang.org/x/sync/errgroup"
)

// profileTournamentsLimit caps the owned tournaments shown on a profile.
const profileTournamentsLimit = 100

type ProfileService interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	Subscribe(ctx context.Context, userID, tournamentID int) (*models.Profile, error)
	Unsubscribe(ctx context.Context, userID, tournamentID int) error
}

type profileService struct {
	userRepo         repositories.UserRepository
	tournamentRepo   repositories.TournamentRepository
	subscriptionRepo repositories.SubscriptionRepository
	logger           *slog.Logger
}

func NewProfileService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	logger *slog.Logger,
) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{
		userRepo:         userRepo,
		tournamentRepo:   tournamentRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	profile := &models.Profile{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.userRepo.GetByID(gctx, userID)
		if err != nil {
			return handleRepositoryError("get user", err)
		}
		profile.User = user
		return nil
	})
	g.Go(func() error {
		owner := userID
		tournaments, err := s.tournamentRepo.List(gctx, repositories.ListTournamentsFilter{UserID: &owner, Limit: profileTournamentsLimit})
		if err != nil {
			return handleRepositoryError("list owned tournaments", err)
		}
		profile.Tournaments = tournaments
		return nil
	})
	g.Go(func() error {
		subs, err := s.subscriptionRepo.ListByUser(gctx, userID)
		if err != nil {
			return handleRepositoryError("list subscriptions", err)
		}
		profile.Subscriptions = subs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if profile.Tournaments == nil {
		profile.Tournaments = []models.Tournament{}
	}
	if profile.Subscriptions == nil {
		profile.Subscriptions = []models.SubscribedSummary{}
	}
	return profile, nil
}

func (s *profileService) Subscribe(ctx context.Context, userID, tournamentID int) (*models.Profile, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	subscriptionID, err := s.subscriptionRepo.Create(ctx, userID, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("subscribe", err)
	}
	s.logger.InfoContext(ctx, "subscribed to tournament",
		slog.Int("subscription_id", subscriptionID),
		slog.Int("user_id", userID),
		slog.Int("tournament_id", tournamentID))
	return s.GetProfile(ctx, userID)
}

func (s *profileService) Unsubscribe(ctx context.Context, userID, tournamentID int) error {
	if err := s.subscriptionRepo.Delete(ctx, userID, tournamentID); err != nil {
		return handleRepositoryError("unsubscribe", err)
	}
	s.logger.InfoContext(ctx, "unsubscribed from tournament",
		slog.Int("user_id", userID), slog.Int("tournament_id", tournamentID))
	return nil
}
