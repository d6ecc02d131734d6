package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

func bearer(t *testing.T, userID int, role models.UserRole) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

type fakeTournamentService struct {
	CreateTournamentFunc  func(ctx context.Context, actor services.Actor, input services.CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByIDFunc func(ctx context.Context, id int) (*models.Tournament, error)
	ListTournamentsFunc   func(ctx context.Context, filter services.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournamentFunc  func(ctx context.Context, id int, actor services.Actor, input services.UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournamentFunc  func(ctx context.Context, id int, actor services.Actor) error
	AddTeamFunc           func(ctx context.Context, tournamentID int, input services.AddTeamInput) (*models.Team, error)
	StartTournamentFunc   func(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

func (f *fakeTournamentService) CreateTournament(ctx context.Context, actor services.Actor, input services.CreateTournamentInput) (*models.Tournament, error) {
	return f.CreateTournamentFunc(ctx, actor, input)
}

func (f *fakeTournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	return f.GetTournamentByIDFunc(ctx, id)
}

func (f *fakeTournamentService) ListTournaments(ctx context.Context, filter services.ListTournamentsFilter) ([]models.Tournament, error) {
	return f.ListTournamentsFunc(ctx, filter)
}

func (f *fakeTournamentService) UpdateTournament(ctx context.Context, id int, actor services.Actor, input services.UpdateTournamentInput) (*models.Tournament, error) {
	return f.UpdateTournamentFunc(ctx, id, actor, input)
}

func (f *fakeTournamentService) DeleteTournament(ctx context.Context, id int, actor services.Actor) error {
	return f.DeleteTournamentFunc(ctx, id, actor)
}

func (f *fakeTournamentService) AddTeam(ctx context.Context, tournamentID int, input services.AddTeamInput) (*models.Team, error) {
	return f.AddTeamFunc(ctx, tournamentID, input)
}

func (f *fakeTournamentService) StartTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	return f.StartTournamentFunc(ctx, tournamentID)
}

type fakeMatchService struct {
	ListMatchesByTournamentFunc func(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateMatchFunc             func(ctx context.Context, tournamentID, matchID int, actor services.Actor, input services.UpdateMatchInput) (*models.Match, error)
}

func (f *fakeMatchService) ListMatchesByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return f.ListMatchesByTournamentFunc(ctx, tournamentID)
}

func (f *fakeMatchService) UpdateMatch(ctx context.Context, tournamentID, matchID int, actor services.Actor, input services.UpdateMatchInput) (*models.Match, error) {
	return f.UpdateMatchFunc(ctx, tournamentID, matchID, actor, input)
}

type fakeProfileService struct {
	GetProfileFunc  func(ctx context.Context, userID int) (*models.Profile, error)
	SubscribeFunc   func(ctx context.Context, userID, tournamentID int) (*models.Profile, error)
	UnsubscribeFunc func(ctx context.Context, userID, tournamentID int) error
}

func (f *fakeProfileService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	return f.GetProfileFunc(ctx, userID)
}

func (f *fakeProfileService) Subscribe(ctx context.Context, userID, tournamentID int) (*models.Profile, error) {
	return f.SubscribeFunc(ctx, userID, tournamentID)
}

func (f *fakeProfileService) Unsubscribe(ctx context.Context, userID, tournamentID int) error {
	return f.UnsubscribeFunc(ctx, userID, tournamentID)
}
