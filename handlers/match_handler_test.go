package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Dosada05/tournament-fixtures/middleware"
	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchRouter(svc services.MatchService) http.Handler {
	h := NewMatchHandler(svc)
	auth := middleware.NewAuthenticator(testSecret, nil)

	r := chi.NewRouter()
	r.Get("/tournaments/{tournamentID}/matches", h.ListHandler)
	r.With(auth.Authenticate).Patch("/tournaments/{tournamentID}/matches/{matchID}", h.UpdateHandler)
	return r
}

func TestMatchUpdateHandler(t *testing.T) {
	var gotInput services.UpdateMatchInput
	var gotIDs [2]int
	svc := &fakeMatchService{
		UpdateMatchFunc: func(ctx context.Context, tournamentID, matchID int, actor services.Actor, input services.UpdateMatchInput) (*models.Match, error) {
			gotIDs = [2]int{tournamentID, matchID}
			gotInput = input
			return &models.Match{ID: matchID, TournamentID: tournamentID, HomeTeamScore: input.HomeTeamScore, Played: true}, nil
		},
	}
	router := newMatchRouter(svc)

	rec := do(t, router, http.MethodPatch, "/tournaments/2/matches/8", bearer(t, 1, models.RoleAdmin), `{"home_team_score":3,"played":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, [2]int{2, 8}, gotIDs)
	assert.Equal(t, 3, *gotInput.HomeTeamScore)
	assert.Nil(t, gotInput.AwayTeamScore)

	var match models.Match
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["match"], &match))
	assert.True(t, match.Played)

	rec = do(t, router, http.MethodPatch, "/tournaments/2/matches/0", bearer(t, 1, models.RoleAdmin), `{"played":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchHandlersErrorMapping(t *testing.T) {
	svc := &fakeMatchService{
		ListMatchesByTournamentFunc: func(ctx context.Context, tournamentID int) ([]models.Match, error) {
			return nil, services.ErrTournamentNotFound
		},
		UpdateMatchFunc: func(ctx context.Context, tournamentID, matchID int, actor services.Actor, input services.UpdateMatchInput) (*models.Match, error) {
			return nil, services.ErrInvalidScore
		},
	}
	router := newMatchRouter(svc)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/tournaments/2/matches", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPatch, "/tournaments/2/matches/1", bearer(t, 1, models.RoleAdmin), `{"home_team_score":-1}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodPatch, "/tournaments/2/matches/1", "", `{"played":true}`).Code)
}
