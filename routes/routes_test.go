package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/handlers"
	"github.com/Dosada05/tournament-fixtures/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Сервисы не нужны: все проверяемые запросы отклоняются до обращения к ним.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hub := brackets.NewHub(nil)

	router := chi.NewRouter()
	SetupRoutes(
		router,
		middleware.NewAuthenticator("routes-secret", nil),
		[]string{"https://app.example"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
		handlers.NewTournamentHandler(nil),
		handlers.NewMatchHandler(nil),
		handlers.NewProfileHandler(nil),
		handlers.NewWebSocketHandler(hub, nil, []string{"https://app.example"}, nil),
	)
	return router
}

func TestIndexRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Routes, "POST /tournaments/{tournamentID}/start")
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/tournaments"},
		{http.MethodPatch, "/tournaments/1"},
		{http.MethodDelete, "/tournaments/1"},
		{http.MethodPost, "/tournaments/1/teams"},
		{http.MethodPost, "/tournaments/1/start"},
		{http.MethodPost, "/tournaments/1/subscription"},
		{http.MethodDelete, "/tournaments/1/subscription"},
		{http.MethodPatch, "/tournaments/1/matches/2"},
		{http.MethodGet, "/profile"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestMetricsAndCORS(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics\n", rec.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/tournaments", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournaments/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
