package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/tournament-fixtures/docs" // swagger spec
	"github.com/Dosada05/tournament-fixtures/handlers"
	"github.com/Dosada05/tournament-fixtures/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestTimeout = 30 * time.Second

func SetupRoutes(
	router chi.Router,
	auth *middleware.Authenticator,
	allowedOrigins []string,
	metricsHandler http.Handler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	profileHandler *handlers.ProfileHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/", handlers.IndexHandler)
	router.Handle("/metrics", metricsHandler)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// websocket соединения живут дольше таймаута запроса
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Get("/matches", matchHandler.ListHandler)

				r.Group(func(r chi.Router) {
					r.Use(auth.Authenticate)

					r.Patch("/", tournamentHandler.UpdateHandler)
					r.Delete("/", tournamentHandler.DeleteHandler)
					r.Post("/teams", tournamentHandler.AddTeamHandler)
					r.Post("/start", tournamentHandler.StartHandler)
					r.Post("/subscription", profileHandler.SubscribeHandler)
					r.Delete("/subscription", profileHandler.UnsubscribeHandler)
					r.Patch("/matches/{matchID}", matchHandler.UpdateHandler)
				})
			})

			r.With(auth.Authenticate).Post("/", tournamentHandler.CreateHandler)
		})

		r.With(auth.Authenticate).Get("/profile", profileHandler.GetHandler)
	})
}
