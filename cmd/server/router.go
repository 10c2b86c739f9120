package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kavramlab/kavram-api/internal/api"
	apiMiddleware "github.com/kavramlab/kavram-api/internal/api/middleware"
)

// setupRouter wires the HTTP surface: chi middleware, the game and source
// handlers, and the health endpoint. Game-play routes sit behind the
// session token middleware; starting a game and browsing the catalog do
// not, since the token only exists once a game has been started.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	// Trace IDs go in last so every handler below logs with one.
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	gameHandler := api.NewGameHandler(app.gameService, app.tokenService, app.logger)
	sourceHandler := api.NewSourceHandler(app.sourceService, app.logger)
	sessionMiddleware := apiMiddleware.NewSessionMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Public: game creation and the source catalog.
		r.Post("/games", gameHandler.StartGame)
		r.Post("/games/pdf", gameHandler.StartGamePDF)
		r.Post("/games/from-source/{id}", gameHandler.StartGameFromSource)
		r.Get("/sources", sourceHandler.ListSources)
		r.Post("/sources", sourceHandler.CreateSource)

		// Session-scoped game play.
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.Authenticate)
			r.Get("/games/current", gameHandler.GetCurrentGame)
			r.Post("/games/select-concept", gameHandler.SelectConcept)
			r.Post("/games/select-meaning", gameHandler.SelectMeaning)
			r.Post("/games/rounds", gameHandler.StartNewRound)
			r.Post("/games/reset", gameHandler.ResetGame)
			r.Delete("/games", gameHandler.EndGame)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
