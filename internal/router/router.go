package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"timension-backend/internal/handlers"
	"timension-backend/internal/middleware"
	"timension-backend/internal/websocket"
)

func New(
	headlineHandler *handlers.HeadlineHandler,
	mentorHandler *handlers.MentorHandler,
	exploreHandler *handlers.ExploreHandler,
	simulationHandler *handlers.SimulationHandler,
	suggestionHandler *handlers.SuggestionHandler,
	credentialHandler *handlers.CredentialHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Each generation route costs at least one upstream call
	generationLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Credential Routes ────
		r.Route("/credential", func(r chi.Router) {
			r.Get("/status", credentialHandler.Status)
			r.Post("/", credentialHandler.Set)
			r.Post("/test", credentialHandler.Test)
		})

		// ──── Generation Routes ────
		r.Group(func(r chi.Router) {
			r.Use(generationLimiter.Middleware)

			r.Get("/headline", headlineHandler.Get)
			r.Post("/mentor/chat", mentorHandler.Chat)

			r.Route("/explore/{location}", func(r chi.Router) {
				r.Get("/map", exploreHandler.Map)
				r.Get("/trivia", exploreHandler.Trivia)
				r.Get("/photos", exploreHandler.Photos)
			})

			r.Post("/simulation", simulationHandler.Simulate)
		})

		r.Get("/simulation/events", simulationHandler.Events)

		// ──── Suggestion Wall ────
		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", suggestionHandler.List)
			r.Post("/", suggestionHandler.Create)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
