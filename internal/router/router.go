package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/subodh10000/neptou-backend/internal/api/assistant"
	"github.com/subodh10000/neptou-backend/internal/api/knowledge"
	"github.com/subodh10000/neptou-backend/internal/api/optimizer"
	"github.com/subodh10000/neptou-backend/internal/api/search"
	"github.com/subodh10000/neptou-backend/internal/api/trips"
)

// Config contains the handlers the router mounts. Server-wide middleware
// (logger, requestID, recoverer) is applied before mounting this router in
// main.go.
type Config struct {
	SearchHandler    *search.Handler
	AssistantHandler *assistant.Handler
	OptimizerHandler *optimizer.Handler
	KnowledgeHandler *knowledge.Handler
	TripsHandler     *trips.Handler
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", cfg.SearchHandler.SearchKnowledgeBase)

		r.Post("/chat", cfg.AssistantHandler.Chat)
		r.Post("/plan-trip", cfg.AssistantHandler.PlanTrip)
		r.Post("/recommendations", cfg.AssistantHandler.Recommendations)
		r.Post("/destination-guide", cfg.AssistantHandler.DestinationGuide)

		r.Post("/optimize-itinerary", cfg.OptimizerHandler.OptimizeItinerary)

		r.Get("/places", cfg.KnowledgeHandler.ListPlaces)
		r.Get("/emergency-contacts", cfg.KnowledgeHandler.ListEmergencyContacts)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripsHandler.SaveTrip)
			r.Get("/", cfg.TripsHandler.ListTrips)
			r.Get("/{tripID}", cfg.TripsHandler.GetTrip)
		})
	})

	return r
}
