package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rcampos/diapredict-be/internal/api/handlers"
	"github.com/rcampos/diapredict-be/internal/auth"
	"github.com/rcampos/diapredict-be/internal/monitoring"
	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/rcampos/diapredict-be/internal/websocket"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Hub           *websocket.Hub
	UserService   services.UserServiceProvider
	PredictionSvc services.PredictionServiceProvider
	EventService  services.EventServiceProvider
	ScheduleSvc   services.ScheduleServiceProvider
	StatUpdater   *monitoring.StatUpdater
	JWTSecret     []byte
	AllowedOrigin string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.UserService, deps.EventService, deps.JWTSecret)
	predictionHandler := handlers.NewPredictionHandler(deps.PredictionSvc)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	scheduleHandler := handlers.NewScheduleHandler(deps.ScheduleSvc)
	systemHandler := handlers.NewSystemHandler(deps.StatUpdater)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Live event feed
		r.Get("/ws", wsHandler.Serve)

		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.With(auth.JWTMiddleware(deps.JWTSecret)).Get("/me", userHandler.GetMe)
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(deps.JWTSecret))

			r.Route("/predictions", func(r chi.Router) {
				r.Post("/", predictionHandler.Predict)
				r.Post("/batch", predictionHandler.RunBatch)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", scheduleHandler.GetAll)
				r.Post("/", scheduleHandler.Create)
				r.Route("/{scheduleId}", func(r chi.Router) {
					r.Get("/", scheduleHandler.Get)
					r.Put("/", scheduleHandler.Update)
					r.Delete("/", scheduleHandler.Delete)
				})
			})

			r.Get("/events", eventHandler.GetRecent)
			r.Get("/system/stats", systemHandler.GetStats)
		})
	})

	return r
}
