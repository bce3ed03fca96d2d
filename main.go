package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcampos/diapredict-be/internal/api"
	"github.com/rcampos/diapredict-be/internal/classifier"
	"github.com/rcampos/diapredict-be/internal/config"
	"github.com/rcampos/diapredict-be/internal/database"
	"github.com/rcampos/diapredict-be/internal/logger"
	"github.com/rcampos/diapredict-be/internal/monitoring"
	"github.com/rcampos/diapredict-be/internal/recorder"
	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/rcampos/diapredict-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		// No configured secret: sessions will not survive a restart.
		jwtSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using a generated per-process secret")
	}

	// Ensure the directory for scheduled batch results exists
	if err := os.MkdirAll(cfg.BatchOutDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create batch output directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Load the classifier. A missing or corrupt artifact disables scoring
	// endpoints but the service keeps running.
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.ModelPath).Msg("Failed to load prediction model; scoring disabled")
		model = nil
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db)
	predictionService := services.NewPredictionService(model, recorder.New(cfg.PredictionLog), eventService)
	scheduleService := services.NewScheduleService(db, eventService)

	// Set up and run the background stat updater
	statUpdater := monitoring.NewStatUpdater(eventService)
	go statUpdater.Run()

	// Set up and run the background batch scheduler
	scheduler := monitoring.NewScheduler(scheduleService, predictionService, eventService)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		Hub:           hub,
		UserService:   userService,
		PredictionSvc: predictionService,
		EventService:  eventService,
		ScheduleSvc:   scheduleService,
		StatUpdater:   statUpdater,
		JWTSecret:     jwtSecret,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate JWT secret")
	}
	return []byte(hex.EncodeToString(buf))
}
