package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rcampos/diapredict-be/internal/models"
	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler checks for and executes due batch scoring schedules.
type Scheduler struct {
	scheduleSvc   services.ScheduleServiceProvider
	predictionSvc services.PredictionServiceProvider
	eventSvc      services.EventServiceProvider
	ticker        *time.Ticker
	done          chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(scheduleSvc services.ScheduleServiceProvider, predictionSvc services.PredictionServiceProvider, eventSvc services.EventServiceProvider) *Scheduler {
	return &Scheduler{
		scheduleSvc:   scheduleSvc,
		predictionSvc: predictionSvc,
		eventSvc:      eventSvc,
		done:          make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background batch scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndRunSchedules()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background batch scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndRunSchedules()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndRunSchedules queries for due schedules and executes them.
func (s *Scheduler) checkAndRunSchedules() {
	schedules, err := s.scheduleSvc.GetAllActiveSchedules()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to retrieve active schedules")
		return
	}

	for _, schedule := range schedules {
		cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: invalid cron expression")
			continue
		}

		now := time.Now()
		// If NextRunAt is in the past, it's time to run
		if schedule.NextRunAt != nil && now.After(*schedule.NextRunAt) {
			go s.executeBatch(schedule)

			lastRun := now
			nextRun := cronSchedule.Next(now)
			if err := s.scheduleSvc.UpdateScheduleRunTimes(schedule.ID, lastRun, nextRun); err != nil {
				log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: failed to update run times")
			}
		}
	}
}

// executeBatch scores the schedule's input file into a timestamped output file.
func (s *Scheduler) executeBatch(schedule models.Schedule) {
	log.Info().Str("schedule", schedule.Name).Str("input", schedule.InputPath).Msg("Scheduler: running batch schedule")

	if err := os.MkdirAll(schedule.OutputDir, 0755); err != nil {
		s.reportFailure(schedule, err)
		return
	}

	outputPath := filepath.Join(schedule.OutputDir,
		fmt.Sprintf("%s-%s.csv", schedule.Name, time.Now().Format("20060102-150405")))

	summary, err := s.predictionSvc.RunBatch(schedule.InputPath, outputPath)
	if err != nil {
		s.reportFailure(schedule, err)
		return
	}

	msg := fmt.Sprintf("Scheduled batch '%s' scored %d rows into %s", schedule.Name, summary.Rows, summary.OutputPath)
	s.eventSvc.CreateEvent("schedule.execute.success", "info", msg, &schedule.ID)
}

func (s *Scheduler) reportFailure(schedule models.Schedule, err error) {
	log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: batch schedule failed")
	msg := fmt.Sprintf("Scheduled batch '%s' failed: %v", schedule.Name, err)
	s.eventSvc.CreateEvent("schedule.execute.fail", "error", msg, &schedule.ID)
}
