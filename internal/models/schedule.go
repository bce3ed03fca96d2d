package models

import "time"

// Schedule represents a recurring batch scoring job: a CSV of feature rows
// that is re-scored on a cron cadence, with results dropped in OutputDir.
type Schedule struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CronExpression string     `json:"cronExpression"` // e.g., "0 4 * * *" for 4 AM daily
	InputPath      string     `json:"inputPath"`
	OutputDir      string     `json:"outputDir"`
	IsActive       bool       `json:"isActive"`
	LastRunAt      *time.Time `json:"lastRunAt"`
	NextRunAt      *time.Time `json:"nextRunAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}
