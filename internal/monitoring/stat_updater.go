package monitoring

import (
	"sync"
	"time"

	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	sampleInterval   = 15 * time.Second
	highCPUThreshold = 90.0
	alertCooldown    = 10 * time.Minute
)

// HostStats is a point-in-time sample of host resource usage. Long batch runs
// block a worker, so operators watch this instead of a progress bar.
type HostStats struct {
	CPUPercent  float64   `json:"cpuPercent"`
	MemPercent  float64   `json:"memPercent"`
	DiskPercent float64   `json:"diskPercent"`
	SampledAt   time.Time `json:"sampledAt"`
}

// StatUpdater periodically samples host resource usage.
type StatUpdater struct {
	eventSvc services.EventServiceProvider
	ticker   *time.Ticker
	done     chan bool

	mu           sync.RWMutex
	latest       HostStats
	lastCPUAlert time.Time
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(eventSvc services.EventServiceProvider) *StatUpdater {
	return &StatUpdater{
		eventSvc: eventSvc,
		done:     make(chan bool),
	}
}

// Run starts the periodic sampling loop.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(sampleInterval)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

// Latest returns the most recent sample.
func (su *StatUpdater) Latest() HostStats {
	su.mu.RLock()
	defer su.mu.RUnlock()
	return su.latest
}

func (su *StatUpdater) sample() {
	stats := HostStats{SampledAt: time.Now()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample CPU")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample memory")
	}

	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	} else {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample disk")
	}

	su.mu.Lock()
	su.latest = stats
	alert := stats.CPUPercent >= highCPUThreshold && time.Since(su.lastCPUAlert) > alertCooldown
	if alert {
		su.lastCPUAlert = stats.SampledAt
	}
	su.mu.Unlock()

	if alert {
		log.Warn().Float64("cpu_percent", stats.CPUPercent).Msg("StatUpdater: high CPU usage")
		su.eventSvc.CreateEvent("system.alert.cpu", "warn", "Host CPU usage is above 90%", nil)
	}
}
