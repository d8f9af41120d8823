package jobs

import (
	"context"
	"log"
	"time"

	"solace/internal/services"
)

// StoreStatsJob periodically refreshes the fact/history row-count gauges.
type StoreStatsJob struct {
	factService    *services.FactService
	historyService *services.HistoryService
	interval       time.Duration
	lastRun        time.Time
}

// NewStoreStatsJob creates a new store stats job.
// interval: how often to refresh the gauges (e.g. 15 minutes)
func NewStoreStatsJob(factService *services.FactService, historyService *services.HistoryService, interval time.Duration) *StoreStatsJob {
	return &StoreStatsJob{
		factService:    factService,
		historyService: historyService,
		interval:       interval,
	}
}

// Run counts both tables and updates the gauges.
func (j *StoreStatsJob) Run(ctx context.Context) error {
	j.lastRun = time.Now()

	facts, err := j.factService.CountFacts(ctx)
	if err != nil {
		log.Printf("❌ [STORE-STATS] Failed to count facts: %v", err)
		return err
	}

	history, err := j.historyService.CountAll(ctx)
	if err != nil {
		log.Printf("❌ [STORE-STATS] Failed to count history: %v", err)
		return err
	}

	if m := services.GetMetrics(); m != nil {
		m.SetStoreSizes(facts, history)
	}

	log.Printf("📊 [STORE-STATS] facts=%d history=%d", facts, history)
	return nil
}

// GetNextRunTime returns when this job should next execute.
func (j *StoreStatsJob) GetNextRunTime() time.Time {
	if j.lastRun.IsZero() {
		// First run shortly after startup so the gauges aren't empty
		return time.Now().Add(10 * time.Second)
	}
	return j.lastRun.Add(j.interval)
}
