package jobs

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"solace/internal/database"
	"solace/internal/services"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var metricsOnce sync.Once

// testMetrics initializes the global metrics registry once per test binary;
// promauto registration is not repeatable.
func testMetrics() *services.Metrics {
	metricsOnce.Do(func() {
		services.InitMetrics()
	})
	return services.GetMetrics()
}

func newTestServices(t *testing.T) (*services.FactService, *services.HistoryService) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test_jobs.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return services.NewFactService(db), services.NewHistoryService(db)
}

func TestStoreStatsJobEmptyStore(t *testing.T) {
	m := testMetrics()
	factService, historyService := newTestServices(t)

	scheduler := NewJobScheduler()
	scheduler.Register("store_stats", NewStoreStatsJob(factService, historyService, time.Hour))

	if err := scheduler.RunNow("store_stats"); err != nil {
		t.Fatalf("Stats job failed on empty store: %v", err)
	}

	if got := testutil.ToFloat64(m.FactRows); got != 0 {
		t.Errorf("Expected fact gauge 0 on empty store, got %v", got)
	}
	if got := testutil.ToFloat64(m.HistoryRows); got != 0 {
		t.Errorf("Expected history gauge 0 on empty store, got %v", got)
	}
}

func TestStoreStatsJobCountsRows(t *testing.T) {
	m := testMetrics()
	factService, historyService := newTestServices(t)
	ctx := context.Background()

	if err := factService.SaveFact(ctx, "u1", "name", "Alex"); err != nil {
		t.Fatalf("SaveFact failed: %v", err)
	}
	if err := factService.SaveFact(ctx, "u2", "city", "Paris"); err != nil {
		t.Fatalf("SaveFact failed: %v", err)
	}
	if _, err := historyService.Append(ctx, "u1", "hello", "hi there", "neutral"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	job := NewStoreStatsJob(factService, historyService, time.Hour)
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Stats job failed: %v", err)
	}

	if got := testutil.ToFloat64(m.FactRows); got != 2 {
		t.Errorf("Expected fact gauge 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.HistoryRows); got != 1 {
		t.Errorf("Expected history gauge 1, got %v", got)
	}
}

func TestStoreStatsJobNextRunTime(t *testing.T) {
	factService, historyService := newTestServices(t)

	job := NewStoreStatsJob(factService, historyService, 15*time.Minute)

	// Before the first run the job schedules itself shortly after startup
	first := job.GetNextRunTime()
	if until := time.Until(first); until <= 0 || until > time.Minute {
		t.Errorf("Expected first run shortly after startup, got %v away", until)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Stats job failed: %v", err)
	}

	next := job.GetNextRunTime()
	if until := time.Until(next); until <= 14*time.Minute || until > 15*time.Minute {
		t.Errorf("Expected next run one interval out, got %v away", until)
	}
}

func TestSchedulerRunNowUnknownJob(t *testing.T) {
	scheduler := NewJobScheduler()

	if err := scheduler.RunNow("missing"); err != nil {
		t.Errorf("Unknown job names must be a no-op, got %v", err)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	testMetrics()
	factService, historyService := newTestServices(t)

	scheduler := NewJobScheduler()
	scheduler.Register("store_stats", NewStoreStatsJob(factService, historyService, time.Hour))

	if err := scheduler.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// Starting an already-running scheduler is a no-op
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}

	scheduler.Stop()
	// Stop is idempotent
	scheduler.Stop()
}
