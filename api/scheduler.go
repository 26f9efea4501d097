/*
scheduler.go - Automated status snapshot scheduler

PURPOSE:

	Periodically recomputes every traveler and records one status snapshot per
	day, building the status history served by GET /snapshots.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips travelers whose latest snapshot was already taken today
  - Skips travelers with no qualification data (no cycles)
  - Logs every data-quality warning so dirty histories show up in the logs

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:

	scheduler := NewSnapshotScheduler(handler)
	scheduler.Start()
	// ... later
	scheduler.Stop()

SEE ALSO:
  - handlers.go: TakeSnapshot endpoint (manual snapshot)
  - history/input.go: NewSnapshot
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/logging"
	"github.com/warp/xp-tracker/qualification"
)

// RunSummary counts the outcome of one scheduler pass.
type RunSummary struct {
	Saved   int
	Skipped int
	Empty   int
	Failed  int
}

// SnapshotScheduler handles automated daily status snapshots.
type SnapshotScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	runMu   sync.Mutex
	lastRun time.Time
}

// SchedulerStatus is the scheduler state reported by /health.
type SchedulerStatus struct {
	Enabled bool       `json:"enabled"`
	Running bool       `json:"running"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// NewSnapshotScheduler creates a new scheduler and attaches it to handler so
// /health can report it.
func NewSnapshotScheduler(handler *Handler) *SnapshotScheduler {
	s := &SnapshotScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
	handler.Scheduler = s
	return s
}

// Start begins the scheduler.
func (s *SnapshotScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.Handler.Logger
	if !s.Enabled {
		logger.Info("snapshot scheduler disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run()

	logger.Info("snapshot scheduler started", "interval", s.CheckInterval.String())
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.stop = make(chan struct{})
		s.Handler.Logger.Info("snapshot scheduler stopped")
	}
}

func (s *SnapshotScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.RunNow(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow performs one pass over all travelers (for testing/admin).
func (s *SnapshotScheduler) RunNow(ctx context.Context) RunSummary {
	h := s.Handler
	now := h.Now()
	today := calendar.DateOf(now)
	var summary RunSummary

	s.runMu.Lock()
	s.lastRun = now
	s.runMu.Unlock()

	travelers, err := h.Store.ListTravelers(ctx)
	if err != nil {
		h.Logger.Error("snapshot scheduler: failed to list travelers", "error", err)
		return summary
	}

	for _, t := range travelers {
		log := h.Logger.With("traveler_id", t.ID)

		latest, err := h.Store.LatestSnapshot(ctx, t.ID)
		if err != nil {
			log.Error("snapshot scheduler: failed to load latest snapshot", "error", err)
			s.failed(&summary)
			continue
		}
		if latest != nil && latest.TakenOn.Equal(today) {
			summary.Skipped++
			continue
		}

		result, err := h.compute(ctx, t.ID, today)
		if err != nil {
			log.Error("snapshot scheduler: failed to compute", "error", err)
			s.failed(&summary)
			continue
		}
		logWarnings(log, result.Warnings)

		if len(result.Cycles) == 0 {
			summary.Empty++
			continue
		}
		if _, _, err := h.saveSnapshot(ctx, t.ID, result); err != nil {
			log.Error("snapshot scheduler: failed to save snapshot", "error", err)
			s.failed(&summary)
			continue
		}
		summary.Saved++
	}

	if summary.Saved > 0 || summary.Failed > 0 {
		h.Logger.Info("snapshot scheduler pass completed",
			"saved", summary.Saved,
			"skipped", summary.Skipped,
			"empty", summary.Empty,
			"failed", summary.Failed,
		)
	}
	return summary
}

func (s *SnapshotScheduler) failed(summary *RunSummary) {
	summary.Failed++
	if s.Handler.Metrics != nil {
		s.Handler.Metrics.SnapshotErrors.Inc()
	}
}

// GetNextRunTime returns when the next scheduled check will occur, or the
// zero time when the scheduler is not running.
func (s *SnapshotScheduler) GetNextRunTime() time.Time {
	s.mu.Lock()
	running := s.ticker != nil
	s.mu.Unlock()
	if !running {
		return time.Time{}
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.lastRun.IsZero() {
		return s.Handler.Now()
	}
	return s.lastRun.Add(s.CheckInterval)
}

// Status reports whether the scheduler runs and when it ran last and next.
func (s *SnapshotScheduler) Status() SchedulerStatus {
	st := SchedulerStatus{Enabled: s.Enabled}
	if next := s.GetNextRunTime(); !next.IsZero() {
		st.Running = true
		st.NextRun = &next
	}
	s.runMu.Lock()
	if !s.lastRun.IsZero() {
		last := s.lastRun
		st.LastRun = &last
	}
	s.runMu.Unlock()
	return st
}

func logWarnings(log logging.Logger, warnings []qualification.Warning) {
	for _, w := range warnings {
		fields := []any{"code", string(w.Code), "message", w.Message}
		if w.RecordID != "" {
			fields = append(fields, "record_id", w.RecordID)
		}
		if !w.Month.IsZero() {
			fields = append(fields, "month", w.Month.String())
		}
		log.Warn("data quality warning", fields...)
	}
}
