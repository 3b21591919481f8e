package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentwire/onboard/internal/onboard/store"
)

// HousekeepingService periodically removes long-expired onboarding links and
// section documents whose draft no longer exists, so abandoned onboardings
// do not accumulate PII at rest.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Retention is how long an expired link is kept around before deletion,
	// mostly so HR can still see recent completions in the link list.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the background cleaner. A non-positive
// interval defaults to 1 hour, a non-positive retention to 30 days.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"retention", s.Retention,
	)
}

// Stop shuts the worker down, blocking until any in-progress cleanup ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once on startup so a long-idle deployment catches up immediately.
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the deletions. Each step is independent; one failure
// does not stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-s.Retention)
	if err := s.Store.Links().DeleteExpiredLinks(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete expired links", "error", err)
	} else {
		s.Logger.Debug("deleted expired links", "cutoff", cutoff)
	}

	if err := s.Store.Sections().DeleteOrphaned(ctx); err != nil {
		s.Logger.Error("failed to delete orphaned section documents", "error", err)
	} else {
		s.Logger.Debug("deleted orphaned section documents")
	}
}
