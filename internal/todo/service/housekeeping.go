package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically purges todos that have sat in the trash
// longer than Retention.
type HousekeepingService struct {
	Trash     *TrashService
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. If interval is 0 or
// negative, it defaults to 1 hour.
func NewHousekeepingService(trash *TrashService, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Trash:     trash,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"trash_retention", s.Retention,
	)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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

func (s *HousekeepingService) cleanup() {
	if s.Retention <= 0 {
		return
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	ctx := context.Background()
	cutoff := now().Add(-s.Retention)

	purged, err := s.Trash.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to purge expired trash", "error", err)
		return
	}

	s.Logger.Info("housekeeping cleanup completed",
		"purged_todos", purged,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
	)
}
