// Package worker runs the journal's background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// PhotoLister reports the IDs of every stored photo. It must fail rather than
// return an empty set when the collection cannot be read.
type PhotoLister interface {
	PhotoIDs(ctx context.Context) (map[string]struct{}, error)
}

// FileSweeper deletes managed files whose photo ID is not in keep and which
// are older than grace.
type FileSweeper interface {
	Sweep(ctx context.Context, keep map[string]struct{}, grace time.Duration) (int, error)
}

// Sweeper periodically removes image files no photo entry points at. Such
// files are left behind when a process dies between copying an image and
// recording it, or between deleting a record and its file.
type Sweeper struct {
	photos    PhotoLister
	files     FileSweeper
	interval  time.Duration
	grace     time.Duration
	log       *slog.Logger
	scheduler *gocron.Scheduler
}

// NewSweeper constructs a Sweeper. An interval of zero or less disables the
// schedule; RunOnce still works.
func NewSweeper(photos PhotoLister, files FileSweeper, interval, grace time.Duration, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{photos: photos, files: files, interval: interval, grace: grace, log: log}
}

// Start schedules the sweep every interval, first run one interval from now.
// Runs never overlap.
func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		s.log.Info("orphan sweep disabled")
		return nil
	}

	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()

	_, err := sched.Every(s.interval).WaitForSchedule().Do(func() {
		// Bounded so a wedged store cannot stall the scheduler forever.
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("orphan sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("worker.Sweeper.Start: %w", err)
	}

	sched.StartAsync()
	s.scheduler = sched
	s.log.Info("orphan sweep scheduled", "interval", s.interval.String(), "grace", s.grace.String())
	return nil
}

// Stop halts the schedule. It is safe to call when Start never scheduled.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.scheduler = nil
	}
}

// RunOnce performs a single sweep and returns how many files were removed.
// Nothing is deleted when the photo IDs cannot be read.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	keep, err := s.photos.PhotoIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("worker.Sweeper.RunOnce: %w", err)
	}

	removed, err := s.files.Sweep(ctx, keep, s.grace)
	if err != nil {
		return removed, fmt.Errorf("worker.Sweeper.RunOnce: %w", err)
	}
	if removed > 0 {
		s.log.InfoContext(ctx, "removed orphaned photo files", "count", removed)
	}
	return removed, nil
}
