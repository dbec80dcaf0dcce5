package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"comment-service/internal/clock"
	"comment-service/internal/logger"
	"comment-service/internal/metrics"
	"comment-service/internal/repository"
)

// Sweeper permanently removes comments whose soft-delete grace period has
// elapsed. It is the only path that destroys comment rows. Started on boot,
// stopped on shutdown.
type Sweeper struct {
	comments repository.CommentRepository
	clock    clock.Clock
	interval time.Duration
	window   time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool
	log      *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(comments repository.CommentRepository, clk clock.Clock, interval, window time.Duration) *Sweeper {
	return &Sweeper{
		comments: comments,
		clock:    clk,
		interval: interval,
		window:   window,
		stopChan: make(chan struct{}),
		log:      logger.WithComponent("sweeper"),
	}
}

// Start begins sweeping on the configured interval.
func (s *Sweeper) Start() {
	s.running.Store(true)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(context.Background()); err != nil {
					s.log.Error("Sweep failed", slog.String("error", err.Error()))
				}
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight run to finish.
func (s *Sweeper) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.running.Store(false)
}

// Running reports whether the sweep loop is active. Health checks use it
// to surface a retention loop that never started or was shut down.
func (s *Sweeper) Running() bool {
	return s.running.Load()
}

// RunOnce performs a single sweep and returns how many rows were purged.
// Each row's delete is individually conditioned on the purge predicate still
// holding, so a comment restored after the scan snapshot survives.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	start := s.clock.Now()
	cutoff := start.Add(-s.window)

	expired, err := s.comments.FindExpiredSoftDeleted(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, c := range expired {
		removed, err := s.comments.RemoveIfExpired(ctx, c.ID, cutoff)
		if err != nil {
			s.log.Error("Failed to purge comment",
				slog.String("comment_id", c.ID),
				slog.String("error", err.Error()))
			continue
		}
		if removed {
			purged++
		}
	}

	if purged > 0 {
		metrics.SweeperPurgedComments.Add(float64(purged))
		s.log.Info("Permanently deleted expired comments",
			slog.Int("count", purged))
	}
	metrics.SweeperRuns.Inc()

	return purged, nil
}
