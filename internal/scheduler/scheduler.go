// Package scheduler runs cancellation refunds in the background: one unit of
// work per cancelled event, fed by a buffered queue and a cron sweep that
// picks up events whose run was never claimed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/metrics"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service"
)

type RefundRunner interface {
	Run(ctx context.Context, eventID string) (service.Summary, error)
}

type CancelledEvents interface {
	ListUnclaimedCancelled(ctx context.Context) ([]string, error)
}

type Config struct {
	SweepSchedule string
	QueueSize     int
	RunTimeout    time.Duration
}

type Scheduler struct {
	runner  RefundRunner
	events  CancelledEvents
	cfg     Config
	metrics *metrics.Metrics
	log     *slog.Logger

	queue   chan string
	mu      sync.Mutex
	pending map[string]struct{}

	cron *cron.Cron
	wg   sync.WaitGroup
}

func New(runner RefundRunner, events CancelledEvents, cfg Config, m *metrics.Metrics, log *slog.Logger) *Scheduler {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	return &Scheduler{
		runner:  runner,
		events:  events,
		cfg:     cfg,
		metrics: m,
		log:     log,
		queue:   make(chan string, cfg.QueueSize),
		pending: make(map[string]struct{}),
	}
}

// Enqueue schedules a refund run without blocking. It returns false when the
// queue is full; the sweep picks the event up later. An event already waiting
// is not queued twice.
func (s *Scheduler) Enqueue(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[eventID]; ok {
		return true
	}
	select {
	case s.queue <- eventID:
		s.pending[eventID] = struct{}{}
		s.metrics.RefundQueueDepth(len(s.pending))
		return true
	default:
		return false
	}
}

// Start launches the worker and the sweep. The worker stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.cfg.SweepSchedule, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule refund sweep %q: %w", s.cfg.SweepSchedule, err)
	}
	s.cron = c

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.work(ctx)
	}()

	s.Sweep(ctx)
	c.Start()
	s.log.Info("refund scheduler started",
		slog.String("schedule", s.cfg.SweepSchedule),
		slog.Int("queue_size", s.cfg.QueueSize),
	)
	return nil
}

// Stop waits for the running sweep and the current refund run to finish.
// The ctx passed to Start must be cancelled first for the worker to exit.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
}

// Sweep enqueues every cancelled event whose refund run was never claimed.
func (s *Scheduler) Sweep(ctx context.Context) {
	ids, err := s.events.ListUnclaimedCancelled(ctx)
	if err != nil {
		s.log.Error("refund sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, id := range ids {
		if !s.Enqueue(id) {
			s.log.Warn("refund queue full, sweep will retry", slog.String("event_id", id))
			return
		}
	}
}

func (s *Scheduler) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue:
			s.process(ctx, id)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, eventID string) {
	s.mu.Lock()
	delete(s.pending, eventID)
	s.metrics.RefundQueueDepth(len(s.pending))
	s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	sum, err := s.runner.Run(runCtx, eventID)
	switch {
	case errors.Is(err, service.ErrRefundRunClaimed):
		s.log.Debug("refund run already claimed", slog.String("event_id", eventID))
	case err != nil:
		s.log.Error("refund run failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
	default:
		s.log.Info("refund run finished",
			slog.String("event_id", eventID),
			slog.Int("refunded", sum.Refunded),
			slog.Int("refund_failures", sum.RefundFailures),
			slog.Int("status_only", sum.StatusOnlyCancelled),
			slog.Int("notifications_failed", sum.NotificationFailures),
		)
	}
}
