package scheduler

import (
	"context"
	"time"

	"BauplanChecker/internal/ports"
)

// IntervalScheduler fires a job on a fixed interval using time.Ticker. Each
// job invocation runs to completion inside the goroutine before the next
// tick is consumed, so two invocations never overlap.
type IntervalScheduler struct {
	interval  time.Duration
	immediate bool
	stop      chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given tick interval.
// When immediate is set, the job also fires once right after Start.
func NewIntervalScheduler(interval time.Duration, immediate bool) *IntervalScheduler {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &IntervalScheduler{interval: interval, immediate: immediate}
}

// Start begins ticking until Stop is called or the context is cancelled.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		if s.immediate {
			job(time.Now())
		}
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
