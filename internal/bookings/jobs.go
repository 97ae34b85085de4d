package bookings

import (
	"context"
	"time"

	"ticketly/pkg/logger"
)

// Sweeper periodically reclaims lapsed holds. Expiry is a soft TTL: readers
// already treat lapsed holds as claimable, so the sweeper only has to keep
// the physical state from drifting, not to enforce correctness.
type Sweeper struct {
	service  Service
	interval time.Duration
	log      *logger.Logger
	done     chan struct{}
}

func NewSweeper(service Service, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The loop stops when Stop is
// called or the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.InfoWithContext(ctx, "Booking sweeper started", "interval", s.interval.String())

		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-s.done:
				s.log.InfoWithContext(ctx, "Booking sweeper stopped")
				return
			case <-ctx.Done():
				s.log.InfoWithContext(ctx, "Booking sweeper stopped")
				return
			}
		}
	}()
}

// Stop signals the sweep loop to exit.
func (s *Sweeper) Stop() {
	close(s.done)
}

func (s *Sweeper) runOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, _, err := s.service.SweepExpired(sweepCtx); err != nil {
		s.log.ErrorWithContext(ctx, "Booking sweep failed", err)
	}
}
