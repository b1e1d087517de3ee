package trigger

import (
	"context"
	"log"
	"time"

	tokenusecase "chat-notify-backend/internal/token/usecase"
)

// SweepScheduler drives the token sweep on a fixed in-process cadence, for
// deployments without an external scheduler publishing sweep ticks.
type SweepScheduler struct {
	sweeper  tokenusecase.SweeperUsecase
	interval time.Duration
	stopChan chan struct{}
}

// NewSweepScheduler creates a new scheduler
func NewSweepScheduler(sweeper tokenusecase.SweeperUsecase, interval time.Duration) *SweepScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SweepScheduler{
		sweeper:  sweeper,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SweepScheduler) Start() {
	log.Printf("[Scheduler] Starting token sweep scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runSweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SweepScheduler) Stop() {
	close(s.stopChan)
}

func (s *SweepScheduler) runSweep() {
	if _, err := s.sweeper.Sweep(context.Background()); err != nil {
		log.Printf("[Scheduler] Error running token sweep: %v", err)
	}
}
