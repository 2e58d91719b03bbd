package quota

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper runs MemoryStore.Sweep on a cron schedule so idle bucket
// entries do not accumulate between requests. RedisStore needs no
// sweeper; Redis expires keys itself.
type Sweeper struct {
	store    *MemoryStore
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a Sweeper for store. schedule uses standard cron
// syntax, e.g. "*/5 * * * *" for every five minutes.
func NewSweeper(store *MemoryStore, schedule string) *Sweeper {
	return &Sweeper{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "quota.sweeper"),
	}
}

// Start begins scheduled sweeping. An empty schedule disables the
// sweeper; lazy expiry on access still applies.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}
	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		removed := s.store.Sweep()
		if removed > 0 {
			s.logger.Debug("swept expired quota state", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("quota sweeper started", "schedule", s.schedule)
	return nil
}

// Stop halts scheduled sweeping and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false

	s.logger.Info("quota sweeper stopped")
}
