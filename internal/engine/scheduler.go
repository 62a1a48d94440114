package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// defaultExpiryMargin re-authenticates this long before the token expires.
const defaultExpiryMargin = 5 * time.Minute

// Scheduler periodically refreshes the first listing page and renews the
// session token.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
	margin time.Duration
}

// NewScheduler creates a Scheduler that starts engine operations on a
// schedule. Each job only starts an operation; results reach the engine's
// observers like any other.
func NewScheduler(
	eng *Engine,
	refreshInterval time.Duration,
	reauthInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
		margin: defaultExpiryMargin,
	}

	if _, err := c.AddFunc(
		"@every "+refreshInterval.String(),
		s.runRefresh,
	); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(
		"@every "+reauthInterval.String(),
		s.runReauth,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs
// have returned.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRefresh() {
	if !s.engine.IsAuthenticated() {
		s.log.Info("scheduled refresh skipped, not authenticated")
		if !s.engine.IsInFlight(KindAuthenticate) {
			s.engine.Authenticate()
		}
		return
	}
	if s.engine.IsInFlight(KindFetchPage) {
		s.log.Debug("scheduled refresh skipped, fetch in flight")
		return
	}

	s.log.Info("scheduled refresh starting")
	s.engine.Refresh()
}

func (s *Scheduler) runReauth() {
	if !s.engine.Session().Expired(s.margin) {
		return
	}
	if s.engine.IsInFlight(KindAuthenticate) {
		return
	}

	s.log.Info("scheduled re-authentication starting")
	s.engine.Authenticate()
}
