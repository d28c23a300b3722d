// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSchedule is how often expired sessions are purged
const SessionSchedule = "@hourly"

// SessionCleaner removes expired sessions and reports how many went away
type SessionCleaner interface {
	CleanupExpiredSessions() (int64, error)
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates a scheduler that has not been started yet
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

// AddSessionCleanup registers the expired session purge
func (s *Scheduler) AddSessionCleanup(cleaner SessionCleaner) error {
	return s.add(SessionSchedule, "session cleanup", func() {
		CleanSessions(cleaner, s.logger)
	})
}

func (s *Scheduler) add(schedule, name string, job func()) error {
	if _, err := s.cron.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

// Start runs the registered jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// CleanSessions runs one purge and logs the outcome
func CleanSessions(cleaner SessionCleaner, logger *zap.Logger) {
	removed, err := cleaner.CleanupExpiredSessions()
	if err != nil {
		logger.Error("failed to clean up expired sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("expired sessions removed", zap.Int64("count", removed))
	}
}
