package core

// scheduler.go runs background maintenance for the session store.
//
// Sessions are kept in memory only. The sweeper removes those that have been
// idle longer than the configured TTL. It is long-running, stops with its
// context, and never fails the application.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSessionSweeper gets a non-positive interval.
const DefaultSweepInterval = 5 * time.Minute

// StartSessionSweeper removes expired sessions every interval until ctx ends.
// It sweeps once immediately on start.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval.String(),
		"ttl", s.cfg.SessionTTL.String(),
	)

	s.runSweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Service) runSweep() {
	start := time.Now()
	removed := s.SweepExpired()
	if removed > 0 {
		slog.Info("expired sessions removed",
			"removed", removed,
			"remaining", s.SessionCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// SweepExpired deletes sessions idle for longer than the TTL and returns how
// many were removed.
func (s *Service) SweepExpired() int {
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return removed
}
