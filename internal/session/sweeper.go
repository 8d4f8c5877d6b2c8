package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensei-mcp/sensei/internal/logger"
)

// Start launches the idle sweep loop in the background. It is a no-op when
// already running or when the sweep interval is unset. Stop or context
// cancellation ends the loop.
func (m *Manager) Start(ctx context.Context) {
	if m.running || m.sweepInterval <= 0 {
		return
	}
	m.running = true

	logger.G(ctx).WithFields(logrus.Fields{
		"idle_timeout":   m.idleTimeout,
		"sweep_interval": m.sweepInterval,
	}).Info("session sweeper started")

	go m.sweepLoop(ctx)
}

// Stop ends the sweep loop. Safe to call when never started.
func (m *Manager) Stop() {
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

func (m *Manager) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.G(ctx).Debug("session sweeper stopped, context cancelled")
			return
		case <-m.stopCh:
			logger.G(ctx).Debug("session sweeper stopped")
			return
		case <-ticker.C:
			m.sweep(ctx, time.Now())
		}
	}
}

// sweep reclaims every session idle past the timeout. Reclamation only
// forgets registry state; a request reusing a reclaimed id starts over
// as a brand-new session.
func (m *Manager) sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-m.idleTimeout)

	m.mu.Lock()
	var reclaimed int
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			reclaimed++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if reclaimed > 0 {
		logger.G(ctx).WithFields(logrus.Fields{
			"reclaimed": reclaimed,
			"remaining": remaining,
		}).Info("reclaimed idle sessions")
	}
	return reclaimed
}
