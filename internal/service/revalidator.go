package service

import (
	"context"
	"log/slog"
	"time"
)

// SessionRevalidator periodically rechecks every live session against
// the remote service, demoting sessions the service no longer confirms.
type SessionRevalidator struct {
	registry *SessionRegistry
	interval time.Duration
	log      *slog.Logger
}

// NewSessionRevalidator creates a revalidator over the given registry.
func NewSessionRevalidator(registry *SessionRegistry, interval time.Duration, log *slog.Logger) *SessionRevalidator {
	return &SessionRevalidator{registry: registry, interval: interval, log: log}
}

// Run revalidates on every tick until ctx is cancelled. It runs one pass
// immediately at startup so stale persisted sessions are cleared early.
func (v *SessionRevalidator) Run(ctx context.Context) {
	v.registry.RevalidateAll(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			v.log.Info("session revalidator stopped")
			return
		case <-ticker.C:
			v.registry.RevalidateAll(ctx)
		}
	}
}
