package mongo

import (
	"context"
	"errors"
)

// Healthcheck returns a health check function suitable for readiness probes
// or HTTP health endpoints. It pings through the manager, so it fails with
// ErrNotConnected while the manager is not connected.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
