package discovery

import (
	"context"
	"time"
)

// StatusProvider supplies the snapshot served by the mdns discovery
// endpoint. Keys and values are opaque to the handler.
type StatusProvider interface {
	Status(ctx context.Context) map[string]any
}

// SelfStatus describes the running process only.
type SelfStatus struct {
	serviceName string
	environment string
	startedAt   time.Time
	now         func() time.Time
}

func NewSelfStatus(serviceName, environment string) *SelfStatus {
	return &SelfStatus{
		serviceName: serviceName,
		environment: environment,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

func (s *SelfStatus) Status(context.Context) map[string]any {
	return map[string]any{
		"serviceName": s.serviceName,
		"environment": s.environment,
		"active":      true,
		"startedAt":   s.startedAt.UnixMilli(),
		"uptimeMs":    s.now().Sub(s.startedAt).Milliseconds(),
	}
}

// StaticStatus serves a fixed snapshot.
type StaticStatus map[string]any

func (s StaticStatus) Status(context.Context) map[string]any {
	return s
}
