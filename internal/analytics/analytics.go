// Package analytics records login events.
package analytics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Service records an analytics event.
type Service interface {
	Track(ctx context.Context, event string)
}

// Noop discards every event.
type Noop struct{}

// Track implements Service.
func (Noop) Track(context.Context, string) {}

// LogService writes events to a zap logger.
type LogService struct {
	logger *zap.Logger
}

// NewLogService creates a LogService.
func NewLogService(logger *zap.Logger) *LogService {
	return &LogService{logger: logger.Named("analytics")}
}

// Track implements Service.
func (s *LogService) Track(_ context.Context, event string) {
	s.logger.Info("event", zap.String("event", event))
}

// MetricsService counts events in Prometheus, labelled by event name.
type MetricsService struct {
	events *prometheus.CounterVec
}

// NewMetricsService creates the counter and registers it with reg.
func NewMetricsService(reg prometheus.Registerer) (*MetricsService, error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depot_analytics_events_total",
			Help: "Total number of tracked analytics events",
		},
		[]string{"event"},
	)

	if err := reg.Register(events); err != nil {
		return nil, err
	}

	return &MetricsService{events: events}, nil
}

// Track implements Service.
func (s *MetricsService) Track(_ context.Context, event string) {
	s.events.WithLabelValues(event).Inc()
}

// Events exposes the underlying counter.
func (s *MetricsService) Events() *prometheus.CounterVec {
	return s.events
}
