package depot

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every resolution and start through a zap logger.
type LoggingMiddleware struct {
	logger *zap.Logger
	clock  func() time.Time

	mu      sync.Mutex
	pending map[string][]time.Time
}

// NewLoggingMiddleware creates a middleware that logs to logger.
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LoggingMiddleware{
		logger:  logger,
		clock:   time.Now,
		pending: make(map[string][]time.Time),
	}
}

// BeforeResolve implements Middleware.
func (m *LoggingMiddleware) BeforeResolve(_ context.Context, name string) error {
	m.mu.Lock()
	m.pending[name] = append(m.pending[name], m.clock())
	m.mu.Unlock()

	return nil
}

// AfterResolve implements Middleware.
func (m *LoggingMiddleware) AfterResolve(_ context.Context, name string, _ any, err error) error {
	elapsed := m.elapsed(name)

	if err != nil {
		m.logger.Warn("resolve failed",
			zap.String("service", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)

		return nil
	}

	m.logger.Debug("resolved", zap.String("service", name), zap.Duration("elapsed", elapsed))

	return nil
}

// BeforeStart implements Middleware.
func (m *LoggingMiddleware) BeforeStart(_ context.Context, name string) error {
	m.logger.Debug("starting service", zap.String("service", name))

	return nil
}

// AfterStart implements Middleware.
func (m *LoggingMiddleware) AfterStart(_ context.Context, name string, err error) error {
	if err != nil {
		m.logger.Error("service failed to start", zap.String("service", name), zap.Error(err))
	}

	return nil
}

// elapsed pops the most recent BeforeResolve timestamp for name.
// Nested resolves of the same name unwind in LIFO order.
func (m *LoggingMiddleware) elapsed(name string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	stack := m.pending[name]
	if len(stack) == 0 {
		return 0
	}

	started := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(m.pending, name)
	} else {
		m.pending[name] = stack[:len(stack)-1]
	}

	return m.clock().Sub(started)
}

// MetricsMiddleware counts resolutions and starts in Prometheus.
type MetricsMiddleware struct {
	resolves *prometheus.CounterVec
	starts   *prometheus.CounterVec
}

// NewMetricsMiddleware creates the collectors and registers them with reg.
func NewMetricsMiddleware(reg prometheus.Registerer) (*MetricsMiddleware, error) {
	m := &MetricsMiddleware{
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depot_resolves_total",
				Help: "Total number of service resolutions",
			},
			[]string{"service", "status"},
		),
		starts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depot_service_starts_total",
				Help: "Total number of service starts",
			},
			[]string{"service", "status"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.resolves, m.starts} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Resolves exposes the resolve counter.
func (m *MetricsMiddleware) Resolves() *prometheus.CounterVec { return m.resolves }

// Starts exposes the start counter.
func (m *MetricsMiddleware) Starts() *prometheus.CounterVec { return m.starts }

// BeforeResolve implements Middleware.
func (m *MetricsMiddleware) BeforeResolve(context.Context, string) error { return nil }

// AfterResolve implements Middleware.
func (m *MetricsMiddleware) AfterResolve(_ context.Context, name string, _ any, err error) error {
	m.resolves.WithLabelValues(name, status(err)).Inc()

	return nil
}

// BeforeStart implements Middleware.
func (m *MetricsMiddleware) BeforeStart(context.Context, string) error { return nil }

// AfterStart implements Middleware.
func (m *MetricsMiddleware) AfterStart(_ context.Context, name string, err error) error {
	m.starts.WithLabelValues(name, status(err)).Inc()

	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}
