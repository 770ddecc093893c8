// Package bootstrap is the composition root of the demo. It assembles the
// login view model two ways: by calling constructors directly, and by
// binding every collaborator into a depot container keyed by type.
package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xraph/depot"
	"github.com/xraph/depot/internal/analytics"
	"github.com/xraph/depot/internal/auth"
	"github.com/xraph/depot/internal/config"
	"github.com/xraph/depot/internal/login"
)

// Group is the container group every login collaborator is registered in.
const Group = "login"

// Manual builds the view model with plain constructor injection.
func Manual(cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*login.ViewModel, error) {
	authService, err := NewAuth(cfg.Auth)
	if err != nil {
		return nil, err
	}

	analyticsService, err := NewAnalytics(cfg.Analytics, logger, reg)
	if err != nil {
		return nil, err
	}

	return login.NewViewModel(authService, analyticsService), nil
}

// Register binds the configuration, logger, metrics registry and the login
// collaborators into c.
func Register(c depot.Container, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	err := depot.RegisterServices(c,
		depot.Binding(func(depot.Container) (*config.Config, error) { return cfg, nil }),
		depot.Binding(func(depot.Container) (*zap.Logger, error) { return logger, nil }),
		depot.Binding(func(depot.Container) (prometheus.Registerer, error) { return reg, nil }),

		depot.Binding(func(c depot.Container) (auth.Service, error) {
			cfg, err := depot.Get[*config.Config](c)
			if err != nil {
				return nil, err
			}

			return NewAuth(cfg.Auth)
		},
			depot.WithDependencies(depot.TypeName[*config.Config]()),
			depot.WithGroup(Group),
			depot.WithDIMetadata("mode", cfg.Auth.Mode),
		),
	)
	if err != nil {
		return err
	}

	err = depot.ProvideConstructor(c, newAnalyticsService,
		depot.AsGroup(Group),
		depot.WithRegisterOptions(depot.WithDIMetadata("backend", cfg.Analytics.Backend)),
	)
	if err != nil {
		return fmt.Errorf("register analytics: %w", err)
	}

	if err := depot.ProvideConstructor(c, login.NewViewModel, depot.AsGroup(Group)); err != nil {
		return fmt.Errorf("register view model: %w", err)
	}

	return nil
}

// analyticsParams are the bindings the analytics backend is built from.
type analyticsParams struct {
	depot.In

	Config     *config.Config
	Logger     *zap.Logger `optional:"true"`
	Registerer prometheus.Registerer
}

func newAnalyticsService(p analyticsParams) (analytics.Service, error) {
	return NewAnalytics(p.Config.Analytics, p.Logger, p.Registerer)
}

// NewContainer creates a container with logging and metrics middleware,
// registers the login collaborators and starts it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (depot.Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := depot.New(depot.WithLogger(logger.Named("depot")))
	c.Use(depot.NewLoggingMiddleware(logger.Named("resolve")))

	metrics, err := depot.NewMetricsMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("container metrics: %w", err)
	}
	c.Use(metrics)

	if err := Register(c, cfg, logger, reg); err != nil {
		return nil, fmt.Errorf("register services: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	return c, nil
}

var sharedMu sync.Mutex

// SharedContainer registers the login collaborators in the process-wide
// depot container the first time it is called and starts it. Later calls
// reuse the existing registrations.
func SharedContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (depot.Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	c := depot.Shared()

	if !depot.Bound[*login.ViewModel](c) {
		c.Use(depot.NewLoggingMiddleware(logger.Named("resolve")))

		if err := Register(c, cfg, logger, reg); err != nil {
			return nil, fmt.Errorf("register services: %w", err)
		}
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	return c, nil
}

// ViewModel returns a view model wired according to cfg.Wiring.Mode. The
// returned container is nil in manual mode.
func ViewModel(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*login.ViewModel, depot.Container, error) {
	var (
		c   depot.Container
		err error
	)

	switch cfg.Wiring.Mode {
	case config.WiringManual:
		vm, err := Manual(cfg, logger, reg)

		return vm, nil, err
	case config.WiringShared:
		c, err = SharedContainer(ctx, cfg, logger, reg)
	default:
		c, err = NewContainer(ctx, cfg, logger, reg)
	}

	if err != nil {
		return nil, nil, err
	}

	vm, err := depot.Get[*login.ViewModel](c)
	if err != nil {
		return nil, nil, err
	}

	return vm, c, nil
}

// NewAuth builds the authentication service selected by cfg.
func NewAuth(cfg config.Auth) (auth.Service, error) {
	switch cfg.Mode {
	case config.AuthDefault, "":
		return auth.NewDefaultService(), nil
	case config.AuthStatic:
		return auth.NewStaticService(cfg.Users)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// NewAnalytics builds the analytics backend selected by cfg.
func NewAnalytics(cfg config.Analytics, logger *zap.Logger, reg prometheus.Registerer) (analytics.Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	switch cfg.Backend {
	case config.AnalyticsNoop, "":
		return analytics.Noop{}, nil
	case config.AnalyticsLog:
		return analytics.NewLogService(logger), nil
	case config.AnalyticsMetrics:
		return analytics.NewMetricsService(reg)
	default:
		return nil, fmt.Errorf("unknown analytics backend %q", cfg.Backend)
	}
}
