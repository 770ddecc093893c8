package depot

import (
	"context"

	"github.com/xraph/go-utils/di"
)

// Container provides dependency injection with lifecycle management.
type Container interface {
	// Register adds a service factory under name.
	Register(name string, factory Factory, opts ...RegisterOption) error

	// Resolve returns a service by name.
	Resolve(name string) (any, error)

	// ResolveReady resolves a service after making sure it and its declared
	// dependencies are started.
	ResolveReady(ctx context.Context, name string) (any, error)

	// Has reports whether a service is registered.
	Has(name string) bool

	// IsStarted reports whether a service has been started.
	IsStarted(name string) bool

	// Services returns all registered service names in registration order.
	Services() []string

	// BeginScope creates a new scope for scoped services.
	BeginScope() Scope

	// Start starts every non-scoped service in dependency order.
	Start(ctx context.Context) error

	// Stop stops started services in reverse dependency order.
	Stop(ctx context.Context) error

	// Health checks all instantiated services implementing HealthChecker.
	Health(ctx context.Context) error

	// Inspect returns diagnostic information about a service.
	Inspect(name string) ServiceInfo

	// Use adds middleware to the container.
	Use(middleware Middleware)
}

// Scope represents a lifetime scope for scoped services.
// Typically used for HTTP requests or other bounded operations.
type Scope interface {
	// ID returns the unique scope identifier.
	ID() string

	// Resolve returns a service by name from this scope.
	Resolve(name string) (any, error)

	// End disposes every scoped instance created by this scope.
	End() error
}

// Factory creates a service instance.
type Factory func(c Container) (any, error)

// Service is implemented by services with a start/stop lifecycle.
type Service interface {
	di.Starter
	di.Stopper
}

// HealthChecker is implemented by services that can report their health.
type HealthChecker = di.HealthChecker

// Disposable is implemented by scoped services that hold resources.
type Disposable = di.Disposable

// ServiceInfo contains diagnostic information.
type ServiceInfo struct {
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Lifecycle    Lifecycle         `json:"lifecycle"`
	Dependencies []string          `json:"dependencies,omitempty"`
	Deps         []Dep             `json:"-"`
	Groups       []string          `json:"groups,omitempty"`
	Started      bool              `json:"started"`
	Healthy      bool              `json:"healthy"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// New creates a new DI container.
func New(opts ...Option) Container {
	return newContainerImpl(opts...)
}
