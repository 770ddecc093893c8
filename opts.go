package depot

import (
	"github.com/xraph/go-utils/di"
	"go.uber.org/zap"
)

// Lifecycle controls how long a resolved instance lives.
type Lifecycle string

const (
	// LifecycleSingleton instances are created once per container.
	LifecycleSingleton Lifecycle = "singleton"
	// LifecycleTransient instances are created on every resolve.
	LifecycleTransient Lifecycle = "transient"
	// LifecycleScoped instances are created once per scope.
	LifecycleScoped Lifecycle = "scoped"
)

// RegisterOption is a configuration option for service registration.
// Its Lifecycle field holds one of the Lifecycle values as a string.
type RegisterOption = di.RegisterOption

// Singleton makes the service a singleton (default).
func Singleton() RegisterOption { return di.Singleton() }

// Transient makes the service created on each resolve.
func Transient() RegisterOption { return di.Transient() }

// Scoped makes the service live for the duration of a scope.
func Scoped() RegisterOption { return di.Scoped() }

// WithDependencies declares explicit eager dependencies by name.
func WithDependencies(deps ...string) RegisterOption { return di.WithDependencies(deps...) }

// WithDeps declares dependencies with their resolution modes.
func WithDeps(deps ...Dep) RegisterOption { return di.WithDeps(deps...) }

// WithDIMetadata adds diagnostic metadata to DI service registration.
func WithDIMetadata(key, value string) RegisterOption { return di.WithDIMetadata(key, value) }

// WithGroup adds service to a named group.
func WithGroup(group string) RegisterOption { return di.WithGroup(group) }

// valid reports whether l is a known lifecycle.
func (l Lifecycle) valid() bool {
	switch l {
	case LifecycleSingleton, LifecycleTransient, LifecycleScoped:
		return true
	}

	return false
}

// allDeps returns the Dep specs of o followed by its plain dependency names
// as eager deps. Duplicate names keep their first occurrence.
func allDeps(o RegisterOption) []Dep {
	deps := o.GetAllDeps()
	seen := make(map[string]bool, len(deps))
	all := deps[:0]

	for _, dep := range deps {
		if seen[dep.Name] {
			continue
		}

		seen[dep.Name] = true
		all = append(all, dep)
	}

	return all
}

// Option configures a container.
type Option func(*containerImpl)

// WithLogger sets the logger used for container diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *containerImpl) {
		if logger != nil {
			c.logger = logger
		}
	}
}
