package depot

import (
	"context"
	"sync"

	"github.com/segmentio/ksuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// scope implements Scope.
type scope struct {
	id        string
	parent    *containerImpl
	instances map[string]any
	started   map[string]bool
	order     []string // creation order, disposed in reverse
	mu        sync.Mutex
	ended     bool
}

// newScope creates a new scope.
func newScope(parent *containerImpl) *scope {
	return &scope{
		id:        ksuid.New().String(),
		parent:    parent,
		instances: make(map[string]any),
		started:   make(map[string]bool),
	}
}

// ID returns the unique scope identifier.
func (s *scope) ID() string {
	return s.id
}

// Resolve returns a service by name from this scope.
func (s *scope) Resolve(name string) (any, error) {
	return s.resolve(name, nil)
}

// resolve runs the parent's middleware around resolveInternal.
func (s *scope) resolve(name string, chain []string) (any, error) {
	return s.parent.middleware.resolve(context.Background(), name, func() (any, error) {
		return s.resolveInternal(name, chain)
	})
}

func (s *scope) resolveInternal(name string, chain []string) (any, error) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()

		return nil, errScopeEnded(s.id)
	}
	s.mu.Unlock()

	if cycle := cycleFrom(chain, name); cycle != nil {
		return nil, ErrCircularDependency(cycle)
	}

	s.parent.mu.RLock()
	reg, exists := s.parent.services[name]
	s.parent.mu.RUnlock()

	if !exists {
		return nil, ErrServiceNotFound(name)
	}

	ctx := context.Background()

	switch reg.lifecycle {
	case LifecycleSingleton:
		return s.parent.resolveInternal(name, chain)
	case LifecycleTransient:
		instance, err := s.parent.construct(reg, &scopeResolution{scope: s, chain: extend(chain, name)})
		if err != nil {
			return nil, err
		}

		if err := s.parent.startInstance(ctx, name, instance); err != nil {
			return nil, err
		}

		return instance, nil
	}

	s.mu.Lock()
	if instance, ok := s.instances[name]; ok {
		s.mu.Unlock()

		return instance, nil
	}
	s.mu.Unlock()

	// Constructed and started without holding s.mu so the factory can
	// resolve other scoped services through this scope.
	instance, err := s.parent.construct(reg, &scopeResolution{scope: s, chain: extend(chain, name)})
	if err != nil {
		return nil, err
	}

	if err := s.parent.startInstance(ctx, name, instance); err != nil {
		_ = dispose(instance)

		return nil, err
	}

	_, isService := instance.(Service)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.instances[name]; ok {
		// Lost a race with a concurrent resolve; keep the first instance.
		_ = release(ctx, instance, isService)

		return existing, nil
	}

	if s.ended {
		_ = release(ctx, instance, isService)

		return nil, errScopeEnded(s.id)
	}

	s.instances[name] = instance
	s.started[name] = isService
	s.order = append(s.order, name)

	return instance, nil
}

// End stops started scoped instances and disposes them, in reverse creation
// order. Every instance is attempted; failures are combined.
func (s *scope) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return errScopeEnded(s.id)
	}

	ctx := context.Background()

	var err error

	for i := len(s.order) - 1; i >= 0; i-- {
		name := s.order[i]
		instance := s.instances[name]

		if s.started[name] {
			if stopErr := instance.(Service).Stop(ctx); stopErr != nil {
				err = multierr.Append(err, NewServiceError(name, "stop", stopErr))
			}
		}

		if disposeErr := dispose(instance); disposeErr != nil {
			err = multierr.Append(err, NewServiceError(name, "dispose", disposeErr))
		}
	}

	s.instances = nil
	s.started = nil
	s.order = nil
	s.ended = true

	s.parent.logger.Debug("scope ended", zap.String("scope", s.id), zap.Error(err))

	return err
}

// release stops instance when it was started, then disposes it.
func release(ctx context.Context, instance any, started bool) error {
	var err error

	if started {
		err = instance.(Service).Stop(ctx)
	}

	return multierr.Append(err, dispose(instance))
}

// dispose calls Dispose when instance implements Disposable.
func dispose(instance any) error {
	if d, ok := instance.(Disposable); ok {
		return d.Dispose()
	}

	return nil
}

// scopeResolution is the Container view handed to factories constructed
// inside a scope, so nested resolves see the scope's instances.
type scopeResolution struct {
	*scope
	chain []string
}

var _ Container = (*scopeResolution)(nil)

// Resolve resolves name through the scope as part of the current chain.
func (r *scopeResolution) Resolve(name string) (any, error) {
	return r.scope.resolve(name, r.chain)
}

// The remaining Container methods delegate to the parent container.

func (r *scopeResolution) Register(name string, factory Factory, opts ...RegisterOption) error {
	return r.parent.Register(name, factory, opts...)
}

func (r *scopeResolution) ResolveReady(ctx context.Context, name string) (any, error) {
	return r.parent.ResolveReady(ctx, name)
}

func (r *scopeResolution) Has(name string) bool { return r.parent.Has(name) }

func (r *scopeResolution) IsStarted(name string) bool { return r.parent.IsStarted(name) }

func (r *scopeResolution) Services() []string { return r.parent.Services() }

func (r *scopeResolution) BeginScope() Scope { return r.parent.BeginScope() }

func (r *scopeResolution) Start(ctx context.Context) error { return r.parent.Start(ctx) }

func (r *scopeResolution) Stop(ctx context.Context) error { return r.parent.Stop(ctx) }

func (r *scopeResolution) Health(ctx context.Context) error { return r.parent.Health(ctx) }

func (r *scopeResolution) Inspect(name string) ServiceInfo { return r.parent.Inspect(name) }

func (r *scopeResolution) Use(middleware Middleware) { r.parent.Use(middleware) }
