package depot

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/go-utils/di"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// containerImpl implements Container.
type containerImpl struct {
	services   map[string]*serviceRegistration
	order      []string
	graph      *DependencyGraph
	middleware *middlewareChain
	logger     *zap.Logger
	started    bool
	mu         sync.RWMutex
}

// serviceRegistration holds service registration details.
type serviceRegistration struct {
	name      string
	factory   Factory
	lifecycle Lifecycle
	deps      []Dep
	groups    []string
	metadata  map[string]string
	instance  any
	built     bool // instance holds the factory result, nil included
	started   bool
	mu        sync.RWMutex
}

// newContainerImpl creates a new DI container implementation.
func newContainerImpl(opts ...Option) *containerImpl {
	c := &containerImpl{
		services:   make(map[string]*serviceRegistration),
		graph:      NewDependencyGraph(),
		middleware: newMiddlewareChain(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register adds a service factory to the container.
func (c *containerImpl) Register(name string, factory Factory, opts ...RegisterOption) error {
	merged := di.MergeOptions(opts)

	if name == "" {
		return errInvalidName()
	}

	if factory == nil {
		return errInvalidFactory(name)
	}

	lifecycle := Lifecycle(merged.Lifecycle)
	if !lifecycle.valid() {
		return ErrInvalidLifecycle(name, merged.Lifecycle)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		return ErrServiceAlreadyExists(name)
	}

	deps := allDeps(merged)

	c.services[name] = &serviceRegistration{
		name:      name,
		factory:   factory,
		lifecycle: lifecycle,
		deps:      deps,
		groups:    merged.Groups,
		metadata:  merged.Metadata,
	}
	c.order = append(c.order, name)
	c.graph.AddNodeWithDeps(name, deps)

	c.logger.Debug("service registered",
		zap.String("service", name),
		zap.String("lifecycle", merged.Lifecycle),
		zap.Strings("dependencies", DepNames(deps)),
	)

	return nil
}

// Resolve returns a service by name.
// Singleton and transient services implementing Service are started when first
// resolved, so dependencies are ready by the time a factory receives them.
func (c *containerImpl) Resolve(name string) (any, error) {
	return c.resolve(name, nil)
}

// resolve runs middleware around resolveInternal. chain holds the services
// currently under construction on this call path.
func (c *containerImpl) resolve(name string, chain []string) (any, error) {
	return c.middleware.resolve(context.Background(), name, func() (any, error) {
		return c.resolveInternal(name, chain)
	})
}

// resolveInternal performs the actual service resolution without middleware.
func (c *containerImpl) resolveInternal(name string, chain []string) (any, error) {
	if cycle := cycleFrom(chain, name); cycle != nil {
		c.logger.Warn("circular dependency", zap.Strings("cycle", cycle))

		return nil, ErrCircularDependency(cycle)
	}

	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrServiceNotFound(name)
	}

	switch reg.lifecycle {
	case LifecycleScoped:
		return nil, ErrScopedOutsideScope(name)
	case LifecycleTransient:
		instance, err := c.construct(reg, &resolution{containerImpl: c, chain: extend(chain, name)})
		if err != nil {
			return nil, err
		}

		if err := c.startInstance(context.Background(), name, instance); err != nil {
			return nil, err
		}

		return instance, nil
	}

	// Fast path: already created and started
	reg.mu.RLock()
	if reg.built && reg.started {
		instance := reg.instance
		reg.mu.RUnlock()

		return instance, nil
	}
	reg.mu.RUnlock()

	// Slow path: create and/or start instance (write lock)
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.built && reg.started {
		return reg.instance, nil
	}

	if !reg.built {
		// The factory may resolve other services; cycles back to this one are
		// caught by the chain check above before reg.mu is requested again.
		instance, err := c.construct(reg, &resolution{containerImpl: c, chain: extend(chain, name)})
		if err != nil {
			return nil, err
		}

		reg.instance = instance
		reg.built = true
	}

	if err := c.startInstance(context.Background(), name, reg.instance); err != nil {
		return nil, err
	}

	reg.started = true

	return reg.instance, nil
}

// construct calls the registration factory with the given resolver view.
func (c *containerImpl) construct(reg *serviceRegistration, via Container) (any, error) {
	instance, err := reg.factory(via)
	if err != nil {
		c.logger.Warn("service construction failed",
			zap.String("service", reg.name),
			zap.Error(err),
		)

		return nil, NewServiceError(reg.name, "resolve", err)
	}

	c.logger.Debug("service constructed",
		zap.String("service", reg.name),
		zap.String("type", fmt.Sprintf("%T", instance)),
	)

	return instance, nil
}

// startInstance starts instance if it implements Service.
func (c *containerImpl) startInstance(ctx context.Context, name string, instance any) error {
	svc, ok := instance.(Service)
	if !ok {
		return nil
	}

	startErr := c.middleware.start(ctx, name, func() error {
		return svc.Start(ctx)
	})
	if startErr != nil {
		c.logger.Error("service start failed", zap.String("service", name), zap.Error(startErr))

		return NewServiceError(name, "auto_start", startErr)
	}

	c.logger.Debug("service started", zap.String("service", name))

	return nil
}

// Use adds middleware to the container.
// Middleware is called in the order they are added.
func (c *containerImpl) Use(middleware Middleware) {
	c.middleware.add(middleware)
}

// Has checks if a service is registered.
func (c *containerImpl) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.services[name]

	return exists
}

// IsStarted checks if a service has been started.
// Returns false if service doesn't exist or hasn't been started.
func (c *containerImpl) IsStarted(name string) bool {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return false
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.started
}

// ResolveReady resolves a service, ensuring its eager dependencies are
// started first.
func (c *containerImpl) ResolveReady(ctx context.Context, name string) (any, error) {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrServiceNotFound(name)
	}

	for _, dep := range reg.deps {
		if dep.Mode.IsLazy() {
			continue
		}

		if dep.Mode.IsOptional() && !c.Has(dep.Name) {
			continue
		}

		if err := c.startService(ctx, dep.Name); err != nil {
			return nil, NewServiceError(name, "start", err)
		}
	}

	return c.Resolve(name)
}

// Services returns all registered service names in registration order.
func (c *containerImpl) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)

	return names
}

// BeginScope creates a new scope for request-scoped services.
func (c *containerImpl) BeginScope() Scope {
	s := newScope(c)
	c.logger.Debug("scope started", zap.String("scope", s.id))

	return s
}

// Start initializes all non-scoped services in dependency order.
// Services already started through Resolve are skipped.
func (c *containerImpl) Start(ctx context.Context) error {
	c.mu.Lock()

	if c.started {
		c.mu.Unlock()

		return nil
	}

	order, err := c.graph.TopologicalSortEagerOnly()
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.mu.Unlock()

	for _, name := range order {
		if err := c.startService(ctx, name); err != nil {
			c.logger.Error("container start failed, rolling back",
				zap.String("service", name),
				zap.Error(err),
			)
			_ = c.stopServices(ctx, order)

			return NewServiceError(name, "start", err)
		}
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()

	c.logger.Info("container started", zap.Int("services", len(order)))

	return nil
}

// Stop shuts down started services in reverse dependency order. Every
// service is attempted; failures are combined into the returned error.
func (c *containerImpl) Stop(ctx context.Context) error {
	c.mu.Lock()

	order, err := c.graph.TopologicalSortEagerOnly()
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.mu.Unlock()

	stopErr := c.stopServices(ctx, order)

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()

	if stopErr != nil {
		c.logger.Error("container stopped with errors", zap.Error(stopErr))

		return stopErr
	}

	c.logger.Info("container stopped")

	return nil
}

// Health checks all services.
func (c *containerImpl) Health(ctx context.Context) error {
	c.mu.RLock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.mu.RUnlock()

	for _, name := range names {
		c.mu.RLock()
		reg := c.services[name]
		c.mu.RUnlock()

		reg.mu.RLock()
		instance := reg.instance
		reg.mu.RUnlock()

		if instance == nil {
			continue
		}

		if checker, ok := instance.(HealthChecker); ok {
			if err := checker.Health(ctx); err != nil {
				return NewServiceError(name, "health", err)
			}
		}
	}

	return nil
}

// Inspect returns diagnostic information about a service.
func (c *containerImpl) Inspect(name string) ServiceInfo {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return ServiceInfo{Name: name}
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	typeName := "unknown"
	if reg.instance != nil {
		typeName = fmt.Sprintf("%T", reg.instance)
	}

	healthy := false
	if checker, ok := reg.instance.(HealthChecker); ok {
		healthy = checker.Health(context.Background()) == nil
	}

	metadata := make(map[string]string, len(reg.metadata))
	for k, v := range reg.metadata {
		metadata[k] = v
	}

	return ServiceInfo{
		Name:         name,
		Type:         typeName,
		Lifecycle:    reg.lifecycle,
		Dependencies: DepNames(reg.deps),
		Deps:         reg.deps,
		Groups:       append([]string(nil), reg.groups...),
		Started:      reg.started,
		Healthy:      healthy,
		Metadata:     metadata,
	}
}

// startService resolves (and so starts) a single service. Scoped and
// already started services are skipped.
func (c *containerImpl) startService(ctx context.Context, name string) error {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists || reg.lifecycle != LifecycleSingleton {
		return nil
	}

	reg.mu.RLock()
	started := reg.started
	reg.mu.RUnlock()

	if started {
		return nil
	}

	_, err := c.Resolve(name)

	return err
}

// stopService stops a single service.
func (c *containerImpl) stopService(ctx context.Context, name string) error {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return nil
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.started {
		return nil
	}

	if svc, ok := reg.instance.(Service); ok {
		if err := svc.Stop(ctx); err != nil {
			return NewServiceError(name, "stop", err)
		}

		c.logger.Debug("service stopped", zap.String("service", name))
	}

	reg.started = false

	return nil
}

// stopServices stops names in reverse order, collecting every failure.
func (c *containerImpl) stopServices(ctx context.Context, names []string) error {
	var err error

	for i := len(names) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.stopService(ctx, names[i]))
	}

	return err
}

// resolution is the Container view handed to factories. It remembers the
// services being constructed so that nested resolves can detect cycles.
type resolution struct {
	*containerImpl
	chain []string
}

// Resolve resolves name as part of the current construction chain.
func (r *resolution) Resolve(name string) (any, error) {
	return r.containerImpl.resolve(name, r.chain)
}

// cycleFrom returns the cycle closed by name, or nil if name is not in chain.
func cycleFrom(chain []string, name string) []string {
	for i, n := range chain {
		if n == name {
			return extend(chain[i:], name)
		}
	}

	return nil
}

// extend returns a copy of chain with name appended.
func extend(chain []string, name string) []string {
	out := make([]string, len(chain)+1)
	copy(out, chain)
	out[len(chain)] = name

	return out
}

// detach strips the construction chain from c. Deferred handles such as Lazy
// and Provider resolve after their owner is built, outside its chain.
func detach(c Container) Container {
	switch r := c.(type) {
	case *resolution:
		return r.containerImpl
	case *scopeResolution:
		return &scopeResolution{scope: r.scope}
	}

	return c
}
