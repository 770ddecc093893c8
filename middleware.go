package depot

import (
	"context"
	"sync"
)

// Middleware intercepts container operations. Typical uses are logging,
// metrics, access control and test doubles.
type Middleware interface {
	// BeforeResolve runs before a service is resolved. An error aborts
	// the resolution.
	BeforeResolve(ctx context.Context, name string) error

	// AfterResolve runs after every resolution attempt this middleware's
	// BeforeResolve saw, failed and rejected ones included.
	AfterResolve(ctx context.Context, name string, service any, err error) error

	// BeforeStart runs before a service's Start. An error aborts the start.
	BeforeStart(ctx context.Context, name string) error

	// AfterStart runs after every Start attempt this middleware's
	// BeforeStart saw.
	AfterStart(ctx context.Context, name string, err error) error
}

// middlewareChain runs middleware in registration order. It may be extended
// while resolutions are in flight.
type middlewareChain struct {
	mu         sync.RWMutex
	middleware []Middleware
}

func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{}
}

func (m *middlewareChain) add(mw Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.middleware = append(m.middleware, mw)
}

func (m *middlewareChain) snapshot() []Middleware {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.middleware
}

// resolve wraps fn in the resolve hooks. BeforeResolve runs in order until
// one fails; that error rejects the resolution and fn is skipped. AfterResolve
// then runs for every middleware whose BeforeResolve ran, rejecting one
// included, with the outcome of the attempt. The first AfterResolve error
// replaces a successful result.
func (m *middlewareChain) resolve(ctx context.Context, name string, fn func() (any, error)) (any, error) {
	mws := m.snapshot()
	ran, err := before(mws, func(mw Middleware) error { return mw.BeforeResolve(ctx, name) })

	var service any
	if err == nil {
		service, err = fn()
	}

	var mwErr error
	for _, mw := range mws[:ran] {
		if e := mw.AfterResolve(ctx, name, service, err); e != nil && mwErr == nil {
			mwErr = e
		}
	}

	if err != nil {
		return nil, err
	}

	if mwErr != nil {
		return nil, mwErr
	}

	return service, nil
}

// start wraps fn in the start hooks the same way resolve does.
func (m *middlewareChain) start(ctx context.Context, name string, fn func() error) error {
	mws := m.snapshot()
	ran, err := before(mws, func(mw Middleware) error { return mw.BeforeStart(ctx, name) })

	if err == nil {
		err = fn()
	}

	var mwErr error
	for _, mw := range mws[:ran] {
		if e := mw.AfterStart(ctx, name, err); e != nil && mwErr == nil {
			mwErr = e
		}
	}

	if err != nil {
		return err
	}

	return mwErr
}

// before calls hook for each middleware until one fails. It returns how many
// middleware ran, the failing one included.
func before(mws []Middleware, hook func(Middleware) error) (int, error) {
	for i, mw := range mws {
		if err := hook(mw); err != nil {
			return i + 1, err
		}
	}

	return len(mws), nil
}

// FuncMiddleware adapts plain functions to Middleware. Nil hooks are no-ops.
type FuncMiddleware struct {
	BeforeResolveFunc func(ctx context.Context, name string) error
	AfterResolveFunc  func(ctx context.Context, name string, service any, err error) error
	BeforeStartFunc   func(ctx context.Context, name string) error
	AfterStartFunc    func(ctx context.Context, name string, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(ctx context.Context, name string) error {
	if f.BeforeResolveFunc == nil {
		return nil
	}

	return f.BeforeResolveFunc(ctx, name)
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(ctx context.Context, name string, service any, err error) error {
	if f.AfterResolveFunc == nil {
		return nil
	}

	return f.AfterResolveFunc(ctx, name, service, err)
}

// BeforeStart implements Middleware.
func (f *FuncMiddleware) BeforeStart(ctx context.Context, name string) error {
	if f.BeforeStartFunc == nil {
		return nil
	}

	return f.BeforeStartFunc(ctx, name)
}

// AfterStart implements Middleware.
func (f *FuncMiddleware) AfterStart(ctx context.Context, name string, err error) error {
	if f.AfterStartFunc == nil {
		return nil
	}

	return f.AfterStartFunc(ctx, name, err)
}
