package depot

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy defers resolving a dependency until Get is first called.
// It breaks construction cycles and postpones expensive services.
type Lazy[T any] struct {
	container Container
	name      string
	once      sync.Once
	value     T
	err       error
	resolved  atomic.Bool
}

// NewLazy creates a lazy handle for the service registered under name.
func NewLazy[T any](c Container, name string) *Lazy[T] {
	return &Lazy[T]{container: c, name: name}
}

// LazyBound creates a lazy handle for the service bound to type T.
func LazyBound[T any](c Container) *Lazy[T] {
	return NewLazy[T](c, TypeName[T]())
}

// Get resolves the dependency once and returns the cached outcome afterwards.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = Resolve[T](l.container, l.name)
		l.resolved.Store(true)
	})

	return l.value, l.err
}

// MustGet is Get that panics on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.name, err))
	}

	return value
}

// IsResolved reports whether Get has run.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Name returns the dependency name.
func (l *Lazy[T]) Name() string {
	return l.name
}

// OptionalLazy is a Lazy that yields the zero value, without error, when the
// dependency is not registered.
type OptionalLazy[T any] struct {
	Lazy[T]
	found atomic.Bool
}

// NewOptionalLazy creates an optional lazy handle for name.
func NewOptionalLazy[T any](c Container, name string) *OptionalLazy[T] {
	return &OptionalLazy[T]{Lazy: Lazy[T]{container: c, name: name}}
}

// Get resolves the dependency if it is registered.
func (l *OptionalLazy[T]) Get() (T, error) {
	l.once.Do(func() {
		defer l.resolved.Store(true)

		if !l.container.Has(l.name) {
			return
		}

		l.value, l.err = Resolve[T](l.container, l.name)
		l.found.Store(l.err == nil)
	})

	return l.value, l.err
}

// MustGet is Get that panics on resolution errors. A missing dependency
// returns the zero value.
func (l *OptionalLazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("optional lazy dependency %s failed: %v", l.name, err))
	}

	return value
}

// IsFound reports whether the dependency was found. Only meaningful after Get.
func (l *OptionalLazy[T]) IsFound() bool {
	return l.found.Load()
}

// Provider resolves its dependency on every call, which yields a fresh
// instance for transient services.
type Provider[T any] struct {
	container Container
	name      string
}

// NewProvider creates a provider for name.
func NewProvider[T any](c Container, name string) *Provider[T] {
	return &Provider[T]{container: c, name: name}
}

// Provide resolves and returns an instance.
func (p *Provider[T]) Provide() (T, error) {
	return Resolve[T](p.container, p.name)
}

// MustProvide is Provide that panics on error.
func (p *Provider[T]) MustProvide() T {
	value, err := p.Provide()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.name, err))
	}

	return value
}

// Name returns the dependency name.
func (p *Provider[T]) Name() string {
	return p.name
}
