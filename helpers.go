package depot

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Resolve with type safety.
func Resolve[T any](c Container, name string) (T, error) {
	instance, err := c.Resolve(name)
	if err != nil {
		var zero T

		return zero, err
	}

	return assertType[T](name, instance)
}

// Must resolves or panics - use only during startup.
func Must[T any](c Container, name string) T {
	instance, err := Resolve[T](c, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", name, err))
	}

	return instance
}

// ResolveReady resolves a service with type safety, ensuring its
// dependencies are started first.
func ResolveReady[T any](ctx context.Context, c Container, name string) (T, error) {
	instance, err := c.ResolveReady(ctx, name)
	if err != nil {
		var zero T

		return zero, err
	}

	return assertType[T](name, instance)
}

// MustResolveReady resolves or panics, ensuring the service is started first.
// Use only during startup/registration phase.
func MustResolveReady[T any](ctx context.Context, c Container, name string) T {
	instance, err := ResolveReady[T](ctx, c, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve ready %s: %v", name, err))
	}

	return instance
}

// RegisterSingleton is a convenience wrapper for singleton services.
func RegisterSingleton[T any](c Container, name string, factory func(Container) (T, error)) error {
	return c.Register(name, wrap(factory), Singleton())
}

// RegisterTransient is a convenience wrapper for transient services.
func RegisterTransient[T any](c Container, name string, factory func(Container) (T, error)) error {
	return c.Register(name, wrap(factory), Transient())
}

// RegisterScoped is a convenience wrapper for request-scoped services.
func RegisterScoped[T any](c Container, name string, factory func(Container) (T, error)) error {
	return c.Register(name, wrap(factory), Scoped())
}

// RegisterInterface registers an implementation T to be resolved as I.
// Registration fails if T does not implement I.
func RegisterInterface[I, T any](c Container, name string, factory func(Container) (T, error), opts ...RegisterOption) error {
	if !implements[I, T]() {
		var impl T

		return ErrTypeMismatch(name, TypeName[I](), impl)
	}

	return c.Register(name, func(c Container) (any, error) {
		impl, err := factory(c)
		if err != nil {
			return nil, err
		}

		return any(impl), nil
	}, opts...)
}

// RegisterValue registers a pre-built instance (always singleton).
func RegisterValue[T any](c Container, name string, instance T) error {
	return c.Register(name, func(Container) (any, error) {
		return instance, nil
	}, Singleton())
}

// RegisterSingletonInterface is a convenience wrapper.
func RegisterSingletonInterface[I, T any](c Container, name string, factory func(Container) (T, error)) error {
	return RegisterInterface[I, T](c, name, factory, Singleton())
}

// RegisterScopedInterface is a convenience wrapper.
func RegisterScopedInterface[I, T any](c Container, name string, factory func(Container) (T, error)) error {
	return RegisterInterface[I, T](c, name, factory, Scoped())
}

// RegisterTransientInterface is a convenience wrapper.
func RegisterTransientInterface[I, T any](c Container, name string, factory func(Container) (T, error)) error {
	return RegisterInterface[I, T](c, name, factory, Transient())
}

// ResolveScope is a helper for resolving from a scope.
func ResolveScope[T any](s Scope, name string) (T, error) {
	instance, err := s.Resolve(name)
	if err != nil {
		var zero T

		return zero, err
	}

	return assertType[T](name, instance)
}

// MustScope resolves from scope or panics.
func MustScope[T any](s Scope, name string) T {
	instance, err := ResolveScope[T](s, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s from scope: %v", name, err))
	}

	return instance
}

// GetLogger resolves the *zap.Logger bound with BindValue, falling back to
// a no-op logger when none is bound.
func GetLogger(c Container) (*zap.Logger, error) {
	if !Bound[*zap.Logger](c) {
		return zap.NewNop(), nil
	}

	return Get[*zap.Logger](c)
}

func wrap[T any](factory func(Container) (T, error)) Factory {
	return func(c Container) (any, error) {
		return factory(c)
	}
}

// assertType converts instance to T. A nil instance is the zero T when T
// can hold nil, as when a factory or BindValue supplied a nil interface.
func assertType[T any](name string, instance any) (T, error) {
	var zero T

	if instance == nil && nilable(typeOf[T]()) {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(name, TypeName[T](), instance)
	}

	return typed, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}

	return false
}
