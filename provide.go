package depot

import (
	"context"
	"fmt"
	"reflect"
)

// Provide registers name with a factory function whose parameters are
// described by InjectOptions, in order. RegisterOptions may be mixed in.
// The factory returns T or (T, error); its signature is checked here, at
// registration, not when the service is first resolved.
//
// Usage:
//
//	depot.Provide[*login.ViewModel](c, "viewModel",
//	    depot.InjectBound[auth.Service](),
//	    depot.LazyInject[analytics.Service]("analytics"),
//	    func(a auth.Service, t *depot.Lazy[analytics.Service]) (*login.ViewModel, error) {
//	        ...
//	    },
//	    depot.Singleton(),
//	)
func Provide[T any](c Container, name string, args ...any) error {
	var (
		injectOpts   []InjectOption
		registerOpts []RegisterOption
		factoryFn    any
	)

	for _, arg := range args {
		switch v := arg.(type) {
		case InjectOption:
			injectOpts = append(injectOpts, v)
		case RegisterOption:
			registerOpts = append(registerOpts, v)
		default:
			if factoryFn != nil {
				return fmt.Errorf("provide %s: multiple factory functions provided", name)
			}

			factoryFn = arg
		}
	}

	if factoryFn == nil {
		return errInvalidFactory(name)
	}

	fn, err := checkFactory[T](factoryFn, injectOpts)
	if err != nil {
		return fmt.Errorf("provide %s: %w", name, err)
	}

	factory := func(container Container) (any, error) {
		in := make([]reflect.Value, len(injectOpts))

		for i, opt := range injectOpts {
			resolved, err := opt.resolve(container)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dependency %s: %w", opt.Dep.Name, err)
			}

			in[i] = valueFor(resolved, fn.Type().In(i))
		}

		return call(fn, in)
	}

	registerOpts = append(registerOpts, WithDeps(ExtractDeps(injectOpts)...))

	return c.Register(name, factory, registerOpts...)
}

// checkFactory validates the factory signature against the inject options.
func checkFactory[T any](factoryFn any, opts []InjectOption) (reflect.Value, error) {
	fn := reflect.ValueOf(factoryFn)
	ft := fn.Type()

	if ft.Kind() != reflect.Func {
		return fn, fmt.Errorf("factory must be a function, got %T", factoryFn)
	}

	if ft.NumIn() != len(opts) {
		return fn, fmt.Errorf("factory expects %d parameters, got %d dependencies", ft.NumIn(), len(opts))
	}

	for i, opt := range opts {
		if !opt.param.AssignableTo(ft.In(i)) {
			return fn, fmt.Errorf("parameter %d (%s): cannot receive %s", i, opt.Dep.Name, opt.param)
		}
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if !ft.Out(1).Implements(errorType) {
			return fn, fmt.Errorf("factory second result must be error, got %s", ft.Out(1))
		}
	default:
		return fn, fmt.Errorf("factory must return (T) or (T, error), got %d return values", ft.NumOut())
	}

	if want := typeOf[T](); !ft.Out(0).AssignableTo(want) {
		return fn, fmt.Errorf("factory returns %s, not assignable to %s", ft.Out(0), want)
	}

	return fn, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// valueFor converts a resolved dependency into a call argument of type t.
// nil (a missing optional dependency) becomes the zero value.
func valueFor(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}

	return reflect.ValueOf(v)
}

func call(fn reflect.Value, in []reflect.Value) (any, error) {
	out := fn.Call(in)

	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}

// ResolveWithDeps resolves the eager and optional deps of a service ahead of
// its construction, starting each one. Lazy deps are left for later.
func ResolveWithDeps(ctx context.Context, c Container, deps []Dep) error {
	for _, dep := range deps {
		switch dep.Mode {
		case DepEager:
			if _, err := c.ResolveReady(ctx, dep.Name); err != nil {
				return fmt.Errorf("failed to resolve eager dependency %s: %w", dep.Name, err)
			}
		case DepOptional:
			if !c.Has(dep.Name) {
				continue
			}

			if _, err := c.ResolveReady(ctx, dep.Name); err != nil {
				return fmt.Errorf("failed to resolve optional dependency %s: %w", dep.Name, err)
			}
		}
	}

	return nil
}
