package depot

import "reflect"

// InjectOption declares one factory parameter for Provide.
type InjectOption struct {
	Dep Dep

	// param is the type the factory receives, e.g. *Lazy[T] for LazyInject.
	param   reflect.Type
	resolve func(c Container) (any, error)
}

// Inject declares an eager dependency: it is resolved before the factory runs
// and a missing service fails construction.
func Inject[T any](name string) InjectOption {
	return InjectOption{
		Dep:   Dep{Name: name, Type: typeOf[T](), Mode: DepEager},
		param: typeOf[T](),
		resolve: func(c Container) (any, error) {
			return Resolve[T](c, name)
		},
	}
}

// InjectBound is Inject for the service bound to type T.
func InjectBound[T any]() InjectOption {
	return Inject[T](TypeName[T]())
}

// LazyInject declares a dependency passed to the factory as *Lazy[T].
func LazyInject[T any](name string) InjectOption {
	return InjectOption{
		Dep:   Dep{Name: name, Type: typeOf[T](), Mode: DepLazy},
		param: typeOf[*Lazy[T]](),
		resolve: func(c Container) (any, error) {
			return NewLazy[T](detach(c), name), nil
		},
	}
}

// OptionalInject declares a dependency that is resolved eagerly when
// registered and passed as the zero value otherwise.
func OptionalInject[T any](name string) InjectOption {
	return InjectOption{
		Dep:   Dep{Name: name, Type: typeOf[T](), Mode: DepOptional},
		param: typeOf[T](),
		resolve: func(c Container) (any, error) {
			if !c.Has(name) {
				var zero T

				return zero, nil
			}

			return Resolve[T](c, name)
		},
	}
}

// LazyOptionalInject declares a dependency passed as *OptionalLazy[T].
func LazyOptionalInject[T any](name string) InjectOption {
	return InjectOption{
		Dep:   Dep{Name: name, Type: typeOf[T](), Mode: DepLazyOptional},
		param: typeOf[*OptionalLazy[T]](),
		resolve: func(c Container) (any, error) {
			return NewOptionalLazy[T](detach(c), name), nil
		},
	}
}

// ProviderInject declares a dependency passed as *Provider[T].
func ProviderInject[T any](name string) InjectOption {
	return InjectOption{
		Dep:   Dep{Name: name, Type: typeOf[T](), Mode: DepLazy},
		param: typeOf[*Provider[T]](),
		resolve: func(c Container) (any, error) {
			return NewProvider[T](detach(c), name), nil
		},
	}
}

// ExtractDeps extracts dependency specifications from inject options.
func ExtractDeps(opts []InjectOption) []Dep {
	deps := make([]Dep, len(opts))
	for i, opt := range opts {
		deps[i] = opt.Dep
	}

	return deps
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
