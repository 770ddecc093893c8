package depot

import "fmt"

// ServiceRegistration holds configuration for a service to be registered.
type ServiceRegistration struct {
	Name    string
	Factory Factory
	Options []RegisterOption
}

// Named creates a ServiceRegistration for batch registration.
//
// Example:
//
//	depot.RegisterServices(c,
//	    depot.Named("clock", newClock),
//	    depot.Named("session", newSession, depot.Scoped()),
//	)
func Named(name string, factory Factory, opts ...RegisterOption) ServiceRegistration {
	return ServiceRegistration{Name: name, Factory: factory, Options: opts}
}

// Typed creates a ServiceRegistration from a typed factory.
func Typed[T any](name string, factory func(Container) (T, error), opts ...RegisterOption) ServiceRegistration {
	return ServiceRegistration{Name: name, Factory: wrap(factory), Options: opts}
}

// Binding creates a ServiceRegistration for the binding of type S.
func Binding[S any](factory func(Container) (S, error), opts ...RegisterOption) ServiceRegistration {
	return Typed(TypeName[S](), factory, opts...)
}

// RegisterServices registers services in order and stops at the first
// failure, reporting its position.
func RegisterServices(c Container, services ...ServiceRegistration) error {
	for i, svc := range services {
		if err := c.Register(svc.Name, svc.Factory, svc.Options...); err != nil {
			return fmt.Errorf("register services[%d] %q: %w", i, svc.Name, err)
		}
	}

	return nil
}
