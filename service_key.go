package depot

// ServiceKey names a service and fixes its type at compile time.
//
// Example:
//
//	var SessionStoreKey = depot.NewServiceKey[*SessionStore]("sessions")
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the registry name of the key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// RegisterWithKey registers factory under key.
func RegisterWithKey[T any](c Container, key ServiceKey[T], factory func(Container) (T, error), opts ...RegisterOption) error {
	return c.Register(key.name, wrap(factory), opts...)
}

// ResolveWithKey resolves the service registered under key.
func ResolveWithKey[T any](c Container, key ServiceKey[T]) (T, error) {
	return Resolve[T](c, key.name)
}

// MustWithKey resolves the service registered under key and panics on error.
func MustWithKey[T any](c Container, key ServiceKey[T]) T {
	return Must[T](c, key.name)
}

// HasKey reports whether key is registered.
func HasKey[T any](c Container, key ServiceKey[T]) bool {
	return c.Has(key.name)
}

// InspectKey returns diagnostic information for key.
func InspectKey[T any](c Container, key ServiceKey[T]) ServiceInfo {
	return c.Inspect(key.name)
}
