package depot

import (
	"fmt"
	"reflect"
)

// typeKey identifies a service by its Go type and an optional qualifier.
// Its String form is the name the service is registered under, so type-keyed
// services share the container's registry, graph and lifecycle handling.
type typeKey struct {
	typ  reflect.Type
	name string // Empty for the default binding, or "primary", "readonly" etc.
}

// String returns the registry name for the key.
func (k typeKey) String() string {
	typeName := qualifiedName(k.typ)
	if k.name == "" {
		return typeName
	}

	return fmt.Sprintf("%s[name=%s]", typeName, k.name)
}

func keyOf[S any](name string) typeKey {
	return typeKey{typ: reflect.TypeOf((*S)(nil)).Elem(), name: name}
}

// TypeName returns the registry name used for type S, e.g.
// "github.com/acme/app/internal/auth.Service" or "*github.com/acme/app/internal/login.ViewModel".
func TypeName[S any]() string {
	return keyOf[S]("").String()
}

// qualifiedName renders t with full package paths so that equally named
// types from different packages do not collide.
func qualifiedName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), qualifiedName(t.Elem()))
	case reflect.Map:
		return "map[" + qualifiedName(t.Key()) + "]" + qualifiedName(t.Elem())
	default:
		return t.String()
	}
}

// Bind registers a resolver for type S. S is usually an interface, letting
// callers depend on a contract while the resolver picks the implementation.
//
// Example:
//
//	depot.Bind[auth.Service](c, func(depot.Container) (auth.Service, error) {
//	    return auth.NewDefaultService(), nil
//	})
func Bind[S any](c Container, resolver func(Container) (S, error), opts ...RegisterOption) error {
	return BindNamed[S](c, "", resolver, opts...)
}

// BindNamed is Bind with a qualifier, for several bindings of the same type.
func BindNamed[S any](c Container, name string, resolver func(Container) (S, error), opts ...RegisterOption) error {
	if resolver == nil {
		return errInvalidFactory(keyOf[S](name).String())
	}

	return c.Register(keyOf[S](name).String(), wrap(resolver), opts...)
}

// BindValue binds an existing instance to type S as a singleton.
func BindValue[S any](c Container, value S) error {
	return RegisterValue(c, TypeName[S](), value)
}

// Get resolves the service bound to type S.
// It returns a CodeServiceNotFound error if S was never bound.
func Get[S any](c Container) (S, error) {
	return GetNamed[S](c, "")
}

// GetNamed resolves the service bound to type S under name.
func GetNamed[S any](c Container, name string) (S, error) {
	return Resolve[S](c, keyOf[S](name).String())
}

// MustGet resolves the service bound to type S or panics.
func MustGet[S any](c Container) S {
	return Must[S](c, TypeName[S]())
}

// GetScoped resolves the service bound to type S through a scope.
func GetScoped[S any](s Scope) (S, error) {
	return ResolveScope[S](s, TypeName[S]())
}

// Bound reports whether type S has a binding.
func Bound[S any](c Container) bool {
	return c.Has(TypeName[S]())
}

// implements reports whether T can be used where I is expected.
func implements[I, T any]() bool {
	it := reflect.TypeOf((*I)(nil)).Elem()
	tt := reflect.TypeOf((*T)(nil)).Elem()

	if it.Kind() == reflect.Interface {
		return tt.Implements(it)
	}

	return tt.AssignableTo(it)
}
