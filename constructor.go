package depot

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// In is a marker type that should be embedded in structs to indicate
// they are parameter objects. Each exported field is resolved from the
// binding of its type.
//
// Example:
//
//	type AnalyticsParams struct {
//	    depot.In
//
//	    Config *config.Config
//	    Logger *zap.Logger `optional:"true"`
//	    Store  Store       `name:"primary"`
//	}
type In struct{}

var inType = reflect.TypeOf(In{})

// ConstructorOption configures how a constructor is registered.
type ConstructorOption func(*constructorConfig)

type constructorConfig struct {
	name    string
	options []RegisterOption
}

// WithName registers the constructor result under a qualifier, as BindNamed
// does. Use it for several constructors of the same type.
func WithName(name string) ConstructorOption {
	return func(c *constructorConfig) {
		c.name = name
	}
}

// AsSingleton makes the constructor result a singleton (default).
func AsSingleton() ConstructorOption {
	return WithRegisterOptions(Singleton())
}

// AsTransient makes the constructor run on each resolve.
func AsTransient() ConstructorOption {
	return WithRegisterOptions(Transient())
}

// AsScoped makes the constructor result live for the duration of a scope.
func AsScoped() ConstructorOption {
	return WithRegisterOptions(Scoped())
}

// AsGroup adds the constructor result to a group.
func AsGroup(group string) ConstructorOption {
	return WithRegisterOptions(WithGroup(group))
}

// WithRegisterOptions passes register options through to Register.
func WithRegisterOptions(opts ...RegisterOption) ConstructorOption {
	return func(c *constructorConfig) {
		c.options = append(c.options, opts...)
	}
}

// constructorInfo holds analyzed constructor metadata
type constructorInfo struct {
	fn     reflect.Value
	result reflect.Type
	args   []constructorArg
}

// constructorArg is one function parameter: either a single binding or an
// In struct whose fields are bindings.
type constructorArg struct {
	typ    reflect.Type
	in     bool
	params []constructorParam
}

// constructorParam is one resolved binding.
type constructorParam struct {
	dep   Dep
	field int // field index inside an In struct
}

// analyzeConstructor inspects a constructor function and extracts the
// bindings it needs and the type it provides.
func analyzeConstructor(constructor any) (*constructorInfo, error) {
	if constructor == nil {
		return nil, errors.New("constructor cannot be nil")
	}

	fn := reflect.ValueOf(constructor)
	ft := fn.Type()

	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", constructor)
	}

	if ft.IsVariadic() {
		return nil, errors.New("variadic constructors are not supported")
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if !ft.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("second result must be error, got %s", ft.Out(1))
		}
	default:
		return nil, fmt.Errorf("constructor must return (T) or (T, error), got %d results", ft.NumOut())
	}

	if ft.Out(0).Implements(errorType) {
		return nil, errors.New("constructor must return a non-error value first")
	}

	info := &constructorInfo{fn: fn, result: ft.Out(0)}

	for i := 0; i < ft.NumIn(); i++ {
		t := ft.In(i)

		if !isInStruct(t) {
			info.args = append(info.args, constructorArg{
				typ:    t,
				params: []constructorParam{{dep: Dep{Name: typeKey{typ: t}.String(), Type: t, Mode: DepEager}, field: -1}},
			})

			continue
		}

		params, err := expandInStruct(t)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}

		info.args = append(info.args, constructorArg{typ: t, in: true, params: params})
	}

	return info, nil
}

// isInStruct checks if a type embeds In
func isInStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Anonymous && f.Type == inType {
			return true
		}
	}

	return false
}

// expandInStruct turns the exported fields of an In struct into bindings.
// The name tag selects a qualified binding; optional:"true" tolerates a
// missing one.
func expandInStruct(t reflect.Type) ([]constructorParam, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var params []constructorParam

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type == inType {
			continue
		}

		if !field.IsExported() {
			return nil, fmt.Errorf("field %s must be exported", field.Name)
		}

		mode := DepEager
		if strings.EqualFold(field.Tag.Get("optional"), "true") {
			mode = DepOptional
		}

		params = append(params, constructorParam{
			dep: Dep{
				Name: typeKey{typ: field.Type, name: field.Tag.Get("name")}.String(),
				Type: field.Type,
				Mode: mode,
			},
			field: i,
		})
	}

	return params, nil
}

// deps returns every binding the constructor needs, in parameter order.
func (info *constructorInfo) deps() []Dep {
	var deps []Dep

	for _, arg := range info.args {
		for _, p := range arg.params {
			deps = append(deps, p.dep)
		}
	}

	return deps
}

// factory resolves the constructor's bindings through c and calls it.
func (info *constructorInfo) factory(c Container) (any, error) {
	in := make([]reflect.Value, len(info.args))

	for i, arg := range info.args {
		if !arg.in {
			v, err := resolveParam(c, arg.params[0])
			if err != nil {
				return nil, err
			}

			in[i] = v

			continue
		}

		structType := arg.typ
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}

		ptr := reflect.New(structType)

		for _, p := range arg.params {
			v, err := resolveParam(c, p)
			if err != nil {
				return nil, err
			}

			ptr.Elem().Field(p.field).Set(v)
		}

		if arg.typ.Kind() == reflect.Ptr {
			in[i] = ptr
		} else {
			in[i] = ptr.Elem()
		}
	}

	return call(info.fn, in)
}

// resolveParam resolves one binding as a value of its declared type.
// A missing optional binding is the zero value.
func resolveParam(c Container, p constructorParam) (reflect.Value, error) {
	if p.dep.Mode.IsOptional() && !c.Has(p.dep.Name) {
		return reflect.Zero(p.dep.Type), nil
	}

	resolved, err := c.Resolve(p.dep.Name)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to resolve dependency %s: %w", p.dep.Name, err)
	}

	if resolved != nil && !reflect.TypeOf(resolved).AssignableTo(p.dep.Type) {
		return reflect.Value{}, ErrTypeMismatch(p.dep.Name, qualifiedName(p.dep.Type), resolved)
	}

	return valueFor(resolved, p.dep.Type), nil
}

// ProvideConstructor registers a constructor function under the binding of
// its result type. Each parameter is resolved from the binding of its type,
// and parameters that embed In are filled field by field. The bindings are
// declared as dependencies, so Start orders them ahead of the result.
//
// Example:
//
//	// Resolvable with depot.Get[*login.ViewModel](c)
//	depot.ProvideConstructor(c, login.NewViewModel, depot.AsGroup("login"))
//
//	// Constructor with error and a parameter object
//	func NewAnalytics(p AnalyticsParams) (analytics.Service, error) { ... }
//	depot.ProvideConstructor(c, NewAnalytics)
func ProvideConstructor(c Container, constructor any, opts ...ConstructorOption) error {
	info, err := analyzeConstructor(constructor)
	if err != nil {
		return fmt.Errorf("invalid constructor: %w", err)
	}

	cfg := &constructorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	registerOpts := append([]RegisterOption{WithDeps(info.deps()...)}, cfg.options...)

	return c.Register(typeKey{typ: info.result, name: cfg.name}.String(), info.factory, registerOpts...)
}
