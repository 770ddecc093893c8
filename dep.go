package depot

import "github.com/xraph/go-utils/di"

// DepMode describes how a dependency is resolved.
type DepMode = di.DepMode

const (
	// DepEager resolves the dependency immediately and fails if missing.
	DepEager = di.DepEager
	// DepLazy defers resolution until first use.
	DepLazy = di.DepLazy
	// DepOptional resolves immediately and yields nil if missing.
	DepOptional = di.DepOptional
	// DepLazyOptional defers resolution and yields nil if missing.
	DepLazyOptional = di.DepLazyOptional
)

// Dep is a dependency specification.
type Dep = di.Dep

// EagerDep returns an eager dependency on name.
func EagerDep(name string) Dep { return di.Eager(name) }

// LazyDep returns a lazy dependency on name.
func LazyDep(name string) Dep { return di.Lazy(name) }

// OptionalDep returns an optional dependency on name.
func OptionalDep(name string) Dep { return di.Optional(name) }

// LazyOptionalDep returns a lazy optional dependency on name.
func LazyOptionalDep(name string) Dep { return di.LazyOptional(name) }

// DepNames returns the names of deps.
func DepNames(deps []Dep) []string { return di.DepNames(deps) }

// DepsFromNames converts names into eager deps.
func DepsFromNames(names []string) []Dep { return di.DepsFromNames(names) }
