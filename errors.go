package depot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeInvalidFactory indicates a factory function is invalid or nil
	CodeInvalidFactory = "INVALID_FACTORY"

	// CodeInvalidName indicates an empty service name
	CodeInvalidName = "INVALID_NAME"

	// CodeInvalidLifecycle indicates an unknown lifecycle in a registration
	CodeInvalidLifecycle = "INVALID_LIFECYCLE"

	// CodeServiceAlreadyExists indicates a service is already registered
	CodeServiceAlreadyExists = "SERVICE_ALREADY_EXISTS"

	// CodeServiceNotFound indicates a service was not found in the container
	CodeServiceNotFound = "SERVICE_NOT_FOUND"

	// CodeServiceError indicates an error occurred during service operation
	CodeServiceError = "SERVICE_ERROR"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeScopeEnded indicates operation on an ended scope
	CodeScopeEnded = "SCOPE_ENDED"

	// CodeScopedOutsideScope indicates a scoped service resolved from the container
	CodeScopedOutsideScope = "SCOPED_OUTSIDE_SCOPE"

	// CodeTypeMismatch indicates a type mismatch during service resolution
	CodeTypeMismatch = "TYPE_MISMATCH"
)

// Error is the structured error returned by the container. Errors match
// under errors.Is when their codes are equal, so every constructor below
// matches its sentinel.
type Error = errs.Error

// =============================================================================
// SENTINEL ERRORS
// =============================================================================
//
// Sentinels are for errors.Is only. errs.Error.WithContext mutates its
// receiver, so context is only ever added to errors built by the
// constructors.

// ErrInvalidFactory is a sentinel error for nil or invalid factories.
var ErrInvalidFactory = errs.NewError(CodeInvalidFactory, "factory cannot be nil", nil)

// ErrInvalidName is a sentinel error for services registered without a name.
var ErrInvalidName = errs.NewError(CodeInvalidName, "service name cannot be empty", nil)

// ErrInvalidLifecycleSentinel is a sentinel error for unknown lifecycles.
var ErrInvalidLifecycleSentinel = errs.NewError(CodeInvalidLifecycle, "invalid lifecycle", nil)

// ErrServiceNotFoundSentinel is a sentinel error for service not found (for error checking).
var ErrServiceNotFoundSentinel = errs.NewError(CodeServiceNotFound, "service not found", nil)

// ErrServiceAlreadyExistsSentinel is a sentinel error for duplicate registration.
var ErrServiceAlreadyExistsSentinel = errs.NewError(CodeServiceAlreadyExists, "service already exists", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrScopeEnded is a sentinel error for operations on an ended scope.
var ErrScopeEnded = errs.NewError(CodeScopeEnded, "scope has ended", nil)

// ErrScopedOutsideScopeSentinel is a sentinel error for scoped services resolved from the container.
var ErrScopedOutsideScopeSentinel = errs.NewError(CodeScopedOutsideScope, "scoped service resolved outside a scope", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch during resolution.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrServiceAlreadyExists creates an error for when a service is already registered
func ErrServiceAlreadyExists(serviceName string) *Error {
	return errs.NewError(
		CodeServiceAlreadyExists,
		fmt.Sprintf("service '%s' already exists", serviceName),
		nil,
	).WithContext("service", serviceName).(*errs.Error)
}

// ErrServiceNotFound creates an error for when a service is not found
func ErrServiceNotFound(serviceName string) *Error {
	return errs.NewError(
		CodeServiceNotFound,
		fmt.Sprintf("service '%s' not registered", serviceName),
		nil,
	).WithContext("service", serviceName).(*errs.Error)
}

// NewServiceError creates an error for service operations
func NewServiceError(serviceName, operation string, cause error) *Error {
	return errs.NewError(
		CodeServiceError,
		fmt.Sprintf("service '%s' error during %s", serviceName, operation),
		cause,
	).WithContext("service", serviceName).
		WithContext("operation", operation).(*errs.Error)
}

// ErrCircularDependency creates an error for circular dependency detection
func ErrCircularDependency(cycle []string) *Error {
	return errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+strings.Join(cycle, " -> "),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// ErrScopedOutsideScope creates an error for a scoped service resolved from the container
func ErrScopedOutsideScope(serviceName string) *Error {
	return errs.NewError(
		CodeScopedOutsideScope,
		fmt.Sprintf("scoped service '%s' must be resolved from a scope", serviceName),
		nil,
	).WithContext("service", serviceName).(*errs.Error)
}

// ErrTypeMismatch creates an error for type mismatch during resolution
func ErrTypeMismatch(serviceName string, expected string, actual any) *Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("service '%s' type mismatch: expected %s, got %T", serviceName, expected, actual),
		nil,
	).WithContext("service", serviceName).
		WithContext("expected_type", expected).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// ErrInvalidLifecycle creates an error for a registration with an unknown lifecycle
func ErrInvalidLifecycle(serviceName, lifecycle string) *Error {
	return errs.NewError(
		CodeInvalidLifecycle,
		fmt.Sprintf("service '%s' has unknown lifecycle %q", serviceName, lifecycle),
		nil,
	).WithContext("service", serviceName).
		WithContext("lifecycle", lifecycle).(*errs.Error)
}

func errInvalidFactory(serviceName string) *Error {
	return errs.NewError(
		CodeInvalidFactory,
		fmt.Sprintf("service '%s' factory cannot be nil", serviceName),
		nil,
	).WithContext("service", serviceName).(*errs.Error)
}

func errInvalidName() *Error {
	return errs.NewError(CodeInvalidName, "service name cannot be empty", nil)
}

func errScopeEnded(scopeID string) *Error {
	return errs.NewError(
		CodeScopeEnded,
		fmt.Sprintf("scope '%s' has ended", scopeID),
		nil,
	).WithContext("scope", scopeID).(*errs.Error)
}

// IsServiceNotFound reports whether err is a service-not-found error.
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFoundSentinel)
}

// IsCircularDependency reports whether err is a circular dependency error.
func IsCircularDependency(err error) bool {
	return errors.Is(err, ErrCircularDependencySentinel)
}

// IsTypeMismatch reports whether err is a type mismatch error.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatchSentinel)
}
