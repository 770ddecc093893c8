// Package login holds the login view model, the piece of UI state that the
// demo wires either by hand or through the container.
package login

import (
	"context"

	"github.com/segmentio/ksuid"

	"github.com/xraph/depot/internal/analytics"
	"github.com/xraph/depot/internal/auth"
)

// Analytics events tracked by Login.
const (
	EventSuccess = "login_success"
	EventFailed  = "login_failed"
)

// Messages reported by Login.
const (
	MessageSuccess = "Login Success"
	MessageFailed  = "Login Failed"
)

// Result is the outcome of a login attempt.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ViewModel authenticates users and reports the outcome.
type ViewModel struct {
	auth      auth.Service
	analytics analytics.Service
}

// NewViewModel creates a ViewModel from its collaborators.
func NewViewModel(authService auth.Service, analyticsService analytics.Service) *ViewModel {
	return &ViewModel{auth: authService, analytics: analyticsService}
}

// Login authenticates username and password. A successful login gets a new
// session ID.
func (vm *ViewModel) Login(ctx context.Context, username, password string) Result {
	if !vm.auth.Authenticate(ctx, username, password) {
		vm.analytics.Track(ctx, EventFailed)

		return Result{Message: MessageFailed}
	}

	vm.analytics.Track(ctx, EventSuccess)

	return Result{
		Success:   true,
		Message:   MessageSuccess,
		SessionID: ksuid.New().String(),
	}
}
