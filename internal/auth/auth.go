// Package auth provides the authentication services used by the login flow.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Service authenticates a username/password pair.
type Service interface {
	Authenticate(ctx context.Context, username, password string) bool
}

// DefaultService accepts every credential pair.
type DefaultService struct{}

// NewDefaultService creates a DefaultService.
func NewDefaultService() *DefaultService {
	return &DefaultService{}
}

// Authenticate implements Service.
func (*DefaultService) Authenticate(context.Context, string, string) bool {
	return true
}

// StaticService checks credentials against a fixed table of SHA-256
// password digests.
type StaticService struct {
	users map[string][]byte
}

// NewStaticService builds a StaticService from username -> hex digest pairs.
func NewStaticService(users map[string]string) (*StaticService, error) {
	s := &StaticService{users: make(map[string][]byte, len(users))}

	for name, digest := range users {
		raw, err := hex.DecodeString(digest)
		if err != nil {
			return nil, fmt.Errorf("user %q: invalid digest: %w", name, err)
		}

		if len(raw) != sha256.Size {
			return nil, fmt.Errorf("user %q: digest must be %d bytes, got %d", name, sha256.Size, len(raw))
		}

		s.users[name] = raw
	}

	return s, nil
}

// Authenticate implements Service.
func (s *StaticService) Authenticate(_ context.Context, username, password string) bool {
	want, ok := s.users[username]
	if !ok {
		return false
	}

	got := sha256.Sum256([]byte(password))

	return subtle.ConstantTimeCompare(want, got[:]) == 1
}

// Digest returns the hex SHA-256 digest of password, in the form
// NewStaticService expects.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))

	return hex.EncodeToString(sum[:])
}
