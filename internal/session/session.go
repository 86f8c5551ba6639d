// Package session provides the identity context injected once at the
// application root and passed to every consumer that needs the current
// user.
package session

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no user is signed in.
var ErrUnauthenticated = errors.New("no authenticated user")

// Identity resolves the current user. Implementations may consult a
// config file, an auth provider, or a fixed test value.
type Identity interface {
	// CurrentUser returns the stable user id, or ErrUnauthenticated.
	CurrentUser(ctx context.Context) (string, error)
}

// Static is an Identity backed by a fixed user id, typically read from
// the application config at startup.
type Static struct {
	userID string
}

// NewStatic returns a Static identity. An empty id means unauthenticated.
func NewStatic(userID string) *Static {
	return &Static{userID: userID}
}

// CurrentUser implements Identity.
func (s *Static) CurrentUser(context.Context) (string, error) {
	if s.userID == "" {
		return "", ErrUnauthenticated
	}
	return s.userID, nil
}
