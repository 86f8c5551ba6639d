// Package client is the typed data-access layer over the store. It
// owns the composite write patterns (task+labels, template+children,
// template expansion) and checks the current identity before every
// operation that needs an owner.
package client

import (
	"context"

	"github.com/mtran/planhub/internal/session"
	"github.com/mtran/planhub/internal/store"
)

// Client translates typed intents into store calls. Errors from the
// store are surfaced unchanged inside RemoteError; there are no
// retries and no backoff.
type Client struct {
	store    store.Store
	identity session.Identity
}

// New creates a client over the given store and identity.
func New(s store.Store, id session.Identity) *Client {
	return &Client{store: s, identity: id}
}

// Store exposes the underlying store, mainly for feed subscriptions.
func (c *Client) Store() store.Store {
	return c.store
}

// requireUser resolves the current user or fails fast with
// ErrAuthRequired.
func (c *Client) requireUser(ctx context.Context) (string, error) {
	userID, err := c.identity.CurrentUser(ctx)
	if err != nil {
		return "", ErrAuthRequired
	}
	return userID, nil
}
