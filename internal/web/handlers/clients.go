package handlers

import (
	"context"
	"database/sql"
	"errors"

	"github.com/relaykit/quoterelay/internal/records"
	"github.com/relaykit/quoterelay/internal/shopify"
	"github.com/relaykit/quoterelay/internal/store"
)

// ErrShopNotInstalled is returned when no stored session exists for a shop.
var ErrShopNotInstalled = errors.New("app is not installed for this shop")

// ClientProvider resolves a shop domain into an authorized remote client.
// Handlers depend on this interface; tests substitute stubs.
type ClientProvider interface {
	ClientFor(ctx context.Context, shop string) (records.Client, error)
}

// SessionClientProvider builds per-shop Admin API clients from the locally
// stored offline sessions.
type SessionClientProvider struct {
	sessions store.SessionStore
	factory  *shopify.Factory
}

func NewSessionClientProvider(sessions store.SessionStore, factory *shopify.Factory) *SessionClientProvider {
	return &SessionClientProvider{sessions: sessions, factory: factory}
}

func (p *SessionClientProvider) ClientFor(ctx context.Context, shop string) (records.Client, error) {
	sess, err := p.sessions.GetShopSession(ctx, shop)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotInstalled
		}
		return nil, err
	}
	return p.factory.NewClient(sess.Shop, sess.AccessToken), nil
}
