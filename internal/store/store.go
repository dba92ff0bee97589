package store

import (
	"context"

	"github.com/relaykit/quoterelay/internal/models"
)

// SessionStore persists per-shop offline credentials. It is the only local
// state; everything else lives in the shop's remote record space.
type SessionStore interface {
	UpsertShopSession(ctx context.Context, shop, accessToken, scope string) (*models.ShopSession, error)
	GetShopSession(ctx context.Context, shop string) (*models.ShopSession, error)
	DeleteShopSession(ctx context.Context, shop string) error
}
