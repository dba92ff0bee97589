package postgres

import (
	"context"
	"database/sql"

	"github.com/relaykit/quoterelay/internal/models"
)

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// UpsertShopSession stores or refreshes the offline credential for a shop.
// Re-installs replace the previous token in place.
func (s *SessionStore) UpsertShopSession(ctx context.Context, shop, accessToken, scope string) (*models.ShopSession, error) {
	session := &models.ShopSession{
		Shop:        shop,
		AccessToken: accessToken,
		Scope:       scope,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO shop_sessions (shop, access_token, scope)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (shop) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     scope = EXCLUDED.scope,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		session.Shop, session.AccessToken, session.Scope,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionStore) GetShopSession(ctx context.Context, shop string) (*models.ShopSession, error) {
	session := &models.ShopSession{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, shop, access_token, scope, created_at, updated_at
		 FROM shop_sessions WHERE shop = $1`,
		shop,
	).Scan(&session.ID, &session.Shop, &session.AccessToken, &session.Scope, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) DeleteShopSession(ctx context.Context, shop string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM shop_sessions WHERE shop = $1`, shop)
	return err
}
