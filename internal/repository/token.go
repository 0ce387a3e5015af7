package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrTokenConsumed is returned when a one-time token fingerprint is already
// recorded in consumed_tokens.
var ErrTokenConsumed = errors.New("token already consumed")

// TokenRepository tracks consumption of one-time reset/verification tokens
// so a literal replay is rejected before expiry.
type TokenRepository interface {
	IsConsumed(ctx context.Context, fingerprint string) (bool, error)
}

type tokenRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTokenRepository(db *sqlx.DB, logger *zap.Logger) TokenRepository {
	return &tokenRepository{db: db, logger: logger}
}

func (r *tokenRepository) IsConsumed(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM consumed_tokens WHERE fingerprint = $1)`
	err := r.db.GetContext(ctx, &exists, query, fingerprint)
	if err != nil {
		return false, err
	}
	return exists, nil
}
