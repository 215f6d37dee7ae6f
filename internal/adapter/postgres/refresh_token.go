package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
              VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := q.Exec(ctx, query,
		record.ID, record.UserID, record.TokenHash, record.ExpiresAt, record.Revoked, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("refresh token repo: Save: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, id uuid.UUID) (*models.RefreshTokenRecord, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT id, user_id, token_hash, expires_at, revoked, created_at, last_used
              FROM refresh_tokens WHERE id = $1;`

	var record models.RefreshTokenRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.UserID, &record.TokenHash, &record.ExpiresAt,
		&record.Revoked, &record.CreatedAt, &record.LastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("refresh token repo: Get: %w", err)
	}

	return &record, nil
}

func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE refresh_tokens SET revoked = true, last_used = now() WHERE id = $1;`

	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("refresh token repo: MarkUsed: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND NOT revoked;`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("refresh token repo: RevokeAllForUser: %w", err)
	}
	return nil
}
