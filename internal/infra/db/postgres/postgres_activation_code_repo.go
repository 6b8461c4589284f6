package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

// uniqueViolation is the Postgres error code for a unique constraint hit.
// Insert maps it to domain.ErrAlreadyExists so the code generator can retry
// on a value collision.
const uniqueViolation = "23505"

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

func (r *activationCodeRepo) Insert(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes (code, issuer_id, privileged, revoked, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.Code, code.IssuerID, code.Privileged, code.Revoked, code.CreatedAt, code.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
UPDATE activation_codes
   SET revoked = $2, expires_at = $3
 WHERE code = $1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, code.Code, code.Revoked, code.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *activationCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	const q = `
SELECT code, issuer_id, privileged, revoked, created_at, expires_at
  FROM activation_codes
 WHERE code = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	var ac model.ActivationCode
	err = row.Scan(&ac.Code, &ac.IssuerID, &ac.Privileged, &ac.Revoked, &ac.CreatedAt, &ac.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

func (r *activationCodeRepo) CountLiveByIssuer(ctx context.Context, tx repository.Tx, issuerID int64, now time.Time) (int, error) {
	const q = `
SELECT COUNT(*)
  FROM activation_codes
 WHERE issuer_id = $1 AND NOT privileged AND NOT revoked AND expires_at >= $2;
`
	row, err := pickRow(ctx, r.pool, tx, q, issuerID, now)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
