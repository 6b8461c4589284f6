package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.SoloEntitlementRepository = (*soloEntitlementRepo)(nil)

type soloEntitlementRepo struct {
	pool *pgxpool.Pool
}

func NewSoloEntitlementRepo(pool *pgxpool.Pool) repository.SoloEntitlementRepository {
	return &soloEntitlementRepo{pool: pool}
}

func (r *soloEntitlementRepo) Save(ctx context.Context, tx repository.Tx, s *model.SoloEntitlement) error {
	const q = `
INSERT INTO solo_entitlements (account_id, expires_at, extension_count)
VALUES ($1, $2, $3)
ON CONFLICT (account_id) DO UPDATE SET
  expires_at = EXCLUDED.expires_at,
  extension_count = EXCLUDED.extension_count;
`
	_, err := execSQL(ctx, r.pool, tx, q, s.AccountID, s.ExpiresAt, s.ExtensionCount)
	return err
}

func (r *soloEntitlementRepo) FindByAccount(ctx context.Context, tx repository.Tx, accountID int64) (*model.SoloEntitlement, error) {
	const q = `
SELECT account_id, expires_at, extension_count
  FROM solo_entitlements
 WHERE account_id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return nil, err
	}

	var s model.SoloEntitlement
	err = row.Scan(&s.AccountID, &s.ExpiresAt, &s.ExtensionCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}
