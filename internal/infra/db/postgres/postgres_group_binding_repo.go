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
var _ repository.GroupBindingRepository = (*groupBindingRepo)(nil)

type groupBindingRepo struct {
	pool *pgxpool.Pool
}

func NewGroupBindingRepo(pool *pgxpool.Pool) repository.GroupBindingRepository {
	return &groupBindingRepo{pool: pool}
}

// Save upserts the whole binding record. chat_id is the primary key so a
// rebind of the same chat overwrites rather than duplicates.
func (r *groupBindingRepo) Save(ctx context.Context, tx repository.Tx, b *model.GroupBinding) error {
	const q = `
INSERT INTO group_bindings (chat_id, code, expires_at, extension_count, connected, last_payment_check_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chat_id) DO UPDATE SET
  code = EXCLUDED.code,
  expires_at = EXCLUDED.expires_at,
  extension_count = EXCLUDED.extension_count,
  connected = EXCLUDED.connected,
  last_payment_check_at = EXCLUDED.last_payment_check_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ChatID, b.Code, b.ExpiresAt, b.ExtensionCount, b.Connected, b.LastPaymentCheckAt,
	)
	return err
}

func (r *groupBindingRepo) FindByChat(ctx context.Context, tx repository.Tx, chatID int64) (*model.GroupBinding, error) {
	const q = `
SELECT chat_id, code, expires_at, extension_count, connected, last_payment_check_at
  FROM group_bindings
 WHERE chat_id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, chatID)
	if err != nil {
		return nil, err
	}
	return scanBinding(row)
}

func (r *groupBindingRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) ([]*model.GroupBinding, error) {
	const q = `
SELECT chat_id, code, expires_at, extension_count, connected, last_payment_check_at
  FROM group_bindings
 WHERE code = $1
 ORDER BY chat_id;
`
	rows, err := pickRows(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBindings(rows)
}

func (r *groupBindingRepo) CountByCode(ctx context.Context, tx repository.Tx, code string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM group_bindings WHERE code = $1;`, code)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *groupBindingRepo) Remove(ctx context.Context, tx repository.Tx, chatID int64) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM group_bindings WHERE chat_id = $1;`, chatID)
	return err
}

func (r *groupBindingRepo) List(ctx context.Context, tx repository.Tx) ([]*model.GroupBinding, error) {
	const q = `
SELECT chat_id, code, expires_at, extension_count, connected, last_payment_check_at
  FROM group_bindings
 ORDER BY chat_id;
`
	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBindings(rows)
}

func scanBinding(row pgx.Row) (*model.GroupBinding, error) {
	var b model.GroupBinding
	err := row.Scan(&b.ChatID, &b.Code, &b.ExpiresAt, &b.ExtensionCount, &b.Connected, &b.LastPaymentCheckAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &b, nil
}

func collectBindings(rows pgx.Rows) ([]*model.GroupBinding, error) {
	var out []*model.GroupBinding
	for rows.Next() {
		var b model.GroupBinding
		if err := rows.Scan(&b.ChatID, &b.Code, &b.ExpiresAt, &b.ExtensionCount, &b.Connected, &b.LastPaymentCheckAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
