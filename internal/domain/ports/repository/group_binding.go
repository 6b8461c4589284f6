package repository

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
)

// GroupBindingRepository is the port for the bindings table. There is at
// most one binding per chat; writes are whole-record upserts.
type GroupBindingRepository interface {
	Save(ctx context.Context, tx Tx, binding *model.GroupBinding) error
	FindByChat(ctx context.Context, tx Tx, chatID int64) (*model.GroupBinding, error)
	// FindByCode returns every binding (connected or not) referencing code.
	FindByCode(ctx context.Context, tx Tx, code string) ([]*model.GroupBinding, error)
	// CountByCode counts bindings with any history on the code; rebinding the
	// same chat does not add a second row, so this backs the group quota.
	CountByCode(ctx context.Context, tx Tx, code string) (int, error)
	// Remove purges the binding entirely (administrative use only; normal
	// disconnects keep the row to preserve the extension counter).
	Remove(ctx context.Context, tx Tx, chatID int64) error
	List(ctx context.Context, tx Tx) ([]*model.GroupBinding, error)
}
