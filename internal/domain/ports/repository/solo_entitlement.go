package repository

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
)

// SoloEntitlementRepository is the port for per-account solo mode.
type SoloEntitlementRepository interface {
	Save(ctx context.Context, tx Tx, ent *model.SoloEntitlement) error
	FindByAccount(ctx context.Context, tx Tx, accountID int64) (*model.SoloEntitlement, error)
}
