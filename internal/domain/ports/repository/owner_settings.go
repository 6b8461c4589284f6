package repository

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
)

// OwnerSettingsRepository persists the owner identity and control chat.
type OwnerSettingsRepository interface {
	Get(ctx context.Context) (*model.OwnerSettings, error)
	Put(ctx context.Context, settings *model.OwnerSettings) error
}
