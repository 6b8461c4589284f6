package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

var _ repository.OwnerSettingsRepository = (*OwnerRepo)(nil)

// ownerKey is a singleton record: the bot has exactly one owner.
const ownerKey = "owner_settings"

// OwnerRepo persists the owner identity and control chat in Redis with no
// expiry.
type OwnerRepo struct {
	client RedisClient
}

func NewOwnerRepo(client RedisClient) repository.OwnerSettingsRepository {
	return &OwnerRepo{client: client}
}

func (r *OwnerRepo) Get(ctx context.Context) (*model.OwnerSettings, error) {
	data, err := r.client.Get(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var settings model.OwnerSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *OwnerRepo) Put(ctx context.Context, settings *model.OwnerSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ownerKey, data, 0)
}
