package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

var _ repository.PaymentInvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo stores the single live payment invoice per chat. Invoices are
// ephemeral by design: the TTL caps how long the indexer is queried for a
// deposit, after which a fresh address is issued.
type InvoiceRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewInvoiceRepo(client RedisClient, ttl time.Duration) repository.PaymentInvoiceRepository {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &InvoiceRepo{client: client, ttl: ttl}
}

func (r *InvoiceRepo) invoiceKey(chatID int64) string {
	return fmt.Sprintf("invoice:%d", chatID)
}

func (r *InvoiceRepo) Put(ctx context.Context, inv *model.PaymentInvoice) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.invoiceKey(inv.ChatID), data, r.ttl)
}

func (r *InvoiceRepo) FindByChat(ctx context.Context, chatID int64) (*model.PaymentInvoice, error) {
	data, err := r.client.Get(ctx, r.invoiceKey(chatID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var inv model.PaymentInvoice
	if err := json.Unmarshal([]byte(data), &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) Remove(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, r.invoiceKey(chatID))
}
