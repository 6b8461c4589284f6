package repository

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
)

// PaymentInvoiceRepository stores the single live invoice per chat.
// Invoices are ephemeral: a Put replaces whatever invoice the chat had.
type PaymentInvoiceRepository interface {
	Put(ctx context.Context, inv *model.PaymentInvoice) error
	FindByChat(ctx context.Context, chatID int64) (*model.PaymentInvoice, error)
	Remove(ctx context.Context, chatID int64) error
}
