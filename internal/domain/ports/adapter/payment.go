package adapter

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
)

// PaymentIndexer is the port to the blockchain-indexing service that
// confirms stablecoin deposits.
type PaymentIndexer interface {
	// CreateDepositAddress issues a one-time deposit address and an order
	// reference identifying the expected payment.
	CreateDepositAddress(ctx context.Context, chatID int64) (address string, orderRef string, err error)
	// ConfirmedAmount returns the cumulative confirmed inbound value for the
	// invoice's deposit address since the invoice was created, in human
	// units of the settlement currency (USDT).
	ConfirmedAmount(ctx context.Context, inv *model.PaymentInvoice) (float64, error)
}
