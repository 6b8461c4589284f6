package model

import (
	"time"

	"telegram-translation-gate/internal/domain"
)

// PaymentInvoice is the pending deposit a chat was asked to pay. At most
// one live invoice exists per chat; issuing a new one supersedes the old.
type PaymentInvoice struct {
	ChatID         int64     `json:"chat_id"`
	OrderRef       string    `json:"order_ref"`
	DepositAddress string    `json:"deposit_address"`
	RequiredUSDT   float64   `json:"required_usdt"`
	CreatedAt      time.Time `json:"created_at"`
	// Applied is set once a confirmed payment on this invoice has been
	// turned into an extension, so repeated checks never double-count it.
	Applied bool `json:"applied"`
}

func NewPaymentInvoice(chatID int64, orderRef, depositAddress string, requiredUSDT float64) (*PaymentInvoice, error) {
	if chatID == 0 || orderRef == "" || depositAddress == "" || requiredUSDT <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &PaymentInvoice{
		ChatID:         chatID,
		OrderRef:       orderRef,
		DepositAddress: depositAddress,
		RequiredUSDT:   requiredUSDT,
		CreatedAt:      time.Now(),
	}, nil
}
