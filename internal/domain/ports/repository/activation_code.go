package repository

import (
	"context"
	"time"

	"telegram-translation-gate/internal/domain/model"
)

// ActivationCodeRepository is the port for the codes table.
type ActivationCodeRepository interface {
	// Insert creates a new code. A code value that already exists returns
	// domain.ErrAlreadyExists so the issuer can retry with a freshly
	// generated value.
	Insert(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// Save updates an existing code (revocation, expiry changes).
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)
	// CountLiveByIssuer counts non-privileged, non-revoked, unexpired codes
	// created by issuerID. Backs the free-tier quota check.
	CountLiveByIssuer(ctx context.Context, tx Tx, issuerID int64, now time.Time) (int, error)
}
