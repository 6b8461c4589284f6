package application

import (
	"context"

	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/usecase"
)

// ---- small interfaces to decouple the facade from concrete usecase structs ----
// These describe the minimal surface that the facade needs. Using interfaces
// enables tests to pass in light-weight mocks.
type CodeUseCaseIface interface {
	Create(ctx context.Context, issuerID int64, durationDays int, privileged bool) (*model.ActivationCode, error)
	Delete(ctx context.Context, code string) error
	Extend(ctx context.Context, code string, durationDays int) (*model.ActivationCode, error)
}

type BindingUseCaseIface interface {
	Bind(ctx context.Context, code string, chatID int64) (*model.GroupBinding, error)
	IsActive(ctx context.Context, chatID int64) (bool, error)
	RemainingSeconds(ctx context.Context, chatID int64) (int64, error)
	Disconnect(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]*model.GroupBinding, error)
}

type RenewalUseCaseIface interface {
	ExtendBinding(ctx context.Context, chatID int64, durationDays, maxExtensions int) (bool, error)
	ActivateSolo(ctx context.Context, accountID int64, durationDays int) (*model.SoloEntitlement, error)
	ExtendSolo(ctx context.Context, accountID int64, durationDays int) (bool, error)
	SoloStatus(ctx context.Context, accountID int64) (*model.SoloEntitlement, error)
}

type PaymentUseCaseIface interface {
	CheckAndExtend(ctx context.Context, chatID int64) (*usecase.PaymentCheckResult, error)
}

type AccessUseCaseIface interface {
	Authenticate(ctx context.Context, actorID int64, secret string) error
	IsPrivileged(ctx context.Context, actorID int64) bool
	Authorize(ctx context.Context, actorID, chatID int64) bool
	SetControlChat(ctx context.Context, actorID, chatID int64) error
}
