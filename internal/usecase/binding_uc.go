// File: internal/usecase/binding_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// BindingUseCase is the state machine attaching group chats to codes:
// Unbound -> Bound(connected) -> Disconnected -> Bound again (same code only).
type BindingUseCase struct {
	codes    repository.ActivationCodeRepository
	bindings repository.GroupBindingRepository
	tm       repository.TransactionManager
	policy   Policy
	log      *zerolog.Logger
}

func NewBindingUseCase(
	codes repository.ActivationCodeRepository,
	bindings repository.GroupBindingRepository,
	tm repository.TransactionManager,
	policy Policy,
	log *zerolog.Logger,
) *BindingUseCase {
	return &BindingUseCase{codes: codes, bindings: bindings, tm: tm, policy: policy, log: log}
}

// Bind registers chatID under the given code, or reconnects a previously
// disconnected binding. Rebinding is only allowed with the same code, and a
// reconnect refreshes the binding's expiry from the code while keeping the
// extension counter (so disconnect/reconnect cannot reset the renewal
// allowance).
func (uc *BindingUseCase) Bind(ctx context.Context, code string, chatID int64) (*model.GroupBinding, error) {
	var out *model.GroupBinding
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := uc.codes.FindByCode(ctx, tx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return err
		}
		if !c.Valid(time.Now()) {
			return domain.ErrCodeExpired
		}

		existing, err := uc.bindings.FindByChat(ctx, tx, chatID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			if existing.Code != c.Code {
				return domain.ErrBoundToOtherCode
			}
			if existing.Connected {
				return domain.ErrAlreadyConnected
			}
			existing.Connected = true
			existing.ExpiresAt = c.ExpiresAt
			if err := uc.bindings.Save(ctx, tx, existing); err != nil {
				return err
			}
			out = existing
			uc.log.Info().Int64("chat_id", chatID).Str("code", code).
				Int("extension_count", existing.ExtensionCount).Msg("group reconnected")
			return nil
		}

		n, err := uc.bindings.CountByCode(ctx, tx, c.Code)
		if err != nil {
			return err
		}
		if n >= uc.policy.MaxGroupsPerCode {
			return domain.ErrGroupQuotaExceeded
		}
		b, err := model.NewGroupBinding(chatID, c)
		if err != nil {
			return err
		}
		if err := uc.bindings.Save(ctx, tx, b); err != nil {
			return err
		}
		out = b
		uc.log.Info().Int64("chat_id", chatID).Str("code", code).Msg("group bound")
		return nil
	})
	return out, err
}

// IsActive is the single predicate the translation path queries before
// acting on a message: binding exists, connected, not expired.
func (uc *BindingUseCase) IsActive(ctx context.Context, chatID int64) (bool, error) {
	b, err := uc.bindings.FindByChat(ctx, nil, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b.Active(time.Now()), nil
}

// RemainingSeconds reports how long the chat's entitlement lasts, 0 when
// unbound or already expired.
func (uc *BindingUseCase) RemainingSeconds(ctx context.Context, chatID int64) (int64, error) {
	b, err := uc.bindings.FindByChat(ctx, nil, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.RemainingSeconds(time.Now()), nil
}

// Disconnect soft-unbinds the chat. The binding row, its expiry and its
// extension counter all survive; only Connected flips. Idempotent: a chat
// that is already disconnected, or never bound, is not an error.
func (uc *BindingUseCase) Disconnect(ctx context.Context, chatID int64) error {
	b, err := uc.bindings.FindByChat(ctx, nil, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !b.Connected {
		return nil
	}
	b.Connected = false
	if err := uc.bindings.Save(ctx, nil, b); err != nil {
		return err
	}
	uc.log.Info().Int64("chat_id", chatID).Str("code", b.Code).Msg("group disconnected")
	return nil
}

// List returns every binding, for the owner's /listbindings command.
func (uc *BindingUseCase) List(ctx context.Context) ([]*model.GroupBinding, error) {
	return uc.bindings.List(ctx, nil)
}
