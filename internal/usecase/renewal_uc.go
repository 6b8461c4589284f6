// File: internal/usecase/renewal_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// soloMaxExtensions bounds solo-mode renewals to a single extension.
const soloMaxExtensions = 1

// RenewalUseCase applies bounded, fixed-duration extensions to bindings and
// solo entitlements. Hitting the extension bound is an expected business
// outcome, reported as false rather than an error, because every caller
// branches on both cases to produce a user-facing message.
type RenewalUseCase struct {
	bindings repository.GroupBindingRepository
	solo     repository.SoloEntitlementRepository
	log      *zerolog.Logger
}

func NewRenewalUseCase(
	bindings repository.GroupBindingRepository,
	solo repository.SoloEntitlementRepository,
	log *zerolog.Logger,
) *RenewalUseCase {
	return &RenewalUseCase{bindings: bindings, solo: solo, log: log}
}

// ExtendBinding adds durationDays to the chat's binding if it has renewal
// capacity left. Returns false, untouched state, once ExtensionCount has
// reached maxExtensions.
func (uc *RenewalUseCase) ExtendBinding(ctx context.Context, chatID int64, durationDays, maxExtensions int) (bool, error) {
	b, err := uc.bindings.FindByChat(ctx, nil, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, domain.ErrNotRegistered
	}
	if err != nil {
		return false, err
	}
	if b.ExtensionCount >= maxExtensions {
		return false, nil
	}
	b.Extend(durationDays)
	if err := uc.bindings.Save(ctx, nil, b); err != nil {
		return false, err
	}
	uc.log.Info().Int64("chat_id", chatID).Int("days", durationDays).
		Int("extension_count", b.ExtensionCount).Msg("binding extended")
	return true, nil
}

// ActivateSolo starts (or restarts after expiry) solo mode for an account.
// An already-active entitlement is returned unchanged; the extension
// counter survives reactivation so expiry cannot be used to reset it.
func (uc *RenewalUseCase) ActivateSolo(ctx context.Context, accountID int64, durationDays int) (*model.SoloEntitlement, error) {
	now := time.Now()
	s, err := uc.solo.FindByAccount(ctx, nil, accountID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if s != nil {
		if s.Active(now) {
			return s, nil
		}
		s.ExpiresAt = now.Add(time.Duration(durationDays) * 24 * time.Hour)
	} else {
		s, err = model.NewSoloEntitlement(accountID, durationDays)
		if err != nil {
			return nil, err
		}
	}
	if err := uc.solo.Save(ctx, nil, s); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("account_id", accountID).Int("days", durationDays).Msg("solo mode activated")
	return s, nil
}

// SoloStatus looks up the account's solo entitlement, nil when none exists.
func (uc *RenewalUseCase) SoloStatus(ctx context.Context, accountID int64) (*model.SoloEntitlement, error) {
	s, err := uc.solo.FindByAccount(ctx, nil, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ExtendSolo applies the single allowed solo renewal.
func (uc *RenewalUseCase) ExtendSolo(ctx context.Context, accountID int64, durationDays int) (bool, error) {
	s, err := uc.solo.FindByAccount(ctx, nil, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, domain.ErrNotRegistered
	}
	if err != nil {
		return false, err
	}
	if s.ExtensionCount >= soloMaxExtensions {
		return false, nil
	}
	s.Extend(durationDays)
	if err := uc.solo.Save(ctx, nil, s); err != nil {
		return false, err
	}
	uc.log.Info().Int64("account_id", accountID).Int("days", durationDays).Msg("solo mode extended")
	return true, nil
}
