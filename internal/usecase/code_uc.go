// File: internal/usecase/code_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// codeGenAttempts bounds the collision-retry loop when minting a code.
const codeGenAttempts = 5

// CodeUseCase issues, revokes and extends activation codes.
type CodeUseCase struct {
	codes    repository.ActivationCodeRepository
	bindings repository.GroupBindingRepository
	tm       repository.TransactionManager
	policy   Policy
	log      *zerolog.Logger
}

func NewCodeUseCase(
	codes repository.ActivationCodeRepository,
	bindings repository.GroupBindingRepository,
	tm repository.TransactionManager,
	policy Policy,
	log *zerolog.Logger,
) *CodeUseCase {
	return &CodeUseCase{codes: codes, bindings: bindings, tm: tm, policy: policy, log: log}
}

// Create mints a new activation code for issuerID valid for durationDays.
// Non-privileged issuance is subject to the free-tier quota: the number of
// live non-privileged codes per issuer never exceeds Policy.FreeQuota, and a
// rejected attempt persists nothing.
func (uc *CodeUseCase) Create(ctx context.Context, issuerID int64, durationDays int, privileged bool) (*model.ActivationCode, error) {
	if !privileged {
		n, err := uc.codes.CountLiveByIssuer(ctx, nil, issuerID, time.Now())
		if err != nil {
			return nil, err
		}
		if n >= uc.policy.FreeQuota {
			return nil, domain.ErrQuotaExceeded
		}
	}

	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		value, err := generateCode()
		if err != nil {
			return nil, err
		}
		code, err := model.NewActivationCode(value, issuerID, durationDays, privileged)
		if err != nil {
			return nil, err
		}
		err = uc.codes.Insert(ctx, nil, code)
		if errors.Is(err, domain.ErrAlreadyExists) {
			uc.log.Debug().Str("code", value).Msg("code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.log.Info().Str("code", code.Code).Int64("issuer_id", issuerID).
			Bool("privileged", privileged).Int("days", durationDays).Msg("activation code issued")
		return code, nil
	}
	return nil, fmt.Errorf("could not mint a unique code after %d attempts", codeGenAttempts)
}

// Delete revokes the code and force-disconnects every binding referencing
// it. The cascade runs in one transaction so a revoked code can never leave
// a connected binding behind.
func (uc *CodeUseCase) Delete(ctx context.Context, code string) error {
	return uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := uc.codes.FindByCode(ctx, tx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return err
		}
		c.Revoked = true
		if err := uc.codes.Save(ctx, tx, c); err != nil {
			return err
		}

		bound, err := uc.bindings.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		for _, b := range bound {
			if !b.Connected {
				continue
			}
			b.Connected = false
			if err := uc.bindings.Save(ctx, tx, b); err != nil {
				return err
			}
		}
		uc.log.Info().Str("code", code).Int("disconnected_groups", len(bound)).Msg("activation code revoked")
		return nil
	})
}

// Extend adds durationDays to the code's expiry and re-synchronizes every
// connected binding to the code's new expiry, so connected groups never
// drift from the code's authoritative lifetime. Disconnected bindings are
// left alone.
func (uc *CodeUseCase) Extend(ctx context.Context, code string, durationDays int) (*model.ActivationCode, error) {
	var out *model.ActivationCode
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := uc.codes.FindByCode(ctx, tx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		if err != nil {
			return err
		}
		c.Extend(durationDays)
		if err := uc.codes.Save(ctx, tx, c); err != nil {
			return err
		}

		bound, err := uc.bindings.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		for _, b := range bound {
			if !b.Connected {
				continue
			}
			b.ExpiresAt = c.ExpiresAt
			if err := uc.bindings.Save(ctx, tx, b); err != nil {
				return err
			}
		}
		out = c
		uc.log.Info().Str("code", code).Int("days", durationDays).Msg("activation code extended")
		return nil
	})
	return out, err
}
