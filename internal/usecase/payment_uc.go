// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/adapter"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// checkTimeout bounds every indexer call so a slow chain API cannot wedge a
// command handler. On timeout the check surfaces an error and mutates
// nothing.
const checkTimeout = 10 * time.Second

type PaymentOutcome string

const (
	// OutcomePaid: payment confirmed and the binding was extended.
	OutcomePaid PaymentOutcome = "paid"
	// OutcomeUnpaid: nothing (or not enough) arrived; a deposit address is
	// pending.
	OutcomeUnpaid PaymentOutcome = "unpaid"
	// OutcomeLimitReached: payment confirmed but the binding has no renewal
	// capacity left. Reported distinctly so the money is never silently
	// swallowed; support has to resolve it manually.
	OutcomeLimitReached PaymentOutcome = "limit_reached"
)

// PaymentCheckResult is what the command layer renders for the user.
type PaymentCheckResult struct {
	Outcome          PaymentOutcome
	AmountUSDT       float64
	RequiredUSDT     float64
	DepositAddress   string
	OrderRef         string
	RemainingSeconds int64
}

// PaymentUseCase reconciles pending invoices against the blockchain indexer
// and turns confirmed deposits into binding extensions.
type PaymentUseCase struct {
	bindings repository.GroupBindingRepository
	invoices repository.PaymentInvoiceRepository
	indexer  adapter.PaymentIndexer
	renewal  *RenewalUseCase
	policy   Policy
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	bindings repository.GroupBindingRepository,
	invoices repository.PaymentInvoiceRepository,
	indexer adapter.PaymentIndexer,
	renewal *RenewalUseCase,
	policy Policy,
	log *zerolog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		bindings: bindings,
		invoices: invoices,
		indexer:  indexer,
		renewal:  renewal,
		policy:   policy,
		log:      log,
	}
}

// CheckAndExtend is the user-polled payment check. It is idempotent while
// unpaid (repeated calls re-confirm the same pending address) and advances
// state exactly once per confirmed payment: the extension and the invoice's
// applied marker move together, so the same confirmed total can never buy
// two extensions. Indexer failures return an error with no state mutated.
func (uc *PaymentUseCase) CheckAndExtend(ctx context.Context, chatID int64) (*PaymentCheckResult, error) {
	if _, err := uc.bindings.FindByChat(ctx, nil, chatID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, err
	}

	inv, err := uc.invoices.FindByChat(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if inv != nil && !inv.Applied {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		amount, err := uc.indexer.ConfirmedAmount(cctx, inv)
		if err != nil {
			uc.log.Warn().Err(err).Int64("chat_id", chatID).Str("order_ref", inv.OrderRef).
				Msg("payment indexer query failed")
			return nil, err
		}
		if amount >= inv.RequiredUSDT {
			return uc.applyConfirmedPayment(ctx, chatID, inv, amount)
		}
		// Not enough yet: re-confirm the same pending address.
		uc.touchPaymentCheck(ctx, chatID)
		return &PaymentCheckResult{
			Outcome:        OutcomeUnpaid,
			AmountUSDT:     amount,
			RequiredUSDT:   inv.RequiredUSDT,
			DepositAddress: inv.DepositAddress,
			OrderRef:       inv.OrderRef,
		}, nil
	}

	// No live invoice: issue a fresh deposit address, superseding whatever
	// applied invoice may remain.
	cctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	address, orderRef, err := uc.indexer.CreateDepositAddress(cctx, chatID)
	if err != nil {
		return nil, err
	}
	fresh, err := model.NewPaymentInvoice(chatID, orderRef, address, uc.policy.RequiredUSDT)
	if err != nil {
		return nil, err
	}
	if err := uc.invoices.Put(ctx, fresh); err != nil {
		return nil, err
	}
	uc.touchPaymentCheck(ctx, chatID)
	uc.log.Info().Int64("chat_id", chatID).Str("order_ref", orderRef).Msg("deposit invoice issued")
	return &PaymentCheckResult{
		Outcome:        OutcomeUnpaid,
		RequiredUSDT:   fresh.RequiredUSDT,
		DepositAddress: address,
		OrderRef:       orderRef,
	}, nil
}

func (uc *PaymentUseCase) applyConfirmedPayment(ctx context.Context, chatID int64, inv *model.PaymentInvoice, amount float64) (*PaymentCheckResult, error) {
	ok, err := uc.renewal.ExtendBinding(ctx, chatID, uc.policy.ExtensionDays, uc.policy.MaxExtensions)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Money arrived but the renewal allowance is exhausted. There is no
		// refund path on the indexer, so this must be loud and land with
		// support; the invoice stays unapplied for them to resolve.
		uc.log.Error().Int64("chat_id", chatID).Str("order_ref", inv.OrderRef).
			Float64("amount_usdt", amount).Msg("confirmed payment could not be applied: extension limit reached")
		return &PaymentCheckResult{
			Outcome:      OutcomeLimitReached,
			AmountUSDT:   amount,
			RequiredUSDT: inv.RequiredUSDT,
		}, nil
	}

	inv.Applied = true
	if err := uc.invoices.Put(ctx, inv); err != nil {
		// Extension already granted; losing the marker risks double credit,
		// so shout about it.
		uc.log.Error().Err(err).Int64("chat_id", chatID).Str("order_ref", inv.OrderRef).
			Msg("failed to mark invoice applied after extension")
	}
	uc.touchPaymentCheck(ctx, chatID)

	remaining := int64(0)
	if b, err := uc.bindings.FindByChat(ctx, nil, chatID); err == nil {
		remaining = b.RemainingSeconds(time.Now())
	}
	uc.log.Info().Int64("chat_id", chatID).Str("order_ref", inv.OrderRef).
		Float64("amount_usdt", amount).Msg("payment confirmed, binding extended")
	return &PaymentCheckResult{
		Outcome:          OutcomePaid,
		AmountUSDT:       amount,
		RequiredUSDT:     inv.RequiredUSDT,
		RemainingSeconds: remaining,
	}, nil
}

// touchPaymentCheck records when the chat last polled the indexer. Purely
// informational; failure to record it never fails the check.
func (uc *PaymentUseCase) touchPaymentCheck(ctx context.Context, chatID int64) {
	b, err := uc.bindings.FindByChat(ctx, nil, chatID)
	if err != nil {
		return
	}
	now := time.Now()
	b.LastPaymentCheckAt = &now
	if err := uc.bindings.Save(ctx, nil, b); err != nil {
		uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to record payment check time")
	}
}
