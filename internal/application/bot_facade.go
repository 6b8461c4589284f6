package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/ports/adapter"
	"telegram-translation-gate/internal/infra/i18n"
	"telegram-translation-gate/internal/infra/metrics"
	"telegram-translation-gate/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
// Member-facing replies are rendered in every configured locale at once
// because the served groups are mixed-language.
type BotFacade struct {
	CodeUC   CodeUseCaseIface
	BindUC   BindingUseCaseIface
	RenewUC  RenewalUseCaseIface
	PayUC    PaymentUseCaseIface
	AccessUC AccessUseCaseIface

	Translator adapter.TranslationAdapter
	Catalog    *i18n.Catalog
	Policy     usecase.Policy
}

func NewBotFacade(
	codeUC CodeUseCaseIface,
	bindUC BindingUseCaseIface,
	renewUC RenewalUseCaseIface,
	payUC PaymentUseCaseIface,
	accessUC AccessUseCaseIface,
	translator adapter.TranslationAdapter,
	catalog *i18n.Catalog,
	policy usecase.Policy,
) *BotFacade {
	return &BotFacade{
		CodeUC:     codeUC,
		BindUC:     bindUC,
		RenewUC:    renewUC,
		PayUC:      payUC,
		AccessUC:   accessUC,
		Translator: translator,
		Catalog:    catalog,
		Policy:     policy,
	}
}

// ErrorReply is what the transport sends when a handler fails unexpectedly.
func (b *BotFacade) ErrorReply() string { return b.Catalog.Multi("error_generic") }

// BusyReply is sent when another worker already holds the chat's lock.
func (b *BotFacade) BusyReply() string { return b.Catalog.Multi("busy") }

// UnauthorizedReply is sent when a non-owner invokes an owner command.
func (b *BotFacade) UnauthorizedReply() string { return b.Catalog.Multi("unauthorized") }

func (b *BotFacade) HandleStart(ctx context.Context) (string, error) {
	return b.Catalog.Multi("start"), nil
}

func (b *BotFacade) HandleHelp(ctx context.Context) (string, error) {
	return b.Catalog.Multi("help"), nil
}

// HandleCreateCode mints an activation code for the caller. Owners bypass
// the free-tier quota.
func (b *BotFacade) HandleCreateCode(ctx context.Context, actorID int64) (string, error) {
	privileged := b.AccessUC.IsPrivileged(ctx, actorID)
	code, err := b.CodeUC.Create(ctx, actorID, b.Policy.FreeCodeDays, privileged)
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return b.Catalog.Multi("code_quota"), nil
	}
	if err != nil {
		return "", fmt.Errorf("create code: %w", err)
	}
	tier := "free"
	if privileged {
		tier = "privileged"
	}
	metrics.IncCodeIssued(tier)
	return b.Catalog.Multi("code_created", code.Code, b.Policy.FreeCodeDays), nil
}

// HandleRegisterCode binds the chat to the given activation code.
func (b *BotFacade) HandleRegisterCode(ctx context.Context, chatID int64, arg string) (string, error) {
	code := strings.TrimSpace(arg)
	if code == "" {
		return b.Catalog.Multi("usage_registercode"), nil
	}
	binding, err := b.BindUC.Bind(ctx, code, chatID)
	switch {
	case errors.Is(err, domain.ErrCodeNotFound), errors.Is(err, domain.ErrCodeExpired):
		return b.Catalog.Multi("code_invalid"), nil
	case errors.Is(err, domain.ErrBoundToOtherCode):
		return b.Catalog.Multi("bound_other_code"), nil
	case errors.Is(err, domain.ErrAlreadyConnected):
		return b.Catalog.Multi("already_connected"), nil
	case errors.Is(err, domain.ErrGroupQuotaExceeded):
		return b.Catalog.Multi("register_limit"), nil
	case err != nil:
		return "", fmt.Errorf("register code: %w", err)
	}
	metrics.IncBinding("connected")
	days := binding.RemainingSeconds(time.Now()) / 86400
	return b.Catalog.Multi("register_ok", days), nil
}

func (b *BotFacade) HandleDisconnect(ctx context.Context, chatID int64) (string, error) {
	if err := b.BindUC.Disconnect(ctx, chatID); err != nil {
		return "", fmt.Errorf("disconnect: %w", err)
	}
	metrics.IncBinding("disconnected")
	return b.Catalog.Multi("disconnected"), nil
}

// HandleSoloMode activates private-chat translation for the caller, or
// applies the single allowed renewal when it is already running.
func (b *BotFacade) HandleSoloMode(ctx context.Context, accountID int64) (string, error) {
	s, err := b.RenewUC.SoloStatus(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("solo status: %w", err)
	}
	if s == nil || !s.Active(time.Now()) {
		if _, err := b.RenewUC.ActivateSolo(ctx, accountID, b.Policy.SoloDays); err != nil {
			return "", fmt.Errorf("activate solo: %w", err)
		}
		return b.Catalog.Multi("solo_started", b.Policy.SoloDays), nil
	}
	ok, err := b.RenewUC.ExtendSolo(ctx, accountID, b.Policy.SoloDays)
	if err != nil {
		return "", fmt.Errorf("extend solo: %w", err)
	}
	if !ok {
		return b.Catalog.Multi("solo_limit"), nil
	}
	return b.Catalog.Multi("solo_extended", b.Policy.SoloDays), nil
}

// HandleExtendCode applies one bounded extension to the chat's binding.
func (b *BotFacade) HandleExtendCode(ctx context.Context, chatID int64) (string, error) {
	ok, err := b.RenewUC.ExtendBinding(ctx, chatID, b.Policy.ExtensionDays, b.Policy.MaxExtensions)
	if errors.Is(err, domain.ErrNotRegistered) {
		return b.Catalog.Multi("not_registered"), nil
	}
	if err != nil {
		return "", fmt.Errorf("extend binding: %w", err)
	}
	if !ok {
		return b.Catalog.Multi("extend_limit", b.Policy.RequiredUSDT), nil
	}
	secs, err := b.BindUC.RemainingSeconds(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("remaining: %w", err)
	}
	return b.Catalog.Multi("extend_ok", b.Policy.ExtensionDays, secs/86400), nil
}

func (b *BotFacade) HandleRemaining(ctx context.Context, chatID int64) (string, error) {
	secs, err := b.BindUC.RemainingSeconds(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("remaining: %w", err)
	}
	if secs <= 0 {
		return b.Catalog.Multi("not_registered"), nil
	}
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	return b.Catalog.Multi("remaining", days, hours, minutes), nil
}

// HandlePaymentCheck reconciles the chat's pending invoice against the
// chain indexer and reports the outcome.
func (b *BotFacade) HandlePaymentCheck(ctx context.Context, chatID int64) (string, error) {
	res, err := b.PayUC.CheckAndExtend(ctx, chatID)
	if errors.Is(err, domain.ErrNotRegistered) {
		return b.Catalog.Multi("not_registered"), nil
	}
	if err != nil {
		return "", fmt.Errorf("payment check: %w", err)
	}
	switch res.Outcome {
	case usecase.OutcomePaid:
		metrics.IncPaymentCheck("paid")
		metrics.AddConfirmedUSDT(res.AmountUSDT)
		return b.Catalog.Multi("payment_paid",
			res.AmountUSDT, b.Policy.ExtensionDays, res.RemainingSeconds/86400), nil
	case usecase.OutcomeLimitReached:
		metrics.IncPaymentCheck("limit_reached")
		metrics.IncUnappliedPayment()
		return b.Catalog.Multi("payment_limit"), nil
	default:
		metrics.IncPaymentCheck("unpaid")
		return b.Catalog.Multi("payment_unpaid", res.RequiredUSDT, res.DepositAddress), nil
	}
}

// HandleAuth checks the owner secret and promotes the caller on success.
func (b *BotFacade) HandleAuth(ctx context.Context, actorID int64, secret string) (string, error) {
	if err := b.AccessUC.Authenticate(ctx, actorID, secret); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return b.Catalog.Multi("auth_fail"), nil
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}
	return b.Catalog.Multi("auth_ok"), nil
}

// HandleSetControlChat pins owner commands to the current chat.
func (b *BotFacade) HandleSetControlChat(ctx context.Context, actorID, chatID int64) (string, error) {
	if err := b.AccessUC.SetControlChat(ctx, actorID, chatID); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return b.UnauthorizedReply(), nil
		}
		return "", fmt.Errorf("set control chat: %w", err)
	}
	return b.Catalog.Multi("control_chat_set"), nil
}

// HandleGenerateCode is the owner's unrestricted code mint.
func (b *BotFacade) HandleGenerateCode(ctx context.Context, actorID int64, days int) (string, error) {
	if days <= 0 {
		days = b.Policy.ExtensionDays
	}
	code, err := b.CodeUC.Create(ctx, actorID, days, true)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	metrics.IncCodeIssued("privileged")
	return b.Catalog.T("en", "code_created", code.Code, days), nil
}

// HandleDeleteCode revokes a code and disconnects its groups.
func (b *BotFacade) HandleDeleteCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return b.Catalog.T("en", "code_invalid"), nil
	}
	if err := b.CodeUC.Delete(ctx, code); err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return b.Catalog.T("en", "code_invalid"), nil
		}
		return "", fmt.Errorf("delete code: %w", err)
	}
	return b.Catalog.T("en", "code_deleted", code), nil
}

// HandleExtendIssued extends an issued code and every group connected to it.
func (b *BotFacade) HandleExtendIssued(ctx context.Context, code string, days int) (string, error) {
	code = strings.TrimSpace(code)
	if days <= 0 {
		days = b.Policy.ExtensionDays
	}
	if _, err := b.CodeUC.Extend(ctx, code, days); err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return b.Catalog.T("en", "code_invalid"), nil
		}
		return "", fmt.Errorf("extend code: %w", err)
	}
	return b.Catalog.T("en", "code_extended", code, days), nil
}

// HandleForceDisconnect is the owner's disconnect of an arbitrary chat.
func (b *BotFacade) HandleForceDisconnect(ctx context.Context, chatID int64) (string, error) {
	if err := b.BindUC.Disconnect(ctx, chatID); err != nil {
		return "", fmt.Errorf("force disconnect: %w", err)
	}
	metrics.IncBinding("force_disconnected")
	return b.Catalog.T("en", "disconnected"), nil
}

// HandleListBindings renders every binding for the owner.
func (b *BotFacade) HandleListBindings(ctx context.Context) (string, error) {
	bindings, err := b.BindUC.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list bindings: %w", err)
	}
	if len(bindings) == 0 {
		return "No groups registered.", nil
	}
	now := time.Now()
	sb := strings.Builder{}
	sb.WriteString("Registered groups:\n")
	for _, g := range bindings {
		state := "connected"
		if !g.Connected {
			state = "disconnected"
		}
		if !g.Active(now) && g.Connected {
			state = "expired"
		}
		sb.WriteString(fmt.Sprintf("- chat %d: code %s, %s, expires %s, extensions %d\n",
			g.ChatID, g.Code, state, g.ExpiresAt.Format(time.RFC1123), g.ExtensionCount))
	}
	return sb.String(), nil
}

// HandleGroupMessage runs the translation path for a plain message. It
// returns an empty string, and sends nothing, when the chat holds no active
// entitlement so the bot stays silent in lapsed groups.
func (b *BotFacade) HandleGroupMessage(ctx context.Context, chatID, accountID int64, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	entitled, err := b.entitled(ctx, chatID, accountID)
	if err != nil {
		return "", fmt.Errorf("entitlement check: %w", err)
	}
	if !entitled {
		return "", nil
	}
	_, byLang, err := b.Translator.Translate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	var lines []string
	for _, lang := range langs {
		if t := strings.TrimSpace(byLang[lang]); t != "" {
			lines = append(lines, fmt.Sprintf("[%s] %s", lang, t))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// entitled decides which entitlement gates a chat: private chats use the
// caller's solo entitlement, groups use the binding.
func (b *BotFacade) entitled(ctx context.Context, chatID, accountID int64) (bool, error) {
	if chatID > 0 && chatID == accountID {
		s, err := b.RenewUC.SoloStatus(ctx, accountID)
		if err != nil {
			return false, err
		}
		return s != nil && s.Active(time.Now()), nil
	}
	return b.BindUC.IsActive(ctx, chatID)
}
