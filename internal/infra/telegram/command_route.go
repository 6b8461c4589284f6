package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-translation-gate/internal/infra/metrics"
	red "telegram-translation-gate/internal/infra/redis"
)

// paymentCheckLimit throttles how often a chat may hit the chain indexer.
const (
	paymentCheckLimit  = 3
	paymentCheckWindow = time.Minute
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":        r.handleStartCommand,
		"help":         r.handleHelpCommand,
		"createcode":   r.handleCreateCodeCommand,
		"registercode": r.handleRegisterCodeCommand,
		"disconnect":   r.handleDisconnectCommand,
		"solomode":     r.handleSoloModeCommand,
		"extendcode":   r.handleExtendCodeCommand,
		"remaining":    r.handleRemainingCommand,
		"paymentcheck": r.handlePaymentCheckCommand,
		"auth":         r.handleAuthCommand,

		// These handlers are wrapped in the ownerOnly middleware.
		"setcontrolchat":  r.ownerOnly(r.handleSetControlChatCommand),
		"gencode":         r.ownerOnly(r.handleGenCodeCommand),
		"delcode":         r.ownerOnly(r.handleDelCodeCommand),
		"extendissued":    r.ownerOnly(r.handleExtendIssuedCommand),
		"forcedisconnect": r.ownerOnly(r.handleForceDisconnectCommand),
		"listbindings":    r.ownerOnly(r.handleListBindingsCommand),
	}
}

// ownerOnly gates a command on the owner identity and, when configured, the
// control chat.
func (r *RealTelegramBotAdapter) ownerOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.facade.AccessUC.Authorize(ctx, message.From.ID, message.Chat.ID) {
			metrics.IncOwnerCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, r.facade.UnauthorizedReply())
		}
		metrics.IncOwnerCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStart(ctx)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleHelp(ctx)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleCreateCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleCreateCode(ctx, message.From.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleRegisterCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRegisterCode(ctx, message.Chat.ID, message.CommandArguments())
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleDisconnectCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleDisconnect(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleSoloModeCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleSoloMode(ctx, message.From.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleExtendCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleExtendCode(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleRemainingCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRemaining(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handlePaymentCheckCommand(ctx context.Context, message *tgbotapi.Message) error {
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx,
			red.ChatCommandKey(message.Chat.ID, "paymentcheck"), paymentCheckLimit, paymentCheckWindow)
		if err != nil {
			return err
		}
		if !allowed {
			return r.SendMessage(ctx, message.Chat.ID, r.facade.BusyReply())
		}
	}
	text, err := r.facade.HandlePaymentCheck(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleAuthCommand(ctx context.Context, message *tgbotapi.Message) error {
	secret := strings.TrimSpace(message.CommandArguments())
	text, err := r.facade.HandleAuth(ctx, message.From.ID, secret)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleSetControlChatCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleSetControlChat(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleGenCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	days := 0
	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			return r.SendMessage(ctx, message.Chat.ID, "Usage: /gencode [days]")
		}
		days = parsed
	}
	text, err := r.facade.HandleGenerateCode(ctx, message.From.ID, days)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleDelCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	code := strings.TrimSpace(message.CommandArguments())
	if code == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /delcode <code>")
	}
	text, err := r.facade.HandleDeleteCode(ctx, code)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleExtendIssuedCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) < 1 || len(args) > 2 {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /extendissued <code> [days]")
	}
	days := 0
	if len(args) == 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return r.SendMessage(ctx, message.Chat.ID, "Usage: /extendissued <code> [days]")
		}
		days = parsed
	}
	text, err := r.facade.HandleExtendIssued(ctx, args[0], days)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleForceDisconnectCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	chatID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || chatID == 0 {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /forcedisconnect <chat_id>")
	}
	text, err := r.facade.HandleForceDisconnect(ctx, chatID)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleListBindingsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleListBindings(ctx)
	if err != nil {
		return err
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}
