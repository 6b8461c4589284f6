package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/application"
	"telegram-translation-gate/internal/config"
	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/ports/adapter"
	"telegram-translation-gate/internal/infra/metrics"
	red "telegram-translation-gate/internal/infra/redis"
)

// chatLockTTL caps how long a wedged worker can hold a conversation lock.
const chatLockTTL = 30 * time.Second

// Ensure the adapter satisfies the outbound port.
var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
// Command handling is serialized per conversation through a Redis lock so
// multiple workers (or replicas) never interleave writes for one chat.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	locker      red.Locker
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	facade *application.BotFacade,
	locker red.Locker,
	rateLimiter *red.RateLimiter,
	log *zerolog.Logger,
	updateWorkers int,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 4
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		locker:        locker,
		rateLimiter:   rateLimiter,
		log:           log,
		updateWorkers: updateWorkers,
	}, nil
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("failed to handle update")
					}
				}
			}
		}(i)
	}

	drain := func() error {
		r.bot.StopReceivingUpdates()
		close(updateChan)
		wg.Wait()
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return drain()
		case up := <-updates:
			if !forward(ctx, updateChan, up) {
				return drain()
			}
		}
	}
}

// forward queues an update for a worker. It gives up once ctx is done so a
// full queue with exited workers cannot wedge the dispatch loop.
func forward(ctx context.Context, dst chan<- tgbotapi.Update, up tgbotapi.Update) bool {
	select {
	case dst <- up:
		return true
	case <-ctx.Done():
		return false
	}
}

// StopPolling stops the polling loop gracefully.
func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage sends a plain text reply to the chat. Empty text sends
// nothing, which lets handlers stay silent on purpose.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// handleUpdate processes a single Telegram update.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	if msg.IsCommand() {
		return r.handleCommand(ctx, msg)
	}
	return r.handlePlainMessage(ctx, msg)
}

func (r *RealTelegramBotAdapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	name := msg.Command()
	handler, ok := r.commandRoutes()[name]
	if !ok {
		// Group chats carry commands for other bots; stay quiet.
		return nil
	}

	token, err := r.locker.TryLock(ctx, red.ChatLockKey(msg.Chat.ID), chatLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrChatBusy) {
			metrics.IncCommand(name, "busy")
			return r.SendMessage(ctx, msg.Chat.ID, r.facade.BusyReply())
		}
		return err
	}
	defer func() {
		if err := r.locker.Unlock(ctx, red.ChatLockKey(msg.Chat.ID), token); err != nil {
			r.log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to release chat lock")
		}
	}()

	if err := handler(ctx, msg); err != nil {
		metrics.IncCommand(name, "error")
		r.log.Error().Err(err).Str("command", name).Int64("chat_id", msg.Chat.ID).Msg("command failed")
		return r.SendMessage(ctx, msg.Chat.ID, r.facade.ErrorReply())
	}
	metrics.IncCommand(name, "ok")
	return nil
}

// handlePlainMessage runs the translation path. The facade returns an empty
// reply for chats without an active entitlement, so lapsed groups see no
// traffic at all.
func (r *RealTelegramBotAdapter) handlePlainMessage(ctx context.Context, msg *tgbotapi.Message) error {
	reply, err := r.facade.HandleGroupMessage(ctx, msg.Chat.ID, msg.From.ID, msg.Text)
	if err != nil {
		metrics.IncTranslation("error")
		r.log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("translation failed")
		return nil
	}
	if reply == "" {
		metrics.IncTranslation("skipped")
		return nil
	}
	metrics.IncTranslation("ok")
	return r.SendMessage(ctx, msg.Chat.ID, reply)
}
