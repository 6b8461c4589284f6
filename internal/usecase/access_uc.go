// File: internal/usecase/access_uc.go
package usecase

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
)

// AccessUseCase decides who may run privileged commands. One owner claims
// the bot with a shared secret; config admin IDs are honored as well.
type AccessUseCase struct {
	owners   repository.OwnerSettingsRepository
	secret   string
	adminIDs map[int64]struct{}
	log      *zerolog.Logger
}

func NewAccessUseCase(owners repository.OwnerSettingsRepository, secret string, adminIDs []int64, log *zerolog.Logger) *AccessUseCase {
	m := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		m[id] = struct{}{}
	}
	return &AccessUseCase{owners: owners, secret: secret, adminIDs: m, log: log}
}

// Authenticate binds actorID as the bot owner when the secret matches.
func (uc *AccessUseCase) Authenticate(ctx context.Context, actorID int64, secret string) error {
	if uc.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(uc.secret)) != 1 {
		uc.log.Warn().Int64("actor_id", actorID).Msg("owner authentication rejected")
		return domain.ErrUnauthorized
	}
	settings, err := uc.owners.Get(ctx)
	if err != nil {
		settings = &model.OwnerSettings{}
	}
	settings.OwnerID = actorID
	if err := uc.owners.Put(ctx, settings); err != nil {
		return err
	}
	uc.log.Info().Int64("actor_id", actorID).Msg("owner authenticated")
	return nil
}

// IsPrivileged reports whether actorID is the owner or a configured admin.
func (uc *AccessUseCase) IsPrivileged(ctx context.Context, actorID int64) bool {
	if _, ok := uc.adminIDs[actorID]; ok {
		return true
	}
	settings, err := uc.owners.Get(ctx)
	if err != nil {
		return false
	}
	return settings.HasOwner() && settings.OwnerID == actorID
}

// Authorize gates a privileged command issued from a particular chat. When
// a control chat is configured, privileged commands are only honored there
// or in the owner's private chat (in Telegram a private chat id equals the
// user id).
func (uc *AccessUseCase) Authorize(ctx context.Context, actorID, chatID int64) bool {
	if !uc.IsPrivileged(ctx, actorID) {
		return false
	}
	settings, err := uc.owners.Get(ctx)
	if err != nil || settings.ControlChatID == 0 {
		return true
	}
	return chatID == settings.ControlChatID || chatID == actorID
}

// SetControlChat marks chatID as the owner control conversation.
func (uc *AccessUseCase) SetControlChat(ctx context.Context, actorID, chatID int64) error {
	if !uc.IsPrivileged(ctx, actorID) {
		return domain.ErrUnauthorized
	}
	settings, err := uc.owners.Get(ctx)
	if err != nil {
		settings = &model.OwnerSettings{OwnerID: actorID}
	}
	settings.ControlChatID = chatID
	if err := uc.owners.Put(ctx, settings); err != nil {
		return err
	}
	uc.log.Info().Int64("chat_id", chatID).Msg("control chat registered")
	return nil
}
