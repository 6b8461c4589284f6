package model

import (
	"time"

	"telegram-translation-gate/internal/domain"
)

// GroupBinding attaches one Telegram group chat to an activation code.
//
// The expiry is copied from the code at bind time and then evolves on its
// own through extensions; the one exception is an administrative code
// extension, which re-synchronizes every connected binding.
type GroupBinding struct {
	ChatID             int64
	Code               string
	ExpiresAt          time.Time
	ExtensionCount     int
	Connected          bool
	LastPaymentCheckAt *time.Time
}

// NewGroupBinding binds chatID to the given code, inheriting its expiry.
func NewGroupBinding(chatID int64, code *ActivationCode) (*GroupBinding, error) {
	if chatID == 0 || code == nil {
		return nil, domain.ErrInvalidArgument
	}
	return &GroupBinding{
		ChatID:    chatID,
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
		Connected: true,
	}, nil
}

// Active reports whether the binding currently entitles the chat to
// translation. Expiry is evaluated lazily, there is no background sweep.
func (b *GroupBinding) Active(now time.Time) bool {
	return b != nil && b.Connected && !b.ExpiresAt.Before(now)
}

// RemainingSeconds returns the seconds until expiry, never negative.
func (b *GroupBinding) RemainingSeconds(now time.Time) int64 {
	if b == nil {
		return 0
	}
	rem := int64(b.ExpiresAt.Sub(now) / time.Second)
	if rem < 0 {
		return 0
	}
	return rem
}

// Extend adds durationDays and bumps the extension counter. The caller is
// responsible for checking the extension bound first.
func (b *GroupBinding) Extend(durationDays int) {
	b.ExpiresAt = b.ExpiresAt.Add(time.Duration(durationDays) * 24 * time.Hour)
	b.ExtensionCount++
}
