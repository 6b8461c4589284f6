package model

import (
	"time"

	"telegram-translation-gate/internal/domain"
)

// ActivationCode is a short numeric token that unlocks the translation
// feature for the groups that register it.
type ActivationCode struct {
	Code       string
	IssuerID   int64 // Telegram user id of the account that created the code
	Privileged bool  // issued by the owner, exempt from the free-tier quota
	Revoked    bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// NewActivationCode creates a code valid for durationDays from now.
func NewActivationCode(code string, issuerID int64, durationDays int, privileged bool) (*ActivationCode, error) {
	if code == "" || issuerID == 0 || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &ActivationCode{
		Code:       code,
		IssuerID:   issuerID,
		Privileged: privileged,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(durationDays) * 24 * time.Hour),
	}, nil
}

// Valid reports whether the code can still be registered. A revoked code is
// never valid regardless of its expiry.
func (c *ActivationCode) Valid(now time.Time) bool {
	return c != nil && !c.Revoked && !c.ExpiresAt.Before(now)
}

// Extend pushes the expiry out by durationDays.
func (c *ActivationCode) Extend(durationDays int) {
	c.ExpiresAt = c.ExpiresAt.Add(time.Duration(durationDays) * 24 * time.Hour)
}
