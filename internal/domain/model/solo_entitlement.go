package model

import (
	"time"

	"telegram-translation-gate/internal/domain"
)

// SoloEntitlement grants a single account translation access in private
// chat, independent of any group binding. It allows exactly one renewal.
type SoloEntitlement struct {
	AccountID      int64
	ExpiresAt      time.Time
	ExtensionCount int
}

func NewSoloEntitlement(accountID int64, durationDays int) (*SoloEntitlement, error) {
	if accountID == 0 || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &SoloEntitlement{
		AccountID: accountID,
		ExpiresAt: time.Now().Add(time.Duration(durationDays) * 24 * time.Hour),
	}, nil
}

func (s *SoloEntitlement) Active(now time.Time) bool {
	return s != nil && !s.ExpiresAt.Before(now)
}

func (s *SoloEntitlement) Extend(durationDays int) {
	s.ExpiresAt = s.ExpiresAt.Add(time.Duration(durationDays) * 24 * time.Hour)
	s.ExtensionCount++
}
