package usecase

import "telegram-translation-gate/internal/config"

// Policy carries the entitlement knobs the use cases enforce. It is built
// from config at startup so the core never reads configuration ambiently.
type Policy struct {
	FreeQuota        int
	FreeCodeDays     int
	MaxGroupsPerCode int
	MaxExtensions    int
	ExtensionDays    int
	SoloDays         int
	RequiredUSDT     float64
}

func PolicyFromConfig(p config.PolicyConfig) Policy {
	return Policy{
		FreeQuota:        p.FreeQuota,
		FreeCodeDays:     p.FreeCodeDays,
		MaxGroupsPerCode: p.MaxGroupsPerCode,
		MaxExtensions:    p.MaxExtensions,
		ExtensionDays:    p.ExtensionDays,
		SoloDays:         p.SoloDays,
		RequiredUSDT:     p.RequiredUSDT,
	}
}
