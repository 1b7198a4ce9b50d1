// Package streak implements the calendar-based daily streak state machine
// with tier-dependent grace periods, plus the service that persists the
// record locally and mirrors it to the backend best-effort.
package streak

import "time"

// Tier selects the subscription level's streak rules.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// TierConfig holds the streak rules for a tier.
type TierConfig struct {
	MinimumDailyMinutes int
	GracePeriod         time.Duration
	FreezeAvailable     bool
	MaxFreezes          int
}

// Config resolves the tier's rules. Unknown tiers get the free rules.
func (t Tier) Config() TierConfig {
	switch t {
	case TierPro:
		return TierConfig{MinimumDailyMinutes: 5, GracePeriod: 3 * time.Hour, FreezeAvailable: true, MaxFreezes: 1}
	case TierPremium:
		return TierConfig{MinimumDailyMinutes: 5, GracePeriod: 6 * time.Hour, FreezeAvailable: true, MaxFreezes: 3}
	default:
		return TierConfig{MinimumDailyMinutes: 5}
	}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierPremium:
		return true
	}
	return false
}

// Record is the persisted, locally authoritative streak state.
// LastActivityDate is the last day the daily goal was met; it is nil until
// the first goal-met day. Mutated only through Update.
type Record struct {
	Current          int        `json:"current"`
	Longest          int        `json:"longest"`
	LastActivityDate *time.Time `json:"lastActivityDate"`
	TodayMinutes     int        `json:"todayMinutes"`
	StreakMaintained bool       `json:"streakMaintained"`
	IsActive         bool       `json:"isActive"`
}

// Result describes one streak transition. Exactly one of the outcome
// flags combinations defined by Update is produced for every input.
type Result struct {
	Record     Record
	Increased  bool
	Maintained bool
	Broken     bool
	Message    string
	XPBonus    int
}

// Risk describes how close the current streak is to breaking.
type Risk struct {
	AtRisk        bool
	InGrace       bool
	MinutesNeeded int
	Deadline      time.Time
	Message       string
}
