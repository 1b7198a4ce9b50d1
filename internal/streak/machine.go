package streak

import (
	"fmt"
	"time"
)

// XP bonus constants. Rescuing a streak from the grace period pays more
// than an ordinary consecutive-day increment, to reward recovery.
const (
	xpPerStreakDay        = 10
	xpBonusCap            = 100
	graceRescueMultiplier = 1.5
)

// Update applies today's practice minutes to the streak record and
// returns the transition. The function is total: every combination of
// history, calendar distance, grace state, and activity produces exactly
// one defined outcome, and it never fails.
//
// Negative minutesAdded is clamped to zero; practice time only grows
// within a day.
func Update(rec Record, minutesAdded int, tier Tier, now time.Time) Result {
	if minutesAdded < 0 {
		minutesAdded = 0
	}
	cfg := tier.Config()
	now = now.UTC()

	today := rec.TodayMinutes + minutesAdded
	active := today >= cfg.MinimumDailyMinutes
	needed := cfg.MinimumDailyMinutes - today

	rec.TodayMinutes = today
	rec.IsActive = active

	if rec.LastActivityDate == nil {
		return startOrWait(rec, cfg, active, needed, now)
	}

	last := rec.LastActivityDate.UTC()
	switch days := calendarDaysBetween(last, now); {
	case days == 0:
		return sameDay(rec, active, needed)
	case days == 1:
		return consecutiveDay(rec, active, needed, now)
	default:
		deadline := last.Add(24*time.Hour + cfg.GracePeriod)
		if !now.After(deadline) {
			return gracePeriod(rec, active, deadline, now)
		}
		return broken(rec, cfg, active, now)
	}
}

// startOrWait: no prior goal-met day on record.
func startOrWait(rec Record, cfg TierConfig, active bool, needed int, now time.Time) Result {
	if !active {
		rec.StreakMaintained = false
		return Result{
			Record:  rec,
			Message: fmt.Sprintf("%d more minutes today to start your streak", needed),
		}
	}
	rec.Current = 1
	rec.Longest = maxInt(rec.Longest, 1)
	rec.LastActivityDate = &now
	rec.StreakMaintained = true
	return Result{
		Record:     rec,
		Increased:  true,
		Maintained: true,
		Message:    "Streak started! Practice every day to keep it going.",
		XPBonus:    bonus(1, false),
	}
}

// sameDay: the goal day on record is today; the count never moves, only
// the messaging.
func sameDay(rec Record, active bool, needed int) Result {
	if !active {
		return Result{
			Record:     rec,
			Maintained: rec.StreakMaintained,
			Message:    fmt.Sprintf("%d more minutes to keep your streak today", needed),
		}
	}
	if rec.StreakMaintained {
		return Result{
			Record:     rec,
			Maintained: true,
			Message:    fmt.Sprintf("Streak safe for today — %d days and counting", rec.Current),
		}
	}
	rec.StreakMaintained = true
	return Result{
		Record:     rec,
		Maintained: true,
		Message:    "Daily goal met!",
	}
}

// consecutiveDay: exactly one calendar day after the last goal-met day.
func consecutiveDay(rec Record, active bool, needed int, now time.Time) Result {
	if !active {
		rec.StreakMaintained = false
		return Result{
			Record:  rec,
			Message: fmt.Sprintf("Your %d-day streak needs %d more minutes today", rec.Current, needed),
		}
	}
	rec.Current++
	rec.Longest = maxInt(rec.Longest, rec.Current)
	rec.LastActivityDate = &now
	rec.StreakMaintained = true
	return Result{
		Record:     rec,
		Increased:  true,
		Maintained: true,
		Message:    fmt.Sprintf("%d-day streak!", rec.Current),
		XPBonus:    bonus(rec.Current, false),
	}
}

// gracePeriod: more than one day has passed but the tier's grace window
// is still open. An active day rescues the streak with continuity
// preserved — it increments, not restarts.
func gracePeriod(rec Record, active bool, deadline, now time.Time) Result {
	if !active {
		rec.StreakMaintained = false
		return Result{
			Record:  rec,
			Message: fmt.Sprintf("%s left to save your %d-day streak", formatRemaining(deadline.Sub(now)), rec.Current),
		}
	}
	rec.Current++
	rec.Longest = maxInt(rec.Longest, rec.Current)
	rec.LastActivityDate = &now
	rec.StreakMaintained = true
	return Result{
		Record:     rec,
		Increased:  true,
		Maintained: true,
		Message:    fmt.Sprintf("Streak rescued! %d days and counting", rec.Current),
		XPBonus:    bonus(rec.Current, true),
	}
}

// broken: the grace window has closed. An active day starts over at 1; an
// inactive one resets to 0.
func broken(rec Record, cfg TierConfig, active bool, now time.Time) Result {
	if !active {
		rec.Current = 0
		rec.StreakMaintained = false
		return Result{
			Record:  rec,
			Broken:  true,
			Message: fmt.Sprintf("Your streak ended. %d minutes today starts a new one.", cfg.MinimumDailyMinutes),
		}
	}
	rec.Current = 1
	rec.Longest = maxInt(rec.Longest, 1)
	rec.LastActivityDate = &now
	rec.StreakMaintained = true
	return Result{
		Record:    rec,
		Broken:    true,
		Increased: true,
		Message:   "Streak broken — but you're back! Day 1.",
		XPBonus:   bonus(1, false),
	}
}

// CheckRisk reports whether the streak needs attention right now, without
// mutating anything.
func CheckRisk(rec Record, tier Tier, now time.Time) Risk {
	if rec.Current == 0 || rec.LastActivityDate == nil {
		return Risk{Message: "No active streak"}
	}
	now = now.UTC()
	last := rec.LastActivityDate.UTC()

	if calendarDaysBetween(last, now) == 0 && rec.StreakMaintained {
		return Risk{Message: "Streak safe for today"}
	}

	cfg := tier.Config()
	deadline := last.Add(24*time.Hour + cfg.GracePeriod)
	if now.After(deadline) {
		return Risk{Message: "Streak already broken"}
	}

	needed := cfg.MinimumDailyMinutes - rec.TodayMinutes
	if needed < 0 {
		needed = 0
	}
	return Risk{
		AtRisk:        true,
		InGrace:       now.After(last.Add(24 * time.Hour)),
		MinutesNeeded: needed,
		Deadline:      deadline,
		Message: fmt.Sprintf("%d minutes of practice within %s keeps your %d-day streak",
			needed, formatRemaining(deadline.Sub(now)), rec.Current),
	}
}

// bonus scales with the post-update streak length, capped, with a higher
// multiplier for grace-period rescues.
func bonus(current int, rescued bool) int {
	b := xpPerStreakDay * current
	if b > xpBonusCap {
		b = xpBonusCap
	}
	if rescued {
		b = int(float64(b) * graceRescueMultiplier)
	}
	return b
}

// calendarDaysBetween counts UTC calendar-day boundaries crossed between
// a and b.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
