package progress

// NormalizeXP turns a raw, possibly partial XP payload into a fully
// populated Level. It never fails: missing fields are derived from the
// ones present, and inconsistent combinations are repaired by recomputing
// the remainder from the required total (XPIntoLevel is the trusted
// value). Deterministic and side-effect-free.
func NormalizeXP(raw XPState) Level {
	required := 0
	switch {
	case raw.XPRequiredForLevel != nil:
		required = *raw.XPRequiredForLevel
	case raw.CurrentLevelXP != nil && raw.XPToNextLevel != nil:
		required = *raw.CurrentLevelXP + *raw.XPToNextLevel
	}
	// Floor at 1 to keep the percentage division safe.
	if required < 1 {
		required = 1
	}

	into := 0
	switch {
	case raw.CurrentLevelXP != nil:
		into = *raw.CurrentLevelXP
	case raw.XPToNextLevel != nil:
		into = required - *raw.XPToNextLevel
	}
	into = clampInt(into, 0, required)

	remaining := required - into
	if raw.XPToNextLevel != nil {
		remaining = clampInt(*raw.XPToNextLevel, 0, required)
	}
	if into+remaining != required {
		remaining = required - into
	}

	pct := float64(into) / float64(required) * 100
	if raw.ProgressPercentage != nil {
		pct = *raw.ProgressPercentage
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	cumCurrent := raw.Total - into
	if raw.CumulativeXPForCurrentLevel != nil {
		cumCurrent = *raw.CumulativeXPForCurrentLevel
	}
	cumNext := cumCurrent + required
	if raw.CumulativeXPForNextLevel != nil {
		cumNext = *raw.CumulativeXPForNextLevel
	}

	prestige := 0
	if raw.PrestigeLevel != nil {
		prestige = *raw.PrestigeLevel
	}

	return Level{
		Total:                       raw.Total,
		CurrentLevel:                raw.CurrentLevel,
		XPIntoLevel:                 into,
		XPToNextLevel:               remaining,
		XPRequiredForLevel:          required,
		ProgressPercentage:          pct,
		CumulativeXPForCurrentLevel: cumCurrent,
		CumulativeXPForNextLevel:    cumNext,
		PrestigeLevel:               prestige,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
