// Package progress implements the client-side progress synchronization
// core: a freshness cache over the backend's snapshot endpoints, a
// significant-change detector, a bounded polling engine with a per-user
// listener registry, and the XP/level normalizer that repairs partially
// populated server payloads.
package progress

import "time"

// Accuracy is the per-user accuracy breakdown produced by the backend
// scorer. Only Overall and Source are guaranteed; the rest depend on how
// many messages the scorer has seen.
type Accuracy struct {
	Overall         float64    `json:"overall"`
	AdjustedOverall *float64   `json:"adjustedOverall,omitempty"`
	Grammar         *float64   `json:"grammar,omitempty"`
	Vocabulary      *float64   `json:"vocabulary,omitempty"`
	Spelling        *float64   `json:"spelling,omitempty"`
	Fluency         *float64   `json:"fluency,omitempty"`
	Punctuation     *float64   `json:"punctuation,omitempty"`
	Capitalization  *float64   `json:"capitalization,omitempty"`
	MessageCount    *int       `json:"messageCount,omitempty"`
	LastUpdated     *time.Time `json:"lastUpdated,omitempty"`
	Source          string     `json:"source"`
}

// StreakInfo is the server's view of the daily streak. The locally
// persisted streak record remains authoritative within a session.
type StreakInfo struct {
	Current int `json:"current"`
}

// XPState is the raw XP object as the server sends it. Optional fields are
// pointers so the normalizer can distinguish "absent" from "zero".
type XPState struct {
	Total                       int      `json:"total"`
	CurrentLevel                int      `json:"currentLevel"`
	XPToNextLevel               *int     `json:"xpToNextLevel,omitempty"`
	CurrentLevelXP              *int     `json:"currentLevelXP,omitempty"`
	XPRequiredForLevel          *int     `json:"xpRequiredForLevel,omitempty"`
	ProgressPercentage          *float64 `json:"progressPercentage,omitempty"`
	CumulativeXPForCurrentLevel *int     `json:"cumulativeXPForCurrentLevel,omitempty"`
	CumulativeXPForNextLevel    *int     `json:"cumulativeXPForNextLevel,omitempty"`
	PrestigeLevel               *int     `json:"prestigeLevel,omitempty"`
}

// Stats carries lifetime practice totals.
type Stats struct {
	TotalMessages int `json:"totalMessages"`
	TotalMinutes  int `json:"totalMinutes"`
}

// Snapshot is a single immutable server response describing XP, accuracy,
// streak, and stats at one instant.
type Snapshot struct {
	Streak     StreakInfo `json:"streak"`
	Accuracy   Accuracy   `json:"accuracy"`
	XP         XPState    `json:"xp"`
	Stats      Stats      `json:"stats"`
	LastUpdate time.Time  `json:"lastUpdate"`
	Source     string     `json:"source"`
}

// Dashboard is the heavier snapshot backing the dashboard view.
type Dashboard struct {
	Snapshot          Snapshot `json:"snapshot"`
	WeeklyXP          []DayXP  `json:"weeklyXP,omitempty"`
	TotalPracticeDays int      `json:"totalPracticeDays"`
}

// DayXP is one day's XP total within the dashboard's weekly series.
type DayXP struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

// Level is the fully populated output of the XP normalizer. Invariant:
// XPIntoLevel + XPToNextLevel == XPRequiredForLevel.
type Level struct {
	Total                       int
	CurrentLevel                int
	XPIntoLevel                 int
	XPToNextLevel               int
	XPRequiredForLevel          int
	ProgressPercentage          float64
	CumulativeXPForCurrentLevel int
	CumulativeXPForNextLevel    int
	PrestigeLevel               int
}

// Update is the UI-facing view of a snapshot, enriched with the delta
// against the previously known one. It is replaced wholesale on each
// significant change, never mutated in place.
type Update struct {
	Streak    int
	Accuracy  Accuracy
	Level     Level
	Stats     Stats
	Gained    int
	LeveledUp bool
	Timestamp time.Time
}

// LevelUp describes a level increase detected by the polling engine.
type LevelUp struct {
	NewLevel int
	OldLevel int
	XPGained int
}
