package progress

import "math"

// HasChanged reports whether the delta between the previously known update
// and the current one is significant: XP total, XP progress percentage,
// overall accuracy, or streak count. A nil previous always counts as a
// change (first observation).
//
// Comparisons are exact. XP total and streak are integers; accuracy is
// rounded upstream. The percentage is compared in integer basis points so
// a future float-valued server percentage cannot report "changed" forever
// under floating-point noise.
func HasChanged(prev *Update, cur Update) bool {
	if prev == nil {
		return true
	}
	return prev.Level.Total != cur.Level.Total ||
		basisPoints(prev.Level.ProgressPercentage) != basisPoints(cur.Level.ProgressPercentage) ||
		prev.Accuracy.Overall != cur.Accuracy.Overall ||
		prev.Streak != cur.Streak
}

// AccuracyChanged reports whether the accuracy sub-object moved between
// two updates. Drives the optional OnAccuracyUpdate dispatch.
func AccuracyChanged(prev *Update, cur Update) bool {
	if prev == nil {
		return true
	}
	return prev.Accuracy.Overall != cur.Accuracy.Overall ||
		!eqFloatPtr(prev.Accuracy.AdjustedOverall, cur.Accuracy.AdjustedOverall) ||
		!eqIntPtr(prev.Accuracy.MessageCount, cur.Accuracy.MessageCount)
}

func basisPoints(pct float64) int {
	return int(math.Round(pct * 100))
}

func eqFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
