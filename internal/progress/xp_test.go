package progress

import "testing"

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func TestNormalizeXP_FullPayload(t *testing.T) {
	got := NormalizeXP(XPState{
		Total:              1250,
		CurrentLevel:       5,
		XPToNextLevel:      iptr(150),
		CurrentLevelXP:     iptr(50),
		XPRequiredForLevel: iptr(200),
		ProgressPercentage: fptr(25),
	})

	if got.XPIntoLevel != 50 {
		t.Errorf("XPIntoLevel = %d, want 50", got.XPIntoLevel)
	}
	if got.XPToNextLevel != 150 {
		t.Errorf("XPToNextLevel = %d, want 150", got.XPToNextLevel)
	}
	if got.XPRequiredForLevel != 200 {
		t.Errorf("XPRequiredForLevel = %d, want 200", got.XPRequiredForLevel)
	}
	if got.ProgressPercentage != 25 {
		t.Errorf("ProgressPercentage = %f, want 25", got.ProgressPercentage)
	}
	if got.CumulativeXPForCurrentLevel != 1200 {
		t.Errorf("CumulativeXPForCurrentLevel = %d, want 1200", got.CumulativeXPForCurrentLevel)
	}
	if got.CumulativeXPForNextLevel != 1400 {
		t.Errorf("CumulativeXPForNextLevel = %d, want 1400", got.CumulativeXPForNextLevel)
	}
}

func TestNormalizeXP_DerivesRequiredFromParts(t *testing.T) {
	got := NormalizeXP(XPState{
		Total:          300,
		CurrentLevel:   2,
		XPToNextLevel:  iptr(70),
		CurrentLevelXP: iptr(30),
	})

	if got.XPRequiredForLevel != 100 {
		t.Errorf("XPRequiredForLevel = %d, want 100", got.XPRequiredForLevel)
	}
	if got.ProgressPercentage != 30 {
		t.Errorf("ProgressPercentage = %f, want 30", got.ProgressPercentage)
	}
}

func TestNormalizeXP_EmptyPayload(t *testing.T) {
	got := NormalizeXP(XPState{Total: 42, CurrentLevel: 1})

	// Required is floored at 1 so the percentage division stays safe.
	if got.XPRequiredForLevel != 1 {
		t.Errorf("XPRequiredForLevel = %d, want 1", got.XPRequiredForLevel)
	}
	if got.XPIntoLevel != 0 {
		t.Errorf("XPIntoLevel = %d, want 0", got.XPIntoLevel)
	}
	if got.XPToNextLevel != 1 {
		t.Errorf("XPToNextLevel = %d, want 1", got.XPToNextLevel)
	}
}

func TestNormalizeXP_RepairsInconsistentRemainder(t *testing.T) {
	// 80 into a 100-XP level leaves 20, not the claimed 90. XPIntoLevel
	// is the trusted value.
	got := NormalizeXP(XPState{
		Total:              900,
		CurrentLevel:       4,
		XPToNextLevel:      iptr(90),
		CurrentLevelXP:     iptr(80),
		XPRequiredForLevel: iptr(100),
	})

	if got.XPToNextLevel != 20 {
		t.Errorf("XPToNextLevel = %d, want 20 (repaired)", got.XPToNextLevel)
	}
	if got.XPIntoLevel+got.XPToNextLevel != got.XPRequiredForLevel {
		t.Errorf("invariant broken: %d + %d != %d", got.XPIntoLevel, got.XPToNextLevel, got.XPRequiredForLevel)
	}
}

func TestNormalizeXP_ClampsPercentage(t *testing.T) {
	got := NormalizeXP(XPState{Total: 10, CurrentLevel: 1, ProgressPercentage: fptr(140)})
	if got.ProgressPercentage != 100 {
		t.Errorf("ProgressPercentage = %f, want 100", got.ProgressPercentage)
	}

	got = NormalizeXP(XPState{Total: 10, CurrentLevel: 1, ProgressPercentage: fptr(-3)})
	if got.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %f, want 0", got.ProgressPercentage)
	}
}

// TestNormalizeXP_InvariantSweep exercises every presence combination of
// the optional fields over a grid of values and checks the output
// invariants hold for all of them.
func TestNormalizeXP_InvariantSweep(t *testing.T) {
	values := []int{-50, 0, 1, 30, 100, 250}
	pcts := []float64{-10, 0, 42.5, 100, 180}

	check := func(raw XPState) {
		t.Helper()
		got := NormalizeXP(raw)
		if got.XPRequiredForLevel < 1 {
			t.Fatalf("XPRequiredForLevel = %d < 1 for %+v", got.XPRequiredForLevel, raw)
		}
		if got.XPIntoLevel+got.XPToNextLevel != got.XPRequiredForLevel {
			t.Fatalf("invariant broken for %+v: %d + %d != %d",
				raw, got.XPIntoLevel, got.XPToNextLevel, got.XPRequiredForLevel)
		}
		if got.ProgressPercentage < 0 || got.ProgressPercentage > 100 {
			t.Fatalf("ProgressPercentage = %f out of range for %+v", got.ProgressPercentage, raw)
		}
		if got.XPIntoLevel < 0 || got.XPToNextLevel < 0 {
			t.Fatalf("negative level parts for %+v: %+v", raw, got)
		}
	}

	var next, into, required *int
	for _, hasNext := range []bool{false, true} {
		for _, hasInto := range []bool{false, true} {
			for _, hasRequired := range []bool{false, true} {
				for _, v := range values {
					next, into, required = nil, nil, nil
					if hasNext {
						next = iptr(v)
					}
					if hasInto {
						into = iptr(v / 2)
					}
					if hasRequired {
						required = iptr(v)
					}
					check(XPState{Total: 500, CurrentLevel: 3, XPToNextLevel: next, CurrentLevelXP: into, XPRequiredForLevel: required})
					for _, p := range pcts {
						check(XPState{Total: 500, CurrentLevel: 3, XPToNextLevel: next, CurrentLevelXP: into, XPRequiredForLevel: required, ProgressPercentage: fptr(p)})
					}
				}
			}
		}
	}
}
