package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// scriptedFetcher counts fetches and serves configurable results.
type scriptedFetcher struct {
	realtimeCalls  int
	dashboardCalls int
	snap           *Snapshot
	dash           *Dashboard
	err            error
}

func (f *scriptedFetcher) FetchRealtime(ctx context.Context) (*Snapshot, error) {
	f.realtimeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *scriptedFetcher) FetchDashboard(ctx context.Context) (*Dashboard, error) {
	f.dashboardCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dash, nil
}

type fakeLocal struct {
	accuracyCleared bool
	streakDeleted   bool
}

func (l *fakeLocal) ClearAccuracyCache(ctx context.Context) error {
	l.accuracyCleared = true
	return nil
}

func (l *fakeLocal) DeleteStreak(ctx context.Context) error {
	l.streakDeleted = true
	return nil
}

func testSnapshot(total int) *Snapshot {
	return &Snapshot{
		Streak:   StreakInfo{Current: 3},
		Accuracy: Accuracy{Overall: 87.5, Source: "scorer"},
		XP:       XPState{Total: total, CurrentLevel: 5, XPToNextLevel: iptr(150), CurrentLevelXP: iptr(50)},
		Stats:    Stats{TotalMessages: 10, TotalMinutes: 25},
	}
}

func TestCache_ServesFreshValueWithoutFetch(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250)}
	c := NewCache(f, nil, clk, DefaultTimings())

	first, err := c.Realtime(context.Background(), false)
	if err != nil {
		t.Fatalf("first Realtime: %v", err)
	}

	clk.Advance(4 * time.Second) // still inside the 5s TTL
	second, err := c.Realtime(context.Background(), false)
	if err != nil {
		t.Fatalf("second Realtime: %v", err)
	}

	if f.realtimeCalls != 1 {
		t.Errorf("realtime fetches = %d, want 1", f.realtimeCalls)
	}
	if first != second {
		t.Error("cached call returned a different snapshot instance")
	}
}

func TestCache_RefetchesAfterTTL(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250)}
	c := NewCache(f, nil, clk, DefaultTimings())

	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	clk.Advance(5 * time.Second) // exactly at the TTL boundary: stale
	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime: %v", err)
	}

	if f.realtimeCalls != 2 {
		t.Errorf("realtime fetches = %d, want 2", f.realtimeCalls)
	}
}

func TestCache_ForceRefreshBypassesFreshEntry(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250)}
	c := NewCache(f, nil, clk, DefaultTimings())

	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if _, err := c.Realtime(context.Background(), true); err != nil {
		t.Fatalf("forced Realtime: %v", err)
	}

	if f.realtimeCalls != 2 {
		t.Errorf("realtime fetches = %d, want 2", f.realtimeCalls)
	}
}

func TestCache_FailedFetchKeepsStaleEntry(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250)}
	c := NewCache(f, nil, clk, DefaultTimings())

	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime: %v", err)
	}

	f.err = errors.New("backend down")
	clk.Advance(1 * time.Second)
	if _, err := c.Realtime(context.Background(), true); err == nil {
		t.Fatal("forced Realtime during outage: expected error")
	}

	// The entry from the original fetch is untouched and still fresh, so
	// a lazy get serves it without touching the network.
	f.err = nil
	calls := f.realtimeCalls
	snap, err := c.Realtime(context.Background(), false)
	if err != nil {
		t.Fatalf("Realtime after outage: %v", err)
	}
	if f.realtimeCalls != calls {
		t.Errorf("realtime fetches = %d, want %d (served stale-but-fresh entry)", f.realtimeCalls, calls)
	}
	if snap.XP.Total != 1250 {
		t.Errorf("XP total = %d, want 1250", snap.XP.Total)
	}
}

func TestCache_DashboardHasIndependentTTL(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250), dash: &Dashboard{Snapshot: *testSnapshot(1250)}}
	c := NewCache(f, nil, clk, DefaultTimings())

	if _, err := c.Dashboard(context.Background(), false); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	clk.Advance(20 * time.Second) // past realtime TTL, inside dashboard TTL
	if _, err := c.Dashboard(context.Background(), false); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if f.dashboardCalls != 1 {
		t.Errorf("dashboard fetches = %d, want 1", f.dashboardCalls)
	}
}

func TestCache_ClearWipesEntriesAndLocalState(t *testing.T) {
	clk := clockwork.NewFakeClock()
	f := &scriptedFetcher{snap: testSnapshot(1250)}
	local := &fakeLocal{}
	c := NewCache(f, local, clk, DefaultTimings())

	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if !local.accuracyCleared {
		t.Error("Clear did not wipe the accuracy cache")
	}
	if !local.streakDeleted {
		t.Error("Clear did not delete the streak record")
	}

	if _, err := c.Realtime(context.Background(), false); err != nil {
		t.Fatalf("Realtime after Clear: %v", err)
	}
	if f.realtimeCalls != 2 {
		t.Errorf("realtime fetches = %d, want 2 (entry emptied by Clear)", f.realtimeCalls)
	}
}
