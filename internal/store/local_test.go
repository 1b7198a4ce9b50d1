package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/streak"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocalState_StreakRoundtrip(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	rec, err := local.LoadStreak(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec, "empty database should yield no record")

	last := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	want := streak.Record{
		Current:          7,
		Longest:          12,
		LastActivityDate: &last,
		TodayMinutes:     8,
		StreakMaintained: true,
		IsActive:         true,
	}
	require.NoError(t, local.SaveStreak(ctx, want))

	got, err := local.LoadStreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Current, got.Current)
	assert.Equal(t, want.Longest, got.Longest)
	require.NotNil(t, got.LastActivityDate)
	assert.True(t, got.LastActivityDate.Equal(last))
	assert.Equal(t, want.TodayMinutes, got.TodayMinutes)
	assert.True(t, got.StreakMaintained)
}

func TestLocalState_SaveStreakOverwrites(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	require.NoError(t, local.SaveStreak(ctx, streak.Record{Current: 1}))
	require.NoError(t, local.SaveStreak(ctx, streak.Record{Current: 2}))

	got, err := local.LoadStreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Current)
}

func TestLocalState_DeleteStreak(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	require.NoError(t, local.SaveStreak(ctx, streak.Record{Current: 4}))
	require.NoError(t, local.DeleteStreak(ctx))

	got, err := local.LoadStreak(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op, not an error.
	require.NoError(t, local.DeleteStreak(ctx))
}

func TestLocalState_SessionMinutesAccumulate(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	total, err := local.AddSessionMinutes(ctx, "2026-03-10", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	total, err = local.AddSessionMinutes(ctx, "2026-03-10", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	// A different day accumulates independently.
	total, err = local.AddSessionMinutes(ctx, "2026-03-11", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	total, err = local.SessionMinutes(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	total, err = local.SessionMinutes(ctx, "2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, 0, total, "unseen day reads as zero")
}

func TestLocalState_MessageAccuracy(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	got, err := local.MessageAccuracy(ctx, "msg-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	adjusted := 90.0
	want := progress.Accuracy{Overall: 87.5, AdjustedOverall: &adjusted, Source: "scorer"}
	require.NoError(t, local.SaveMessageAccuracy(ctx, "msg-1", want))

	got, err = local.MessageAccuracy(ctx, "msg-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Overall, got.Overall)
	require.NotNil(t, got.AdjustedOverall)
	assert.Equal(t, adjusted, *got.AdjustedOverall)
	assert.Equal(t, "scorer", got.Source)
}

func TestLocalState_ClearAccuracyCacheLeavesStreakIntact(t *testing.T) {
	local := testStore(t).Local()
	ctx := context.Background()

	require.NoError(t, local.SaveMessageAccuracy(ctx, "msg-1", progress.Accuracy{Overall: 80}))
	require.NoError(t, local.SaveMessageAccuracy(ctx, "msg-2", progress.Accuracy{Overall: 90}))
	require.NoError(t, local.SaveStreak(ctx, streak.Record{Current: 3}))

	require.NoError(t, local.ClearAccuracyCache(ctx))

	for _, id := range []string{"msg-1", "msg-2"} {
		got, err := local.MessageAccuracy(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got, "accuracy %s should be gone", id)
	}

	rec, err := local.LoadStreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec, "clear must not touch the streak record")
	assert.Equal(t, 3, rec.Current)
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Local().SaveStreak(ctx, streak.Record{Current: 9}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.Local().LoadStreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 9, rec.Current)
}
