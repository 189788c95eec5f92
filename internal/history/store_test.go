package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	runs := []Run{
		{ID: "run-1", StartedAt: base, DurationMS: 1200, Outcome: "success", CommitHash: "abc123"},
		{ID: "run-2", StartedAt: base.Add(30 * time.Minute), DurationMS: 40, Outcome: "up_to_date"},
		{ID: "run-3", StartedAt: base.Add(time.Hour), DurationMS: 900, Outcome: "failed", FailedStage: "fetch", Error: "connection refused"},
	}
	for _, r := range runs {
		require.NoError(t, store.Record(ctx, r))
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	require.Equal(t, "run-3", got[0].ID)
	require.Equal(t, "fetch", got[0].FailedStage)
	require.Equal(t, "connection refused", got[0].Error)
	require.Equal(t, "run-1", got[2].ID)
	require.Equal(t, "abc123", got[2].CommitHash)
	require.Equal(t, base.UnixMilli(), got[2].StartedAt.UnixMilli())
}

func TestStoreRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Run{
			ID:        string(rune('a' + i)),
			StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
			Outcome:   "success",
		}))
	}
	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Run{ID: "run-1", StartedAt: time.Now(), Outcome: "success"}))
	require.NoError(t, store.Close())

	store2, err := Open(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "run-1", got[0].ID)
}

func TestStoreDuplicateIDRejected(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	r := Run{ID: "run-1", StartedAt: time.Now(), Outcome: "success"}
	require.NoError(t, store.Record(context.Background(), r))
	require.Error(t, store.Record(context.Background(), r))
}
