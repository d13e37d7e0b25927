package main

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	assert.Equal(t, "", db.GetSetting("missing"))
	require.NoError(t, db.SetSetting("k", "one"))
	assert.Equal(t, "one", db.GetSetting("k"))
	require.NoError(t, db.SetSetting("k", "two"))
	assert.Equal(t, "two", db.GetSetting("k"))
}

func TestSnapshotStorage(t *testing.T) {
	db := openTestDB(t)
	l := emptyLevel(t, nil)
	addSeeker(l, Vec(500, 500))
	l.Tick = 77

	require.NoError(t, db.SaveSnapshot("snap-1", "sid-1", l.Snapshot()))

	snap, err := db.LoadSnapshot("snap-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(77), snap.Tick)
	assert.Equal(t, l.Player.Position, snap.Player.Position)
	require.Len(t, snap.AI, 1)
	assert.Equal(t, l.AI[0].ID, snap.AI[0].ID)

	// saving again under the same id replaces it
	l.Tick = 80
	require.NoError(t, db.SaveSnapshot("snap-1", "sid-1", l.Snapshot()))
	snap, err = db.LoadSnapshot("snap-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(80), snap.Tick)

	snap, err = db.TakeSnapshot("snap-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(80), snap.Tick)
	_, err = db.LoadSnapshot("snap-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestTakeSnapshotOnce(t *testing.T) {
	db := openTestDB(t)
	l := emptyLevel(t, nil)
	require.NoError(t, db.SaveSnapshot("once", "sid", l.Snapshot()))

	const takers = 8
	var wg sync.WaitGroup
	var taken, missing atomic.Int32
	for i := 0; i < takers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.TakeSnapshot("once")
			switch {
			case err == nil:
				taken.Add(1)
			case errors.Is(err, ErrSnapshotNotFound):
				missing.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), taken.Load())
	assert.Equal(t, int32(takers-1), missing.Load())

	_, err := db.TakeSnapshot("once")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestPruneSnapshots(t *testing.T) {
	db := openTestDB(t)
	l := emptyLevel(t, nil)
	require.NoError(t, db.SaveSnapshot("a", "sid", l.Snapshot()))
	require.NoError(t, db.SaveSnapshot("b", "sid", l.Snapshot()))

	n, err := db.PruneSnapshots(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "fresh snapshots are kept")

	n, err = db.PruneSnapshots(-time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = db.LoadSnapshot("a")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestResults(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.RecentResults(10)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	for i, outcome := range []string{"won", "lost", "won"} {
		_, err := db.RecordResult(ResultRow{
			SessionID:  "sid",
			Outcome:    outcome,
			Difficulty: "hard",
			Ticks:      uint64(100 * (i + 1)),
			LivesLost:  i,
			Destroyed:  10 - i,
		})
		require.NoError(t, err)
	}

	rows, err = db.RecentResults(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(300), rows[0].Ticks, "newest first")
	assert.Equal(t, "lost", rows[1].Outcome)
	assert.Equal(t, 8, rows[0].Destroyed)
	assert.False(t, rows[0].CreatedAt.IsZero())
}
