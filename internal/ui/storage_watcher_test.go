package ui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tilefinder/tilefinder/internal/statedb"
)

func newTestDB(t *testing.T) *statedb.StateDB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	db, err := statedb.OpenMigrated(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const testPoll = 20 * time.Millisecond

func TestStorageWatcher_DetectsChanges(t *testing.T) {
	db := newTestDB(t)
	watcher := NewStorageWatcher(db, testPoll)
	defer watcher.Close()
	watcher.Start()

	// Another process touching the metadata.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, db.Touch())

	select {
	case <-watcher.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal")
	}
}

func TestStorageWatcher_NotifySaveIgnoresOwnChanges(t *testing.T) {
	db := newTestDB(t)
	watcher := NewStorageWatcher(db, time.Hour)
	defer watcher.Close()

	watcher.NotifySave()
	require.NoError(t, db.SaveFavorites([]string{"minecraft:overworld:1:2:3"}))
	watcher.poll()

	select {
	case <-watcher.Changes():
		t.Fatal("own save should not signal")
	default:
	}
}

type fakeClock struct{ ts int64 }

func (c *fakeClock) LastModified() (int64, error) { return c.ts, nil }

func TestStorageWatcher_SignalsOncePerChange(t *testing.T) {
	clock := &fakeClock{ts: 10}
	watcher := NewStorageWatcher(clock, time.Hour)
	defer watcher.Close()

	watcher.poll()
	select {
	case <-watcher.Changes():
		t.Fatal("unchanged timestamp should not signal")
	default:
	}

	clock.ts = 20
	watcher.poll()
	watcher.poll()
	select {
	case <-watcher.Changes():
	default:
		t.Fatal("expected a signal")
	}
	select {
	case <-watcher.Changes():
		t.Fatal("second poll of the same timestamp should not signal")
	default:
	}
}

func TestStorageWatcher_CloseIsIdempotent(t *testing.T) {
	watcher := NewStorageWatcher(&fakeClock{}, testPoll)
	watcher.Start()
	watcher.Close()
	watcher.Close()
}
