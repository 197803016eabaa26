package favorites

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersistence struct {
	mu    sync.Mutex
	keys  []string
	saves int
	err   error
	saved chan struct{}
}

func newMemPersistence(keys ...string) *memPersistence {
	return &memPersistence{keys: keys, saved: make(chan struct{}, 16)}
}

func (m *memPersistence) LoadFavorites() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...), m.err
}

func (m *memPersistence) SaveFavorites(keys []string) error {
	m.mu.Lock()
	m.saves++
	if m.err == nil {
		m.keys = append([]string(nil), keys...)
	}
	err := m.err
	m.mu.Unlock()
	m.saved <- struct{}{}
	return err
}

func (m *memPersistence) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}

func TestToggleIdempotence(t *testing.T) {
	s := NewStore()
	key := "minecraft:overworld:1:64:2"

	assert.True(t, s.Toggle(key))
	assert.True(t, s.Contains(key))
	assert.False(t, s.Toggle(key))
	assert.False(t, s.Contains(key))
	assert.Equal(t, 0, s.Len())
}

func TestKeysSorted(t *testing.T) {
	s := NewStore("b", "a", "c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
	s.Clear()
	assert.Empty(t, s.Keys())
}

func TestChangesCoalesce(t *testing.T) {
	s := NewStore()
	s.Toggle("a")
	s.Toggle("b")
	s.Add("c")

	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}
	select {
	case <-s.Changes():
		t.Fatal("signals should coalesce into one")
	default:
	}

	s.Add("c")
	select {
	case <-s.Changes():
		t.Fatal("re-adding an existing key must not signal")
	default:
	}
}

func TestReplaceIsSilent(t *testing.T) {
	s := NewStore("old")
	s.Replace([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	select {
	case <-s.Changes():
		t.Fatal("Replace must not raise a change signal")
	default:
	}
}

func TestLoad(t *testing.T) {
	p := newMemPersistence("x", "y")
	s, err := Load(p)
	require.NoError(t, err)
	assert.True(t, s.Contains("x"))

	p.err = errors.New("disk gone")
	_, err = Load(p)
	assert.Error(t, err)
}

func TestSyncerPersistsChanges(t *testing.T) {
	p := newMemPersistence()
	s := NewStore()
	y := NewSyncer(s, p)

	ctx, cancel := context.WithCancel(context.Background())
	go y.Run(ctx)

	s.Toggle("overworld:0:0:0")
	select {
	case <-p.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not save")
	}
	assert.Equal(t, []string{"overworld:0:0:0"}, p.snapshot())

	cancel()
	<-y.Done()
}

func TestSyncerLogsSaveErrors(t *testing.T) {
	p := newMemPersistence()
	p.err = errors.New("read-only")
	s := NewStore()
	y := NewSyncer(s, p)

	ctx, cancel := context.WithCancel(context.Background())
	go y.Run(ctx)

	assert.True(t, s.Toggle("k"), "toggle succeeds even when persistence fails")
	select {
	case <-p.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not attempt a save")
	}

	cancel()
	<-y.Done()
	assert.True(t, s.Contains("k"))
}
