package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSkipsEmptyAndRepeat(t *testing.T) {
	b := New()
	assert.False(t, b.Record(""))
	assert.True(t, b.Record("chest"))
	assert.False(t, b.Record("chest"))
	assert.True(t, b.Record("furnace"))
	assert.True(t, b.Record("chest"), "only the newest entry is compared")
	assert.Equal(t, []string{"chest", "furnace", "chest"}, b.Entries())
}

func TestCapacity(t *testing.T) {
	b := New()
	for i := 0; i < 25; i++ {
		b.Record(fmt.Sprintf("q%d", i))
	}
	require.Equal(t, Capacity, b.Len())
	entries := b.Entries()
	assert.Equal(t, "q5", entries[0])
	assert.Equal(t, "q24", entries[Capacity-1])
}

func TestNavigate(t *testing.T) {
	b := New()
	_, ok := b.Navigate(Older)
	assert.False(t, ok, "empty buffer has nothing to recall")

	b.Record("a")
	b.Record("b")
	b.Record("c")

	steps := []struct {
		dir  Direction
		want string
	}{
		{Older, "c"},
		{Older, "b"},
		{Older, "a"},
		{Older, "a"},
		{Newer, "b"},
		{Newer, "c"},
		{Newer, "c"},
	}
	for i, s := range steps {
		got, ok := b.Navigate(s.dir)
		require.True(t, ok)
		assert.Equal(t, s.want, got, "step %d", i)
	}
}

func TestNavigateNewerFromReset(t *testing.T) {
	b := New()
	b.Record("a")
	b.Record("b")

	got, ok := b.Navigate(Newer)
	require.True(t, ok)
	assert.Equal(t, "b", got, "clamped to the newest entry")
}

func TestResetAndRecordClearCursor(t *testing.T) {
	b := New()
	b.Record("a")
	b.Record("b")
	b.Navigate(Older)
	b.Navigate(Older)
	assert.Equal(t, 0, b.Cursor())

	b.Reset()
	assert.Equal(t, -1, b.Cursor())
	got, _ := b.Navigate(Older)
	assert.Equal(t, "b", got)

	b.Record("b")
	assert.Equal(t, -1, b.Cursor())
}

func TestRestore(t *testing.T) {
	var in []string
	for i := 0; i < 30; i++ {
		in = append(in, fmt.Sprintf("e%d", i))
	}
	b := New()
	b.Restore(in)
	assert.Equal(t, Capacity, b.Len())
	assert.Equal(t, "e10", b.Entries()[0])
	assert.Equal(t, -1, b.Cursor())
}
