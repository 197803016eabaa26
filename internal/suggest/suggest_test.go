package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex() *Index {
	ix := New()
	ix.Rebuild(
		[]string{"Furnace", "Chest", "chest", "Crafting Table", "Chest", ""},
		[]string{"minecraft", "ironchest", "mekanism", "ironchest"},
	)
	return ix
}

func TestRebuildOrdersAndDedupes(t *testing.T) {
	ix := newIndex()
	assert.Equal(t, []string{"Chest", "chest", "Crafting Table", "Furnace"}, ix.Names())
	assert.Equal(t, []string{"ironchest", "mekanism", "minecraft"}, ix.Sources())
}

func TestComplete(t *testing.T) {
	ix := newIndex()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ch", "Chest", true},
		{"CR", "Crafting Table", true},
		{"fur", "Furnace", true},
		{"zzz", "", false},
		{"@m", "@mekanism", true},
		{"@MI", "@minecraft", true},
		{"@", "@ironchest", true},
		{"@x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ix.Complete(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompleteEmptyIndex(t *testing.T) {
	_, ok := New().Complete("a")
	assert.False(t, ok)
}

func TestRank(t *testing.T) {
	ix := newIndex()

	got := ix.Rank("ct", 10)
	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Contains(t, []string{"Chest", "chest", "Crafting Table"}, s.Value)
	}

	src := ix.Rank("@mk", 10)
	require.Len(t, src, 1)
	assert.Equal(t, "@mekanism", src[0].Value)
	assert.Equal(t, 1, src[0].Matched[0], "match offsets account for the sigil")

	assert.Len(t, ix.Rank("c", 1), 1)
	assert.Nil(t, ix.Rank("", 5))
	assert.Nil(t, ix.Rank("@", 5))
}
