package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefinder/tilefinder/internal/finder"
	"github.com/tilefinder/tilefinder/internal/world"
)

const testWorld = "testdata/world.toml"

func newTestState(t *testing.T) *appState {
	t.Helper()
	st, err := openState()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunListTable(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	require.NoError(t, runList(&out, st, testWorld, listOptions{Group: "none", Sort: "distance", Page: 1, PageSize: 45}))

	text := out.String()
	assert.Contains(t, text, "Large Chest")
	assert.Contains(t, text, "Iron Chest")
	assert.Contains(t, text, "Smeltery")
	assert.Contains(t, text, "Page 1/1 · 6 rows · 6 found · 7 scanned")

	// Nearest first.
	assert.Less(t, strings.Index(text, "Large Chest"), strings.Index(text, "Smeltery"))
}

func TestRunListSourceFilter(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	require.NoError(t, runList(&out, st, testWorld, listOptions{Filter: "@ironchest", Group: "none", Sort: "distance", Page: 1}))

	text := out.String()
	assert.Contains(t, text, "Iron Chest")
	assert.Contains(t, text, "Iron Chests")
	assert.NotContains(t, text, "Smeltery")
}

func TestRunListJSONPages(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	require.NoError(t, runList(&out, st, testWorld, listOptions{Group: "none", Sort: "name", Page: 2, PageSize: 4, JSON: true}))

	var got struct {
		Total int          `json:"total"`
		Page  int          `json:"page"`
		Pages int          `json:"pages"`
		Sort  string       `json:"sort"`
		Rows  []finder.Row `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, "name", got.Sort)
	assert.Len(t, got.Rows, 2)
}

func TestRunListGroupByName(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	require.NoError(t, runList(&out, st, testWorld, listOptions{Filter: "furnace", Group: "name", Sort: "distance", Page: 1}))
	assert.Contains(t, out.String(), "x3")
}

func TestRunListBadMode(t *testing.T) {
	st := newTestState(t)
	err := runList(&bytes.Buffer{}, st, testWorld, listOptions{Group: "sideways"})
	assert.Error(t, err)
}

func TestRunListWithoutWorld(t *testing.T) {
	st := newTestState(t)
	err := runList(&bytes.Buffer{}, st, "", listOptions{})
	assert.ErrorIs(t, err, errNoWorld)
}

func TestRunTypes(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	require.NoError(t, runTypes(&out, st, testWorld, 0, "", false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	// Four furnaces (three plus the named one) beat one of each chest.
	assert.Contains(t, lines[1], "minecraft:furnace")
	assert.Contains(t, lines[1], "4")
}

func TestRunTypesFilter(t *testing.T) {
	st := newTestState(t)
	types := func(filter string) []string {
		var out bytes.Buffer
		require.NoError(t, runTypes(&out, st, testWorld, 0, filter, true))
		var counts []finder.TypeCount
		require.NoError(t, json.Unmarshal(out.Bytes(), &counts))
		var got []string
		for _, c := range counts {
			got = append(got, string(c.Type))
		}
		return got
	}

	assert.Equal(t, []string{"ironchest:iron_chest"}, types("@iron"))
	assert.Equal(t, []string{"ironchest:iron_chest"}, types("iron_chest"))
	assert.Equal(t, []string{"minecraft:furnace"}, types("FURNACE"))
	assert.Empty(t, types("smeltery"))

	var out bytes.Buffer
	require.NoError(t, runTypes(&out, st, testWorld, 0, "zzz", false))
	assert.Equal(t, "Nothing found.\n", out.String())
}

func TestRunComplete(t *testing.T) {
	st := newTestState(t)

	var out bytes.Buffer
	require.NoError(t, runComplete(&out, st, testWorld, "sme", 0))
	assert.Equal(t, "Smeltery\n", out.String())

	out.Reset()
	require.NoError(t, runComplete(&out, st, testWorld, "@iron", 0))
	assert.Equal(t, "@ironchest\n", out.String())

	assert.Error(t, runComplete(&bytes.Buffer{}, st, testWorld, "zzz", 0))
}

func TestChangeFavorite(t *testing.T) {
	st := newTestState(t)
	key := finder.FavoriteKey("minecraft:overworld", world.Pos{X: 2, Y: 64, Z: 0})

	added, err := changeFavorite(st, "toggle", key)
	require.NoError(t, err)
	assert.True(t, added)

	stored, err := st.db.LoadFavorites()
	require.NoError(t, err)
	assert.Contains(t, stored, key)

	var out bytes.Buffer
	require.NoError(t, runList(&out, st, testWorld, listOptions{Group: "none", Sort: "distance", Page: 1}))
	assert.Contains(t, out.String(), starSymbol+" Large Chest")

	added, err = changeFavorite(st, "remove", key)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = changeFavorite(st, "add", "not-a-key")
	assert.Error(t, err)
}

func TestRemoveMissingFavoriteSkipsSave(t *testing.T) {
	st := newTestState(t)
	key := finder.FavoriteKey("minecraft:overworld", world.Pos{X: 9, Y: 9, Z: 9})
	// Written by another process after this one loaded its favorites.
	other := finder.FavoriteKey("minecraft:overworld", world.Pos{X: 1, Y: 2, Z: 3})
	require.NoError(t, st.db.SaveFavorites([]string{other}))
	t.Cleanup(func() { st.db.SaveFavorites(nil) })

	added, err := changeFavorite(st, "remove", key)
	assert.ErrorIs(t, err, errNotFavorite)
	assert.False(t, added)

	stored, err := st.db.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{other}, stored)
}

func TestApplyModes(t *testing.T) {
	st := newTestState(t)
	wld, err := st.openWorld(testWorld)
	require.NoError(t, err)
	s := st.newSession(wld, 0, nil)

	require.NoError(t, applyModes(s, "source", "source"))
	assert.Equal(t, finder.GroupBySource, s.Query().Group)
	assert.Equal(t, finder.SortSource, s.Query().Sort)
	assert.Equal(t, finder.GroupBySource, s.Result().Query.Group)

	prefs, err := finder.LoadPreferences(st.db)
	require.NoError(t, err)
	assert.Equal(t, finder.Preferences{Group: finder.GroupBySource, Sort: finder.SortSource}, prefs)
	t.Cleanup(func() { finder.SavePreferences(st.db, finder.Preferences{}) })

	assert.Error(t, applyModes(s, "sideways", ""))
}

func TestListFavorites(t *testing.T) {
	st := newTestState(t)
	key := finder.FavoriteKey("minecraft:the_nether", world.Pos{X: -1, Y: 30, Z: 7})
	_, err := changeFavorite(st, "add", key)
	require.NoError(t, err)
	t.Cleanup(func() { changeFavorite(st, "remove", key) })

	var out bytes.Buffer
	require.NoError(t, listFavorites(&out, st, false))
	assert.Contains(t, out.String(), "-1, 30, 7")
	assert.Contains(t, out.String(), "minecraft:the_nether")
}

func TestTeleportCommand(t *testing.T) {
	tgt := finder.Target{Dimension: "minecraft:overworld", Pos: world.Pos{X: 2, Y: 64, Z: -3}}
	assert.Equal(t, "/execute in minecraft:overworld run tp @s 2 64 -3", teleportCommand(tgt))
}
