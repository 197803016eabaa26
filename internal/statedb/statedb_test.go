package statedb

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *StateDB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	v, err := db.GetMeta(MetaSchemaVersion)
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if v != "1" {
		t.Errorf("schema_version = %q, want 1", v)
	}
}

func TestFavoritesRoundTripAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	db1, err := OpenMigrated(dbPath)
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	if err := db1.SaveFavorites([]string{"overworld:1:64:2", "nether:0:0:0"}); err != nil {
		t.Fatalf("SaveFavorites: %v", err)
	}
	db1.Close()

	db2, err := OpenMigrated(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	keys, err := db2.LoadFavorites()
	if err != nil {
		t.Fatalf("LoadFavorites: %v", err)
	}
	if len(keys) != 2 || keys[0] != "nether:0:0:0" || keys[1] != "overworld:1:64:2" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestSaveFavoritesReplacesSet(t *testing.T) {
	db := newTestDB(t)

	if err := db.SaveFavorites([]string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveFavorites([]string{"b", "d"}); err != nil {
		t.Fatal(err)
	}
	keys, err := db.LoadFavorites()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "d" {
		t.Errorf("expected [b d], got %v", keys)
	}

	if err := db.SaveFavorites(nil); err != nil {
		t.Fatal(err)
	}
	keys, _ = db.LoadFavorites()
	if len(keys) != 0 {
		t.Errorf("expected empty set, got %v", keys)
	}

	ts, err := db.LastModified()
	if err != nil {
		t.Fatal(err)
	}
	if ts == 0 {
		t.Error("SaveFavorites should touch last_modified")
	}
}

func TestHistoryOrder(t *testing.T) {
	db := newTestDB(t)

	if err := db.SaveHistory([]string{"chest", "@ironchest", "furnace"}); err != nil {
		t.Fatal(err)
	}
	got, err := db.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"chest", "@ironchest", "furnace"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}

	if err := db.SaveHistory([]string{"only"}); err != nil {
		t.Fatal(err)
	}
	got, _ = db.LoadHistory()
	if len(got) != 1 || got[0] != "only" {
		t.Errorf("expected history replaced, got %v", got)
	}
}

func TestMeta(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetMeta("last_group_mode")
	if err != nil || v != "" {
		t.Fatalf("missing key: got %q, %v", v, err)
	}
	if err := db.SetMeta("last_group_mode", "name"); err != nil {
		t.Fatal(err)
	}
	v, _ = db.GetMeta("last_group_mode")
	if v != "name" {
		t.Errorf("GetMeta = %q, want name", v)
	}

	if ts, _ := db.LastModified(); ts != 0 {
		t.Errorf("expected zero timestamp before Touch, got %d", ts)
	}
	if err := db.Touch(); err != nil {
		t.Fatal(err)
	}
	if ts, _ := db.LastModified(); ts == 0 {
		t.Error("expected non-zero timestamp after Touch")
	}
}

func TestImportFavoritesFile(t *testing.T) {
	db := newTestDB(t)
	if err := db.AddFavorite("overworld:1:2:3"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "tilefinder-client.toml")
	legacy := "defaultRadius = 24\nfavorites = [\"overworld:1:2:3\", \" \", \"nether:4:5:6\"]\n"
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := ImportFavoritesFile(path, db)
	if err != nil {
		t.Fatalf("ImportFavoritesFile: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}
	keys, _ := db.LoadFavorites()
	if len(keys) != 2 {
		t.Errorf("expected 2 stored favorites, got %v", keys)
	}

	if _, err := ImportFavoritesFile(filepath.Join(t.TempDir(), "missing.toml"), db); err == nil {
		t.Error("expected error for missing file")
	}
}
