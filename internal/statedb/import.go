package statedb

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// legacyFavorites mirrors the client config file older releases kept
// favorites in: a flat list of "dimension:x:y:z" strings.
type legacyFavorites struct {
	Favorites []string `toml:"favorites"`
}

// ImportFavoritesFile reads a legacy favorites list and merges it into db.
// Returns the number of entries read. Blank entries are skipped; entries
// already stored are left as they are.
func ImportFavoritesFile(path string, db *StateDB) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	var legacy legacyFavorites
	if _, err := toml.Decode(string(data), &legacy); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	n := 0
	for _, key := range legacy.Favorites {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if err := db.AddFavorite(key); err != nil {
			return n, fmt.Errorf("import favorite %q: %w", key, err)
		}
		n++
	}
	if n > 0 {
		if err := db.Touch(); err != nil {
			return n, err
		}
	}
	return n, nil
}
