package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tilefinder/tilefinder/internal/config"
	"github.com/tilefinder/tilefinder/internal/finder"
	"github.com/tilefinder/tilefinder/internal/statedb"
)

func handleFavorites(args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	sub, rest := args[0], args[1:]
	switch sub {
	case "list", "ls":
		fs := flag.NewFlagSet("favorites list", flag.ExitOnError)
		jsonOutput := fs.Bool("json", false, "Output as JSON")
		_ = fs.Parse(rest)
		if err := listFavorites(os.Stdout, st, *jsonOutput); err != nil {
			fatalf("%v", err)
		}

	case "toggle", "add", "remove", "rm":
		if len(rest) != 1 {
			fatalf("usage: tilefinder favorites %s DIMENSION:X:Y:Z", sub)
		}
		added, err := changeFavorite(st, sub, rest[0])
		if errors.Is(err, errNotFavorite) {
			fmt.Printf("%s is not a favorite\n", rest[0])
			return
		}
		if err != nil {
			fatalf("%v", err)
		}
		if added {
			fmt.Printf("%s Added %s\n", successSymbol, rest[0])
		} else {
			fmt.Printf("%s Removed %s\n", successSymbol, rest[0])
		}

	case "clear":
		n := st.shared.Favorites.Len()
		st.shared.Favorites.Clear()
		if err := st.saveFavorites(); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("%s Cleared %d favorites\n", successSymbol, n)

	case "import":
		if len(rest) != 1 {
			fatalf("usage: tilefinder favorites import FILE")
		}
		n, err := statedb.ImportFavoritesFile(rest[0], st.db)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("%s Imported %d favorites from %s\n", successSymbol, n, rest[0])

	default:
		fatalf("unknown favorites command %q (want list, toggle, add, remove, clear, import)", sub)
	}
}

type favoriteJSON struct {
	Key       string `json:"key"`
	Dimension string `json:"dimension"`
	Pos       string `json:"pos"`
}

func listFavorites(w io.Writer, st *appState, jsonOutput bool) error {
	keys := st.shared.Favorites.Keys()
	items := make([]favoriteJSON, 0, len(keys))
	for _, k := range keys {
		dim, pos, err := finder.ParseFavoriteKey(k)
		if err != nil {
			cliLog.Warn("favorite_key_invalid", slog.String("key", k))
			continue
		}
		items = append(items, favoriteJSON{Key: k, Dimension: dim, Pos: pos.String()})
	}

	if jsonOutput {
		(&CLIOutput{w: w, jsonMode: true}).printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No favorites.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s %s  %s\n", starSymbol, pad(it.Pos, 24), it.Dimension)
	}
	fmt.Fprintf(w, "\nTotal: %d favorites\n", len(items))
	return nil
}

// errNotFavorite is returned when removing a key that is not a favorite.
var errNotFavorite = errors.New("not a favorite")

// changeFavorite applies a toggle, add or remove of key and saves. It
// reports whether key is a favorite afterwards. Removing a key that is not
// a favorite returns errNotFavorite and saves nothing.
func changeFavorite(st *appState, op, key string) (bool, error) {
	if _, _, err := finder.ParseFavoriteKey(key); err != nil {
		return false, err
	}
	favs := st.shared.Favorites
	var now bool
	switch op {
	case "add":
		favs.Add(key)
		now = true
	case "remove", "rm":
		if !favs.Contains(key) {
			return false, errNotFavorite
		}
		favs.Toggle(key)
	default:
		now = favs.Toggle(key)
	}
	return now, st.saveFavorites()
}

func handleHistory(args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	switch args[0] {
	case "list", "ls":
		entries := st.shared.History.Entries()
		if len(entries) == 0 {
			fmt.Println("No searches yet.")
			return
		}
		for i := len(entries) - 1; i >= 0; i-- {
			fmt.Printf("%3d  %s\n", len(entries)-i, entries[i])
		}
	case "clear":
		if err := st.db.SaveHistory(nil); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("%s Cleared search history\n", successSymbol)
	default:
		fatalf("unknown history command %q (want list, clear)", args[0])
	}
}

func handleConfig(args []string) {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "path":
		path, err := config.Path()
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Println(path)

	case "init":
		created, err := config.CreateExample()
		if err != nil {
			fatalf("%v", err)
		}
		path, _ := config.Path()
		if created {
			fmt.Printf("%s Wrote %s\n", successSymbol, path)
		} else {
			fmt.Printf("%s already exists\n", path)
		}

	case "show":
		cfg, err := config.Load()
		if err != nil {
			fatalf("%v", err)
		}
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			fatalf("%v", err)
		}
		fmt.Print(b.String())

	default:
		fatalf("unknown config command %q (want show, path, init)", sub)
	}
}
