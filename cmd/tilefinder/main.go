package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tilefinder/tilefinder/internal/config"
	"github.com/tilefinder/tilefinder/internal/logging"
)

const Version = "0.4.0"

func init() {
	initColorProfile()
}

// initColorProfile picks the lipgloss color profile. TILEFINDER_COLOR
// (truecolor, 256, 16, none) overrides detection.
func initColorProfile() {
	switch strings.ToLower(os.Getenv("TILEFINDER_COLOR")) {
	case "truecolor", "true", "24bit":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	case "256", "ansi256":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	case "16", "ansi", "basic":
		lipgloss.SetColorProfile(termenv.ANSI)
		return
	case "none", "off", "ascii":
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	termName := os.Getenv("TERM")
	for _, t := range []string{"xterm-256color", "screen-256color", "tmux-256color", "xterm-direct", "alacritty", "kitty", "wezterm"} {
		if strings.Contains(termName, t) {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}
	if os.Getenv("WT_SESSION") != "" || os.Getenv("ITERM_SESSION_ID") != "" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	lipgloss.SetColorProfile(termenv.ANSI256)
}

// initLogging sets up debug.log from [logs] and TILEFINDER_DEBUG. Without
// either, records are discarded so nothing reaches the terminal.
func initLogging() {
	cfg, err := config.Load()
	if err != nil {
		// Commands report the config error themselves.
		cfg = config.Default()
	}
	logCfg := cfg.LoggingConfig()
	logging.Init(logCfg)

	// Route stray log.Printf calls into the structured log.
	log.SetFlags(0)
	log.SetOutput(logging.NewBridgeWriter(logging.CompCLI))

	if !logCfg.Debug {
		return
	}
	logging.ForComponent(logging.CompCLI).Info("started",
		slog.String("version", Version),
		slog.Int("pid", os.Getpid()),
	)

	// SIGUSR1 dumps the ring buffer for post-mortem debugging
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	go func() {
		for range usr1 {
			dir := logCfg.LogDir
			if dir == "" {
				dir = os.TempDir()
			}
			dumpPath := filepath.Join(dir, fmt.Sprintf("crash-dump-%d.jsonl", time.Now().Unix()))
			if err := logging.DumpRingBuffer(dumpPath); err != nil {
				logging.ForComponent(logging.CompCLI).Error("crash_dump_failed", slog.String("error", err.Error()))
			} else {
				logging.ForComponent(logging.CompCLI).Info("crash_dump_written", slog.String("path", dumpPath))
			}
		}
	}()
}

func main() {
	worldPath, args := extractWorldFlag(os.Args[1:])

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("tilefinder v%s\n", Version)
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	initLogging()
	defer logging.Shutdown()

	if len(args) > 0 {
		cmd, rest := args[0], args[1:]
		switch cmd {
		case "list", "ls":
			handleList(worldPath, rest)
		case "types":
			handleTypes(worldPath, rest)
		case "select", "go":
			handleSelect(worldPath, rest)
		case "complete":
			handleComplete(worldPath, rest)
		case "favorites", "fav":
			handleFavorites(rest)
		case "history":
			handleHistory(rest)
		case "config":
			handleConfig(rest)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
			printHelp()
			os.Exit(1)
		}
		return
	}

	// Without a terminal there is nothing to draw on; print the list instead.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		handleList(worldPath, nil)
		return
	}
	if err := runTUI(worldPath); err != nil {
		logging.Shutdown()
		fatalf("%v", err)
	}
}

func printHelp() {
	fmt.Printf("tilefinder v%s\n", Version)
	fmt.Println("Find tile entities around you.")
	fmt.Println()
	fmt.Println("Usage: tilefinder [-w WORLD] [command]")
	fmt.Println()
	fmt.Println("Without a command the interactive finder opens.")
	fmt.Println()
	fmt.Println("Global options:")
	fmt.Println("  -w, --world FILE   World file to scan (default: world_file from config.toml)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list               List entities around the viewer")
	fmt.Println("  types              Count entities by type, --filter TEXT or @namespace")
	fmt.Println("  select             Pick a row and print its teleport command")
	fmt.Println("  complete TEXT      Complete a filter")
	fmt.Println("  favorites [cmd]    list, toggle, add, remove, clear, import FILE")
	fmt.Println("  history [cmd]      list, clear")
	fmt.Println("  config [cmd]       show, path, init")
	fmt.Println("  version            Show version")
	fmt.Println("  help               Show this help")
	fmt.Println()
	fmt.Println("Finder keys:")
	fmt.Println("  type to filter, @name filters by source")
	fmt.Println("  enter go · tab complete · ↑/↓ search history · ^n/^p move")
	fmt.Println("  ^f favorite · ^g group · ^s sort · ^←/^→ radius · ^d members · esc close")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TILEFINDER_HOME    Base directory (default: ~/.tilefinder)")
	fmt.Println("  TILEFINDER_DEBUG   Write debug.log")
	fmt.Println("  TILEFINDER_COLOR   truecolor, 256, 16 or none")
}
