package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// normalizeArgs reorders args so flags come before positional arguments.
// The flag package stops at the first positional argument, so
// "favorites toggle KEY --json" would otherwise ignore --json.
func normalizeArgs(fs *flag.FlagSet, args []string) []string {
	boolFlags := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			boolFlags[f.Name] = true
		}
	})

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)

			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") {
				continue
			}
			if !boolFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}

// extractWorldFlag pulls the global -w/--world flag out of args.
func extractWorldFlag(args []string) (string, []string) {
	var world string
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-w" || arg == "--world":
			if i+1 < len(args) {
				world = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "-w="):
			world = strings.TrimPrefix(arg, "-w=")
		case strings.HasPrefix(arg, "--world="):
			world = strings.TrimPrefix(arg, "--world=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return world, remaining
}

// CLIOutput handles consistent output formatting across all CLI commands.
type CLIOutput struct {
	w        io.Writer
	jsonMode bool
}

// NewCLIOutput creates an output handler writing to stdout.
func NewCLIOutput(jsonMode bool) *CLIOutput {
	return &CLIOutput{w: os.Stdout, jsonMode: jsonMode}
}

// Success prints a success message or the JSON form of data.
func (c *CLIOutput) Success(message string, data any) {
	if c.jsonMode {
		c.printJSON(data)
		return
	}
	fmt.Fprintf(c.w, "%s %s\n", successSymbol, message)
}

// Print prints human output or the JSON form of data.
func (c *CLIOutput) Print(humanOutput string, jsonData any) {
	if c.jsonMode {
		c.printJSON(jsonData)
		return
	}
	fmt.Fprint(c.w, humanOutput)
}

func (c *CLIOutput) printJSON(data any) {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fatalf("failed to format JSON: %v", err)
	}
	fmt.Fprintln(c.w, string(output))
}

const (
	successSymbol = "✓"
	starSymbol    = "★"
)

// fatalf prints "Error: ..." to stderr and exits with status 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// truncate shortens s to max display cells, ending in "…".
func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}

// pad left-aligns s in width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}
