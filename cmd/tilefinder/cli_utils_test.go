package main

import (
	"flag"
	"reflect"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags already first",
			args:     []string{"--json", "KEY"},
			expected: []string{"--json", "KEY"},
		},
		{
			name:     "bool flag after positional",
			args:     []string{"KEY", "--json"},
			expected: []string{"--json", "KEY"},
		},
		{
			name:     "value flag after positional",
			args:     []string{"iron", "--limit", "3"},
			expected: []string{"--limit", "3", "iron"},
		},
		{
			name:     "equals syntax",
			args:     []string{"iron", "--limit=3"},
			expected: []string{"--limit=3", "iron"},
		},
		{
			name:     "double dash stops flag parsing",
			args:     []string{"--json", "--", "--limit"},
			expected: []string{"--json", "--limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.Bool("json", false, "")
			fs.Int("limit", 0, "")
			got := normalizeArgs(fs, tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("normalizeArgs(%v) = %v, want %v", tt.args, got, tt.expected)
			}
		})
	}
}

func TestExtractWorldFlag(t *testing.T) {
	tests := []struct {
		args      []string
		wantWorld string
		wantRest  []string
	}{
		{[]string{"list"}, "", []string{"list"}},
		{[]string{"-w", "base.toml", "list"}, "base.toml", []string{"list"}},
		{[]string{"list", "--world", "base.toml", "--json"}, "base.toml", []string{"list", "--json"}},
		{[]string{"--world=a.toml", "types"}, "a.toml", []string{"types"}},
		{[]string{"-w=b.toml"}, "b.toml", nil},
	}
	for _, tt := range tests {
		world, rest := extractWorldFlag(tt.args)
		if world != tt.wantWorld {
			t.Errorf("extractWorldFlag(%v) world = %q, want %q", tt.args, world, tt.wantWorld)
		}
		if !reflect.DeepEqual(rest, tt.wantRest) {
			t.Errorf("extractWorldFlag(%v) rest = %v, want %v", tt.args, rest, tt.wantRest)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Chest", 10); got != "Chest" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("Compacting Drawer", 8); got != "Compact…" {
		t.Errorf("truncate long = %q, want %q", got, "Compact…")
	}
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
}
