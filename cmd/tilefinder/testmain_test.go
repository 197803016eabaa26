package main

import (
	"os"
	"testing"
)

// TestMain points TILEFINDER_HOME at a scratch directory so command tests
// never read or write the real state database.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tilefinder-cmd-test-")
	if err != nil {
		panic(err)
	}
	os.Setenv("TILEFINDER_HOME", dir)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
