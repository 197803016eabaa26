package ui

import (
	"os"
	"testing"
)

// TestMain points the config home at a scratch directory so no test can
// touch the real ~/.tilefinder.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tilefinder-ui-test-")
	if err != nil {
		panic(err)
	}
	os.Setenv("TILEFINDER_HOME", dir)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
