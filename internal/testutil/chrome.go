// Package testutil boots headless Chrome for integration tests.
package testutil

import (
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/tomyan/screenwrap/internal/chrome/launcher"
)

// ErrChromeNotFound is returned by StartChrome when no browser is installed.
var ErrChromeNotFound = launcher.ErrChromeNotFound

// ChromeInstance represents a running Chrome instance for testing.
type ChromeInstance struct {
	inst *launcher.Instance
	Port int
}

// StartChrome starts a headless Chrome instance on the specified port.
// Returns a ChromeInstance that must be stopped with Stop().
func StartChrome(port int) (*ChromeInstance, error) {
	inst, err := launcher.Launch(launcher.LaunchOptions{
		Port:           port,
		Headless:       true,
		StartupTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &ChromeInstance{inst: inst, Port: port}, nil
}

// Stop terminates the Chrome instance and cleans up.
func (c *ChromeInstance) Stop() error {
	if c.inst == nil {
		return nil
	}
	return c.inst.Stop()
}

// RunWithChrome boots Chrome on port for the duration of m.Run. When Chrome
// is missing or -short is set, tests run without it and *chrome stays nil so
// individual tests can skip.
func RunWithChrome(m *testing.M, port int, chrome **ChromeInstance) int {
	flag.Parse()
	if testing.Short() {
		return m.Run()
	}

	inst, err := StartChrome(port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping browser tests: %v\n", err)
		return m.Run()
	}
	defer inst.Stop()

	*chrome = inst
	return m.Run()
}
