// Package launcher finds, starts and stops Chrome for the browser engine.
package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrChromeNotFound is returned when no Chrome binary can be located.
var ErrChromeNotFound = errors.New("Chrome not found")

// DefaultStartupTimeout bounds how long Launch waits for the debug port.
const DefaultStartupTimeout = 30 * time.Second

// LaunchOptions configures Chrome launching.
type LaunchOptions struct {
	ChromePath     string        // Path to Chrome binary (auto-detected if empty)
	Port           int           // Remote debugging port
	Headless       bool          // Run in headless mode
	DataDir        string        // User data directory (temp dir created if empty)
	StartupTimeout time.Duration // Zero means DefaultStartupTimeout
	Logger         *zap.Logger
}

// Instance represents a running Chrome instance.
type Instance struct {
	cmd      *exec.Cmd
	log      *zap.Logger
	Port     int
	PID      int
	DataDir  string
	ownsData bool // we created the data dir and remove it on Stop
}

// FindChrome locates Chrome on the system. If chromePath is non-empty and exists,
// it is returned directly. Otherwise, searches PATH and known install locations.
func FindChrome(chromePath string) string {
	if chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
		return ""
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range knownPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func knownPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "linux":
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	}
	return nil
}

// IsPortOpen checks if a TCP port is accepting connections.
func IsPortOpen(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", hostPort(host, port), 100*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitForPort waits for a TCP port to become available.
func WaitForPort(host string, port int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s", hostPort(host, port))
		case <-ticker.C:
			if IsPortOpen(host, port) {
				return nil
			}
		}
	}
}

// Launch starts a Chrome instance with the given options and waits for its
// debug port.
func Launch(opts LaunchOptions) (*Instance, error) {
	chromePath := FindChrome(opts.ChromePath)
	if chromePath == "" {
		return nil, ErrChromeNotFound
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("launcher")

	ownsData := false
	dataDir := opts.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = os.MkdirTemp("", "screenwrap-chrome-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp dir: %w", err)
		}
		ownsData = true
	}

	cmd := exec.Command(chromePath, chromeArgs(opts.Port, dataDir, opts.Headless)...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		if ownsData {
			os.RemoveAll(dataDir)
		}
		return nil, fmt.Errorf("starting Chrome: %w", err)
	}

	inst := &Instance{
		cmd:      cmd,
		log:      log,
		Port:     opts.Port,
		PID:      cmd.Process.Pid,
		DataDir:  dataDir,
		ownsData: ownsData,
	}
	log.Debug("started", zap.String("path", chromePath), zap.Int("pid", inst.PID), zap.Int("port", opts.Port))

	timeout := opts.StartupTimeout
	if timeout == 0 {
		timeout = DefaultStartupTimeout
	}
	if err := WaitForPort("localhost", opts.Port, timeout); err != nil {
		inst.Stop()
		return nil, fmt.Errorf("Chrome failed to start: %w", err)
	}

	return inst, nil
}

func chromeArgs(port int, dataDir string, headless bool) []string {
	args := []string{
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-extensions",
		"--disable-background-networking",
		"--disable-sync",
		"--disable-translate",
		"--mute-audio",
		"--no-first-run",
		"--disable-default-apps",
		fmt.Sprintf("--remote-debugging-port=%d", port),
		fmt.Sprintf("--user-data-dir=%s", dataDir),
		"about:blank",
	}
	if headless {
		args = append([]string{"--headless"}, args...)
	}
	return args
}

// ChromeInfo contains version information from a running Chrome instance.
type ChromeInfo struct {
	Browser  string `json:"Browser"`
	Protocol string `json:"Protocol-Version"`
	V8       string `json:"V8-Version"`
	WebKit   string `json:"WebKit-Version"`
}

// DetectRunning checks if a Chrome debug port is responding and returns version info.
func DetectRunning(host string, port int) (*ChromeInfo, error) {
	url := fmt.Sprintf("http://%s/json/version", hostPort(host, port))
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("Chrome not reachable at %s: %w", hostPort(host, port), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var info ChromeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing version info: %w", err)
	}
	return &info, nil
}

// Stop terminates the Chrome instance and cleans up. It is safe to call
// more than once.
func (inst *Instance) Stop() error {
	if inst.cmd != nil && inst.cmd.Process != nil {
		inst.cmd.Process.Kill()
		inst.cmd.Wait()

		// Kill orphaned child processes
		if inst.DataDir != "" {
			exec.Command("pkill", "-9", "-f", inst.DataDir).Run()
		}
		inst.cmd = nil
		inst.log.Debug("stopped", zap.Int("pid", inst.PID))
	}
	if inst.ownsData && inst.DataDir != "" {
		time.Sleep(100 * time.Millisecond)
		os.RemoveAll(inst.DataDir)
		inst.DataDir = ""
	}
	return nil
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
