package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestApplyFileConfig(t *testing.T) {
	var fc fileConfig
	require.NoError(t, yaml.Unmarshal([]byte(`
engine: chrome
host: example.com
port: 1234
timeout: 30s
output: text
testid_attr: data-qa
verbose: true
`), &fc))

	cfg := DefaultConfig()
	applyFileConfig(cfg, &fc)

	assert.Equal(t, EngineChrome, cfg.Engine)
	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "data-qa", cfg.TestIDAttr)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigFile_FirstReadableWins(t *testing.T) {
	first := writeConfig(t, "output: ndjson\n")
	second := writeConfig(t, "output: text\nhost: other\n")

	cfg := testConfig()
	cfg.ConfigPaths = []string{filepath.Join(t.TempDir(), "missing"), first, second}
	loadConfigFile(cfg)

	assert.Equal(t, "ndjson", cfg.Output)
	assert.Equal(t, "localhost", cfg.Host)
}

func TestLoadConfigFile_SkipsMalformed(t *testing.T) {
	bad := writeConfig(t, "port: [not a number\n")
	good := writeConfig(t, "port: 9333\n")

	cfg := testConfig()
	cfg.ConfigPaths = []string{bad, good}
	loadConfigFile(cfg)

	assert.Equal(t, 9333, cfg.Port)
	assert.Contains(t, stderr(cfg), "warning: ignoring")
}

func TestConfig_FileAppliesToRun(t *testing.T) {
	path := writeFixture(t, `<span data-qa="x">qa</span><span data-testid="x">default</span>`)
	cfg := testConfig()
	cfg.ConfigPaths = []string{writeConfig(t, "testid_attr: data-qa\noutput: text\n")}

	code := run([]string{"query", path, "--testid", "x"}, cfg)
	require.Equal(t, ExitSuccess, code, stderr(cfg))
	assert.Equal(t, "<span data-qa=\"x\"> qa\n", stdout(cfg))
}

func TestConfig_Precedence(t *testing.T) {
	path := writeFixture(t, `<p>Hello</p>`)
	t.Setenv("SCREENWRAP_OUTPUT", "ndjson")
	t.Setenv("SCREENWRAP_TIMEOUT", "7s")

	// env beats file
	cfg := testConfig()
	cfg.ConfigPaths = []string{writeConfig(t, "output: text\ntimeout: 3s\nhost: filehost\n")}
	require.Equal(t, ExitSuccess, run([]string{"snapshot", path}, cfg), stderr(cfg))
	assert.Equal(t, "ndjson", cfg.Output)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "filehost", cfg.Host)

	// flags beat env and file
	cfg = testConfig()
	cfg.ConfigPaths = []string{writeConfig(t, "output: text\n")}
	require.Equal(t, ExitSuccess, run([]string{"--output", "json", "--timeout", "1s", "snapshot", path}, cfg), stderr(cfg))
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, time.Second, cfg.Timeout)
}
