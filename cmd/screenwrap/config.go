package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = ".screenwraprc"

// fileConfig is the .screenwraprc structure.
type fileConfig struct {
	Engine     *string `yaml:"engine"`
	Host       *string `yaml:"host"`
	Port       *int    `yaml:"port"`
	Timeout    *string `yaml:"timeout"` // duration string, e.g. "30s"
	Output     *string `yaml:"output"`
	TestIDAttr *string `yaml:"testid_attr"`
	Verbose    *bool   `yaml:"verbose"`
}

func configPaths(cfg *Config) []string {
	if cfg.ConfigPaths != nil {
		return cfg.ConfigPaths
	}
	paths := []string{filepath.Join(".", configFileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, configFileName))
	}
	return paths
}

// loadConfigFile applies the first readable .screenwraprc to cfg. Malformed
// files are skipped.
func loadConfigFile(cfg *Config) {
	for _, p := range configPaths(cfg) {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			fmt.Fprintf(cfg.Stderr, "warning: ignoring %s: %v\n", p, err)
			continue
		}
		applyFileConfig(cfg, &fc)
		return
	}
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	if fc.Engine != nil {
		cfg.Engine = *fc.Engine
	}
	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Timeout != nil {
		if d, err := time.ParseDuration(*fc.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}
	if fc.TestIDAttr != nil {
		cfg.TestIDAttr = *fc.TestIDAttr
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
}

// applyEnvVars applies SCREENWRAP_* variables for fields not set by flags.
func applyEnvVars(cfg *Config, explicit func(string) bool) {
	str := func(flag, env string, dst *string) {
		if explicit(flag) {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	str("engine", "SCREENWRAP_ENGINE", &cfg.Engine)
	str("host", "SCREENWRAP_HOST", &cfg.Host)
	str("output", "SCREENWRAP_OUTPUT", &cfg.Output)
	str("testid-attr", "SCREENWRAP_TESTID_ATTR", &cfg.TestIDAttr)

	if !explicit("port") {
		if v := os.Getenv("SCREENWRAP_PORT"); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				cfg.Port = i
			}
		}
	}
	if !explicit("timeout") {
		if v := os.Getenv("SCREENWRAP_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				cfg.Timeout = d
			}
		}
	}
}

// reapplyExplicitFlags re-applies flags set on the command line, since the
// config file and environment may have overwritten them.
func reapplyExplicitFlags(cfg *Config, fv *flagValues, explicit func(string) bool) {
	if explicit("engine") {
		cfg.Engine = fv.engine
	}
	if explicit("host") {
		cfg.Host = fv.host
	}
	if explicit("port") {
		cfg.Port = fv.port
	}
	if explicit("timeout") {
		cfg.Timeout = fv.timeout
	}
	if explicit("output") {
		cfg.Output = fv.output
	}
	if explicit("testid-attr") {
		cfg.TestIDAttr = fv.testIDAttr
	}
	if explicit("verbose") {
		cfg.Verbose = fv.verbose
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Engine {
	case EngineDOM, EngineChrome:
	default:
		return fmt.Errorf("unknown engine: %s", cfg.Engine)
	}
	switch cfg.Output {
	case "json", "ndjson", "text":
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Output)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}
