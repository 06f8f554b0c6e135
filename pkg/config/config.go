// Package config loads the TOML document describing the compiler driver's
// host paths, the sandbox executor's container settings, and the default
// commit identity/signing toggle.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Compiler configures the external compiler driver collaborator.
type Compiler struct {
	Root             string `toml:"root"`
	PackageCacheRoot string `toml:"package_cache_root"`
}

// Sandbox configures the external sandbox executor collaborator.
type Sandbox struct {
	Image          string            `toml:"image"`
	Command        []string          `toml:"command"`
	Env            map[string]string `toml:"env"`
	MemoryLimitMB  int               `toml:"memory_limit_mb"`
	CPUQuota       float64           `toml:"cpu_quota"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
}

// Timeout returns Sandbox.TimeoutSeconds as a time.Duration.
func (s Sandbox) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Commit configures the default author identity and whether commits are
// signed.
type Commit struct {
	DefaultAuthor string `toml:"default_author"`
	Sign          bool   `toml:"sign"`
	SigningKeyPath string `toml:"signing_key_path"`
}

// Config is the top-level TOML document.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	Sandbox  Sandbox  `toml:"sandbox"`
	Commit   Commit   `toml:"commit"`
}

// Default returns a Config with reasonable defaults, used when no TOML file
// is present. The package cache root, sandbox environment and resource
// limits are left empty or zero.
func Default() Config {
	return Config{
		Compiler: Compiler{Root: ".", PackageCacheRoot: ""},
		Sandbox: Sandbox{
			Image:          "node:20-alpine",
			Command:        []string{"node", "{{.OutputPath}}"},
			TimeoutSeconds: 30,
		},
		Commit: Commit{DefaultAuthor: "corevcs"},
	}
}

// Load parses a TOML document from path. A missing file yields Default().
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %q: %w", path, err)
	}
	return cfg, nil
}

// Save atomically writes cfg as TOML to path via a temp file plus rename.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: save %q: encode: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("config: save %q: tmpfile: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("config: save %q: write: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config: save %q: close: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config: save %q: rename: %w", path, err)
	}
	return nil
}
