package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if got.Sandbox.Image != want.Sandbox.Image {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corevcs.toml")
	cfg := Config{
		Compiler: Compiler{Root: "/srv/project", PackageCacheRoot: "/var/cache/pkg"},
		Sandbox: Sandbox{
			Image:          "node:20-alpine",
			Command:        []string{"node", "{{.OutputPath}}"},
			Env:            map[string]string{"NODE_ENV": "sandbox"},
			MemoryLimitMB:  512,
			CPUQuota:       1.5,
			TimeoutSeconds: 15,
		},
		Commit: Commit{DefaultAuthor: "ci-bot", Sign: true, SigningKeyPath: "/etc/corevcs/id_ed25519"},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Compiler != cfg.Compiler {
		t.Fatalf("compiler: got %+v, want %+v", got.Compiler, cfg.Compiler)
	}
	if got.Sandbox.Image != cfg.Sandbox.Image || got.Sandbox.TimeoutSeconds != cfg.Sandbox.TimeoutSeconds {
		t.Fatalf("sandbox: got %+v, want %+v", got.Sandbox, cfg.Sandbox)
	}
	if got.Commit != cfg.Commit {
		t.Fatalf("commit: got %+v, want %+v", got.Commit, cfg.Commit)
	}
}

func TestSandboxTimeoutConvertsSeconds(t *testing.T) {
	s := Sandbox{TimeoutSeconds: 30}
	if s.Timeout().Seconds() != 30 {
		t.Fatalf("got %v", s.Timeout())
	}
}

func TestSaveCreatesNoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corevcs.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "corevcs.toml" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
