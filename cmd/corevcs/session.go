package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/corevcs/corevcs/pkg/config"
	"github.com/corevcs/corevcs/pkg/engine"
	"github.com/corevcs/corevcs/pkg/signing"
)

const stateDir = ".corevcs"

func statePath(root string) string  { return filepath.Join(root, stateDir, "state.bin") }
func configPath(root string) string { return filepath.Join(root, stateDir, "config.toml") }

// openSession loads the engine state persisted under root/.corevcs, or
// constructs a fresh engine rooted at root if none exists yet.
func openSession(ctx context.Context, root string) (*engine.Engine, config.Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, config.Config{}, err
	}

	cfg, err := config.Load(configPath(absRoot))
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}

	e := engine.New(absRoot)
	if cfg.Commit.DefaultAuthor != "" {
		e.Author = cfg.Commit.DefaultAuthor
	}
	if cfg.Commit.Sign {
		signer, _, err := signing.NewSSHCommitSigner(cfg.Commit.SigningKeyPath)
		if err != nil {
			return nil, config.Config{}, fmt.Errorf("configure commit signing: %w", err)
		}
		e.Signer = signer
	}

	if _, err := os.Stat(statePath(absRoot)); err == nil {
		if err := e.LoadSnapshot(ctx, statePath(absRoot)); err != nil {
			return nil, config.Config{}, fmt.Errorf("load session: %w", err)
		}
	}
	return e, cfg, nil
}

// saveSession persists e's entire state back under root/.corevcs.
func saveSession(ctx context.Context, e *engine.Engine, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(absRoot, stateDir), 0o755); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := e.SaveSnapshot(ctx, statePath(absRoot)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
