// Package sandbox materializes a working tree onto the host filesystem and
// runs it inside an external container runtime under a wall-clock timeout.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/corevcs/corevcs/pkg/config"
	"github.com/corevcs/corevcs/pkg/engine"
)

// Runner invokes an external process. Production code uses CommandRunner;
// tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args []string, env []string) (stdout, stderr string, err error)
}

// CommandRunner runs processes via os/exec.
type CommandRunner struct{}

func (CommandRunner) Run(ctx context.Context, name string, args []string, env []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && stderr.Len() > 0 {
		err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), stderr.String(), err
}

// Result is the outcome of a Run.
type Result struct {
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Executor materializes a working tree and runs an entry point inside a
// container, per the sandbox collaborator contract.
type Executor struct {
	Config  config.Sandbox
	Runner  Runner
	Runtime string // container runtime binary, e.g. "podman" or "docker"
}

// NewExecutor returns an Executor using os/exec and the given runtime
// binary ("podman" by default).
func NewExecutor(cfg config.Sandbox, runtime string) *Executor {
	if runtime == "" {
		runtime = "podman"
	}
	return &Executor{Config: cfg, Runner: CommandRunner{}, Runtime: runtime}
}

// Run enumerates e's files, materializes them under a fresh host temp
// directory, and invokes the configured container command against
// entryPoint with a read-only bind of that directory, an optional
// read-only bind of packageCacheRoot, the configured environment, and a
// wall-clock timeout. On timeout the container is stopped and the call
// fails.
func (x *Executor) Run(ctx context.Context, e *engine.Engine, entryPoint, packageCacheRoot string) (Result, error) {
	hostDir, err := materialize(e)
	if err != nil {
		return Result{}, fmt.Errorf("sandbox: materialize: %w", err)
	}
	defer os.RemoveAll(hostDir)

	timeout := x.Config.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := x.containerArgs(hostDir, entryPoint, packageCacheRoot)
	var env []string
	for k, v := range x.Config.Env {
		env = append(env, k+"="+v)
	}

	stdout, stderr, err := x.Runner.Run(runCtx, x.Runtime, args, env)
	result := Result{Stdout: stdout, Stderr: stderr}
	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		return result, fmt.Errorf("sandbox: %s timed out after %s", entryPoint, timeout)
	}
	if err != nil {
		return result, fmt.Errorf("sandbox: run %s: %w", entryPoint, err)
	}
	return result, nil
}

func (x *Executor) containerArgs(hostDir, entryPoint, packageCacheRoot string) []string {
	args := []string{
		"run", "--rm",
		"-v", hostDir + ":/workspace:ro",
	}
	if packageCacheRoot != "" {
		args = append(args, "-v", packageCacheRoot+":/pkgcache:ro")
	}
	if x.Config.MemoryLimitMB > 0 {
		args = append(args, "--memory", strconv.Itoa(x.Config.MemoryLimitMB)+"m")
	}
	if x.Config.CPUQuota > 0 {
		args = append(args, "--cpus", strconv.FormatFloat(x.Config.CPUQuota, 'f', -1, 64))
	}
	args = append(args, "--workdir", "/workspace")
	args = append(args, x.Config.Image)
	args = append(args, renderCommand(x.Config.Command, entryPoint)...)
	return args
}

// renderCommand substitutes outputPathFor(entryPoint) for the literal
// token "{{.OutputPath}}" in command, and the entry point itself for
// "{{.EntryPoint}}". A command with neither token runs as configured.
func renderCommand(command []string, entryPoint string) []string {
	if len(command) == 0 {
		return []string{"node", outputPathFor(entryPoint)}
	}
	out := make([]string, len(command))
	for i, tok := range command {
		tok = strings.ReplaceAll(tok, "{{.OutputPath}}", outputPathFor(entryPoint))
		tok = strings.ReplaceAll(tok, "{{.EntryPoint}}", entryPoint)
		out[i] = tok
	}
	return out
}

// outputPathFor maps <name>.ts to out/<name>.js, the default entry-point
// mapping the sandbox collaborator contract specifies.
func outputPathFor(entryPoint string) string {
	base := strings.TrimSuffix(filepath.Base(entryPoint), filepath.Ext(entryPoint))
	return filepath.Join("out", base+".js")
}

func materialize(e *engine.Engine) (string, error) {
	dir, err := os.MkdirTemp("", "corevcs-sandbox-*")
	if err != nil {
		return "", err
	}
	for _, f := range e.GetAllFiles() {
		rel := e.WT.RelPath(f.Path)
		dest := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			os.RemoveAll(dir)
			return "", err
		}
		if err := os.WriteFile(dest, f.Content, 0o644); err != nil {
			os.RemoveAll(dir)
			return "", err
		}
	}
	return dir, nil
}
