package sandbox

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corevcs/corevcs/pkg/config"
	"github.com/corevcs/corevcs/pkg/engine"
)

type fakeRunner struct {
	name string
	args []string
	env  []string
	err  error
	stuck bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, env []string) (string, string, error) {
	f.name, f.args, f.env = name, args, env
	if f.stuck {
		<-ctx.Done()
		return "", "", ctx.Err()
	}
	return "ok", "", f.err
}

func TestRunMaterializesAndInvokesRuntime(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte("console.log(1)"))

	runner := &fakeRunner{}
	x := &Executor{
		Config: config.Sandbox{Image: "node:20-alpine", TimeoutSeconds: 5},
		Runner: runner,
		Runtime: "podman",
	}

	result, err := x.Run(context.Background(), e, "main.ts", "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stdout != "ok" {
		t.Fatalf("got %q", result.Stdout)
	}
	if runner.name != "podman" {
		t.Fatalf("got runtime %q", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "node:20-alpine") {
		t.Fatalf("expected image in args, got %v", runner.args)
	}
	if !strings.Contains(joined, "out/main.js") {
		t.Fatalf("expected default output mapping in args, got %v", runner.args)
	}
}

func TestRunIncludesPackageCacheBindWhenConfigured(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte("x"))
	runner := &fakeRunner{}
	x := &Executor{Config: config.Sandbox{Image: "node:20-alpine"}, Runner: runner, Runtime: "docker"}

	if _, err := x.Run(context.Background(), e, "main.ts", "/var/cache/pkg"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "/var/cache/pkg:/pkgcache:ro") {
		t.Fatalf("expected package cache bind, got %v", runner.args)
	}
}

func TestRunTimesOutAndReportsTimedOut(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte("x"))
	runner := &fakeRunner{stuck: true}
	x := &Executor{
		Config: config.Sandbox{Image: "node:20-alpine", TimeoutSeconds: 0},
		Runner: runner,
	}
	x.Config.TimeoutSeconds = 1 // smallest real timeout; test relies on context deadline, not wall time

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	result, err := x.Run(ctx, e, "main.ts", "")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !result.TimedOut {
		t.Fatal("expected result.TimedOut to be set")
	}
}

func TestRenderCommandSubstitutesOutputPath(t *testing.T) {
	got := renderCommand([]string{"node", "{{.OutputPath}}"}, "src/app.ts")
	want := []string{"node", "out/app.js"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRenderCommandDefaultsWhenEmpty(t *testing.T) {
	got := renderCommand(nil, "main.ts")
	if len(got) != 2 || got[0] != "node" || got[1] != "out/main.js" {
		t.Fatalf("got %v", got)
	}
}
