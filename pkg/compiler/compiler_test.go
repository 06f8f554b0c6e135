package compiler

import (
	"testing"

	"github.com/corevcs/corevcs/pkg/config"
	"github.com/corevcs/corevcs/pkg/engine"
)

func TestEngineAccessorReadWriteRoundTrip(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/a.ts", []byte("export const x = 1"))

	a := NewEngineAccessor(e)
	if !a.FileExists("/repo/a.ts") {
		t.Fatal("expected a.ts to exist")
	}
	content, ok := a.ReadFile("/repo/a.ts")
	if !ok || string(content) != "export const x = 1" {
		t.Fatalf("got %q ok=%v", content, ok)
	}

	a.WriteFile("/repo/out/a.js", []byte("const x = 1;"))
	out, ok := e.Read("/repo/out/a.js")
	if !ok || string(out.Content) != "const x = 1;" {
		t.Fatalf("got %q ok=%v", out.Content, ok)
	}

	if a.GetCwd() != "/repo" {
		t.Fatalf("got %q", a.GetCwd())
	}
}

func TestEngineAccessorResolveModule(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte(`import "./util"`))
	e.Write("/repo/util.ts", []byte("export const helper = 1"))

	a := NewEngineAccessor(e)
	resolved, ok := a.ResolveModule("/repo/main.ts", "./util")
	if !ok || resolved != "/repo/util.ts" {
		t.Fatalf("got %q ok=%v", resolved, ok)
	}

	if _, ok := a.ResolveModule("/repo/main.ts", "react"); ok {
		t.Fatal("expected bare package import to not resolve against the working tree")
	}
}

func TestDriverCheckFlagsUnresolvedImport(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte(`import { helper } from "./missing"`))

	d := NewDriver(NewEngineAccessor(e), config.Compiler{Root: "/repo"})
	diags := d.Check([]string{"/repo/main.ts"})
	if len(diags) != 1 || diags[0].Path != "/repo/main.ts" {
		t.Fatalf("got %+v", diags)
	}
}

func TestDriverCheckResolvesPresentImport(t *testing.T) {
	e := engine.New("/repo")
	e.Write("/repo/main.ts", []byte(`import { helper } from "./util"`))
	e.Write("/repo/util.ts", []byte("export const helper = 1"))

	d := NewDriver(NewEngineAccessor(e), config.Compiler{Root: "/repo"})
	diags := d.Check([]string{"/repo/main.ts", "/repo/util.ts"})
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestDriverEmitWritesThroughAccessor(t *testing.T) {
	e := engine.New("/repo")
	d := NewDriver(NewEngineAccessor(e), config.Compiler{Root: "/repo"})
	d.Emit("/repo/out/main.js", []byte("console.log(1)"))

	f, ok := e.Read("/repo/out/main.js")
	if !ok || string(f.Content) != "console.log(1)" {
		t.Fatalf("got %q ok=%v", f.Content, ok)
	}
}
