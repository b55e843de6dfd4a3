package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Output.Extension != ".vm" {
		t.Errorf("Extension = %q, want .vm", c.Output.Extension)
	}
	if c.Output.TraceExtension != ".xml" {
		t.Errorf("TraceExtension = %q, want .xml", c.Output.TraceExtension)
	}
	if c.Output.Trace {
		t.Error("Trace enabled by default")
	}
	if c.JobLimit() != runtime.NumCPU() {
		t.Errorf("JobLimit() = %d, want %d", c.JobLimit(), runtime.NumCPU())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[output]
trace = true
trace-extension = ".trace"

[build]
jobs = 3

[log]
verbosity = 5
file = "jackc.log"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Output.Trace {
		t.Error("Trace = false, want true")
	}
	if c.Output.Extension != ".vm" {
		t.Errorf("Extension = %q, want default .vm", c.Output.Extension)
	}
	if c.Output.TraceExtension != ".trace" {
		t.Errorf("TraceExtension = %q, want .trace", c.Output.TraceExtension)
	}
	if c.JobLimit() != 3 {
		t.Errorf("JobLimit() = %d, want 3", c.JobLimit())
	}
	if c.Log.Verbosity != 5 || c.Log.File != "jackc.log" {
		t.Errorf("Log = %+v", c.Log)
	}
	if c.Path != path {
		t.Errorf("Path = %q, want %q", c.Path, path)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output\ntrace = ")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse error") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[build]\njobs = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c.Build.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", c.Build.Jobs)
	}
	if abs, _ := filepath.Abs(path); c.Path != abs {
		t.Errorf("Path = %q, want %q", c.Path, abs)
	}
}
