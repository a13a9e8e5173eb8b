package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

func writeProject(t *testing.T, root, config string) {
	t.Helper()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRootFrom_Found(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "")

	found, err := FindRootFrom(root)
	if err != nil {
		t.Fatalf("FindRootFrom() error = %v", err)
	}
	if found != root {
		t.Errorf("FindRootFrom() = %q, want %q", found, root)
	}
}

func TestFindRootFrom_FoundFromSubdir(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "")

	subdir := filepath.Join(root, "cases", "numeric", "deep")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindRootFrom(subdir)
	if err != nil {
		t.Fatalf("FindRootFrom() error = %v", err)
	}
	if found != root {
		t.Errorf("FindRootFrom() = %q, want %q", found, root)
	}
}

func TestFindRootFrom_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := FindRootFrom(dir)
	if err != ErrNoProjectRoot {
		t.Errorf("FindRootFrom() error = %v, want ErrNoProjectRoot", err)
	}
}

func TestLoadProjectFrom_Minimal(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "tolerance:\n  amount: 0.001\n")

	proj, err := LoadProjectFrom(root)
	if err != nil {
		t.Fatalf("LoadProjectFrom() error = %v", err)
	}
	if proj.Implicit {
		t.Error("Implicit = true for a configured project")
	}
	tol, err := proj.DefaultTolerance()
	if err != nil {
		t.Fatalf("DefaultTolerance() error = %v", err)
	}
	if tol.Mode() != tolerance.ModeLinear {
		t.Errorf("DefaultTolerance().Mode() = %v, want Linear", tol.Mode())
	}
	if proj.CasesDirectory() != filepath.Join(root, "cases") {
		t.Errorf("CasesDirectory() = %q", proj.CasesDirectory())
	}
}

func TestLoadProjectFrom_Warnings(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "colour: never\n")

	proj, err := LoadProjectFrom(root)
	if err != nil {
		t.Fatalf("LoadProjectFrom() error = %v", err)
	}
	if len(proj.Warnings) != 1 || !strings.Contains(proj.Warnings[0], "colour") {
		t.Errorf("Warnings = %v, want one about colour", proj.Warnings)
	}
}

func TestLoadProjectFrom_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "output:\n  maxLineLength: 3\n")

	_, err := LoadProjectFrom(root)
	if err == nil {
		t.Fatal("LoadProjectFrom() expected error")
	}
	if !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("error = %q, want configuration context", err)
	}
}

func TestOpen_Implicit(t *testing.T) {
	dir := t.TempDir()

	proj, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !proj.Implicit {
		t.Error("Implicit = false outside a project")
	}
	tol, err := proj.DefaultTolerance()
	if err != nil || !tol.IsUnset() {
		t.Errorf("DefaultTolerance() = %v, %v, want unset", tol, err)
	}
}

func TestOpen_FromSubdir(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "cases:\n  directory: /abs/cases\n")
	sub := filepath.Join(root, "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	proj, err := Open(sub)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if proj.Root != root {
		t.Errorf("Root = %q, want %q", proj.Root, root)
	}
	if proj.CasesDirectory() != "/abs/cases" {
		t.Errorf("CasesDirectory() = %q, want /abs/cases", proj.CasesDirectory())
	}
}

func TestProject_ConfigPath(t *testing.T) {
	proj := &Project{Root: "/projects/demo"}
	want := filepath.Join("/projects/demo", ".assay", "config.yaml")
	if got := proj.ConfigPath(); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}
