// Package integration contains integration tests for assay.
package integration

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/assay/internal/cases"
	"github.com/AndreyAkinshin/assay/internal/cli"
	"github.com/AndreyAkinshin/assay/internal/project"
	"github.com/AndreyAkinshin/assay/pkg/assay"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
// The result is cached for efficiency since runtime.Caller is relatively expensive.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// runCLI runs the assay CLI and returns its exit code and output streams.
func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := cli.RunWith(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSampleProject(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "sample")

	proj, err := project.LoadProjectFrom(fixtureDir)
	if err != nil {
		t.Fatalf("failed to load sample project: %v", err)
	}

	if proj.Config.Output.MaxLineLength != 60 {
		t.Errorf("expected maxLineLength 60, got %d", proj.Config.Output.MaxLineLength)
	}
	if got := proj.CasesDirectory(); got != filepath.Join(fixtureDir, "cases") {
		t.Errorf("CasesDirectory() = %q", got)
	}

	suites, err := cases.LoadAll(proj.CasesDirectory(), proj.Config.Cases.Pattern)
	if err != nil {
		t.Fatalf("failed to load cases: %v", err)
	}
	if len(suites["measurements"]) != 4 {
		t.Errorf("expected 4 measurement cases, got %d", len(suites["measurements"]))
	}
	if len(suites["words"]) != 4 {
		t.Errorf("expected 4 word cases, got %d", len(suites["words"]))
	}
}

func TestSampleProjectCheck(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "sample")

	code, stdout, stderr := runCLI("check", "-C", fixtureDir)
	if code != assay.ExitSuccess {
		t.Fatalf("check exited %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	for _, want := range []string{
		"measurements\n",
		"+ speeds/within one percent",
		"+ words/pinned failure",
		"All 8 case(s) passed",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestSampleProjectCheckFromSubdirectory(t *testing.T) {
	t.Parallel()
	subdir := filepath.Join(fixturesDir(), "sample", "cases", "words")

	// Relative paths resolve against the working directory while the
	// configuration is still found by walking up.
	code, stdout, stderr := runCLI("check", "-C", subdir, "names.yaml")
	if code != assay.ExitSuccess {
		t.Fatalf("check exited %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "All 4 case(s) passed") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestFailingProjectCheck(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "failing")

	code, stdout, _ := runCLI("check", "-C", fixtureDir)
	if code != assay.ExitFailure {
		t.Fatalf("check exited %d, want %d\n%s", code, assay.ExitFailure, stdout)
	}
	for _, want := range []string{
		"x strings/greeting  (assertion failed)",
		"String lengths are both 12. Strings differ at index 7.",
		`Expected: "Hello, world"`,
		`But was:  "Hello, World"`,
		"x strings/count  (assertion failed)",
		"2 of 2 case(s) failed",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestExplainSampleProject(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "sample")

	code, stdout, stderr := runCLI("explain", "-C", fixtureDir)
	if code != assay.ExitSuccess {
		t.Fatalf("explain exited %d\n%s", code, stderr)
	}
	for _, want := range []string{
		"measurements/speeds/all positive\n",
		"  expected: all items greater than 0",
		"words/names/has key\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI("version")
	if code != assay.ExitSuccess {
		t.Fatalf("version exited %d", code)
	}
	if stdout != "assay "+cli.Version+"\n" {
		t.Errorf("version = %q", stdout)
	}
}
