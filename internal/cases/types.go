// Package cases loads declarative assertion cases from YAML or JSON files
// and evaluates them with the constraint engine.
//
// A case file holds a list of cases, each pairing an actual value with a
// constraint document:
//
//	cases:
//	  - name: sum within tolerance
//	    actual: 0.30000000000000004
//	    expect: {equalTo: 0.3, within: 1e-9}
//	  - name: prices
//	    actual: [!decimal "1.10", !decimal "2.50"]
//	    expect: {all: {greaterThan: !decimal "1"}}
package cases

import (
	"path"
	"time"

	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Case is a single declarative assertion.
type Case struct {
	Name        string         // Case name, unique within its file
	File        string         // File name without extension
	Suite       string         // Name of the directory holding the file
	Path        string         // Full path to the case file
	Description string         // Free-form description
	Actual      any            // Value under test
	Expect      map[string]any // Constraint document
	Fail        bool           // The assertion is expected to fail
	Message     string         // Expected failure message, if given
	Skip        bool           // Skipped without evaluation
	Tolerance   tolerance.Tolerance
}

// ID identifies the case across suites.
func (c *Case) ID() string {
	return path.Join(c.Suite, c.File, c.Name)
}

// Result represents the outcome of evaluating a case.
type Result struct {
	Case     *Case
	Passed   bool
	Skipped  bool
	Message  string // Rendered assertion failure, if the assertion failed
	Reason   string // Why the case did not pass
	Err      error  // Defect that kept the case from being evaluated
	Duration time.Duration
}

// SuiteResult aggregates the results of one suite.
type SuiteResult struct {
	Suite   string
	Results []Result
	Passed  int
	Failed  int
	Skipped int
	Errors  int
}

// Add records r in the totals.
func (s *SuiteResult) Add(r Result) {
	s.Results = append(s.Results, r)
	switch {
	case r.Skipped:
		s.Skipped++
	case r.Err != nil:
		s.Errors++
	case r.Passed:
		s.Passed++
	default:
		s.Failed++
	}
}

// OK reports whether every evaluated case passed.
func (s *SuiteResult) OK() bool {
	return s.Failed == 0 && s.Errors == 0
}
