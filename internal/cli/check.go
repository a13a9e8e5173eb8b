package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	textcases "golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/assay/internal/cases"
	"github.com/AndreyAkinshin/assay/pkg/errors"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	Pattern string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Evaluate case files and report failures",
		Long: `Evaluate assertion cases and report the ones that fail.

Without arguments every suite under the configured cases directory is
checked. Paths may name case files or directories.

Exit status is 1 when a case fails, 2 when the configuration or a case file
is invalid, and 3 when a constraint cannot be evaluated.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "case file glob (default from config)")

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *CheckOptions, cmd *cobra.Command, args []string) error {
	e, err := newEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	loaded, err := e.loadCases(args, opts.Pattern)
	if err != nil {
		return err
	}

	tol, err := e.proj.DefaultTolerance()
	if err != nil {
		return errors.ConfigWrap(err, "invalid default tolerance")
	}
	runner := &cases.Runner{
		DefaultTolerance: tol,
		MaxLineLength:    e.proj.Config.Output.MaxLineLength,
		Logger:           e.log,
	}

	results := runner.RunAll(loaded)
	var total cases.SuiteResult
	for _, sr := range results {
		e.out.SuiteHeader(sr.Suite)
		for _, res := range sr.Results {
			name := res.Case.File + "/" + res.Case.Name
			switch {
			case res.Skipped:
				e.out.CaseSkipped(name)
			case res.Err != nil:
				e.out.CaseFailed(name, "invalid assertion", res.Err.Error())
			case res.Passed:
				e.out.CasePassed(name, res.Duration)
			default:
				e.out.CaseFailed(name, res.Reason, res.Message)
			}
			total.Add(res)
		}
	}

	title := textcases.Title(language.English)
	e.out.SummaryHeader(title.String("summary"))
	e.out.SummaryItem(title.String("cases"), strconv.Itoa(len(total.Results)))
	e.out.SummaryPassed(title.String("passed"), strconv.Itoa(total.Passed))
	if total.Failed > 0 {
		e.out.SummaryFailed(title.String("failed"), strconv.Itoa(total.Failed))
	}
	if total.Errors > 0 {
		e.out.SummaryFailed(title.String("invalid"), strconv.Itoa(total.Errors))
	}
	if total.Skipped > 0 {
		e.out.SummaryItem(title.String("skipped"), strconv.Itoa(total.Skipped))
	}
	if len(results) > 1 {
		e.out.Println("")
		e.out.Table(
			[]string{title.String("suite"), title.String("passed"), title.String("failed"), title.String("invalid"), title.String("skipped")},
			suiteRows(results),
		)
	}

	switch {
	case total.Errors > 0:
		e.out.FinalFailure("%d case(s) could not be evaluated", total.Errors)
		e.out.Hint("Run 'assay explain' to see the constraint each case builds")
		return silent{errors.InvalidOperation("%d case(s) could not be evaluated", total.Errors)}
	case total.Failed > 0:
		e.out.FinalFailure("%d of %d case(s) failed", total.Failed, len(total.Results)-total.Skipped)
		if !rootOpts.Verbose {
			e.out.Hint("Run with --verbose to log each evaluation")
		}
		return silent{errors.Assertion("cases failed")}
	}
	e.out.FinalSuccess("All %d case(s) passed", total.Passed)
	return nil
}

func suiteRows(results []cases.SuiteResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, sr := range results {
		rows = append(rows, []string{
			sr.Suite,
			strconv.Itoa(sr.Passed),
			strconv.Itoa(sr.Failed),
			strconv.Itoa(sr.Errors),
			strconv.Itoa(sr.Skipped),
		})
	}
	return rows
}

// loadCases loads the cases named by args, or every suite of the project
// when args is empty, ordered by suite.
func (e *env) loadCases(args []string, pattern string) ([]cases.Case, error) {
	if pattern == "" {
		pattern = e.proj.Config.Cases.Pattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.InvalidArgument("pattern", "invalid pattern %q", pattern)
	}

	var loaded []cases.Case
	if len(args) == 0 {
		dir := e.proj.CasesDirectory()
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.Configf("cases directory not found: %s", dir)
		}
		e.log.Debug("loading suites", zap.String("dir", dir), zap.String("pattern", pattern))

		suites, err := cases.LoadAll(dir, pattern)
		if err != nil {
			return nil, errors.ConfigWrap(err, "failed to load cases")
		}
		names := make([]string, 0, len(suites))
		for name := range suites {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			loaded = append(loaded, suites[name]...)
		}
	}

	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.dir, path)
		}
		e.log.Debug("loading path", zap.String("path", path))

		found, err := cases.LoadPath(path, pattern)
		if err != nil {
			return nil, errors.ConfigWrap(err, "failed to load cases")
		}
		loaded = append(loaded, found...)
	}

	if len(loaded) == 0 {
		return nil, errors.Configf("no cases found matching %q", pattern)
	}
	return loaded, nil
}
