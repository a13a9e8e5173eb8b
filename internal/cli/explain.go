package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/assay/internal/cases"
	"github.com/AndreyAkinshin/assay/pkg/constraint"
	"github.com/AndreyAkinshin/assay/pkg/errors"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "explain [paths...]",
		Short: "Show the constraint each case builds",
		Long: `Show the constraint tree each case builds without evaluating it.

For every case the expectation is printed as it would appear on the
Expected line of a failure, followed by the tree in tag form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "case file glob (default from config)")

	return cmd
}

func runExplain(rootOpts *RootOptions, opts *CheckOptions, cmd *cobra.Command, args []string) error {
	e, err := newEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	loaded, err := e.loadCases(args, opts.Pattern)
	if err != nil {
		return err
	}

	invalid := 0
	for i := range loaded {
		c := &loaded[i]
		e.out.Println("%s", c.ID())

		built, err := cases.Build(c.Expect)
		if err != nil {
			e.out.Println("  error:    %v", err)
			invalid++
			continue
		}
		e.out.Println("  expected: %s", constraint.Description(built))
		e.out.Println("  tree:     %s", built.String())
		if !c.Tolerance.IsUnset() {
			e.out.Println("  tolerance: %v", c.Tolerance.Value())
		}
	}

	if invalid > 0 {
		return silent{errors.InvalidOperation("%d case(s) have invalid constraints", invalid)}
	}
	return nil
}
