// Package cli provides the assay command-line interface.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AndreyAkinshin/assay/internal/output"
	"github.com/AndreyAkinshin/assay/internal/project"
	"github.com/AndreyAkinshin/assay/pkg/errors"
)

// Version is set at build time.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Quiet   bool
	Color   string // "auto" | "always" | "never"; empty defers to the config
	Dir     string // Working directory; empty means the process's
}

// silent marks an error that has already been reported to the user.
type silent struct{ error }

func (s silent) Unwrap() error { return s.error }

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return RunWith(args, os.Stdout, os.Stderr)
}

// RunWith executes the CLI writing to the given streams.
func RunWith(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	var s silent
	if !stderrors.As(err, &s) {
		out := output.NewWithWriters(stdout, stderr, false)
		out.ErrorPrefix("%v", err)
	}
	if _, ok := errors.KindOf(err); !ok {
		// Flag and argument errors come from cobra itself.
		return errors.ExitUsageError
	}
	return errors.GetExitCode(err)
}

// NewRootCommand creates the root command for the assay CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "assay",
		Short: "Constraint-based assertions over declarative case files",
		Long: `assay evaluates assertion cases written as YAML or JSON documents.

Each case names an actual value and a constraint document such as
{equalTo: 0.3, within: 1e-9}. Failures are reported with Expected/But was
messages. Project settings live in .assay/config.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Verbose && opts.Quiet {
				return errors.InvalidArgument("quiet", "--quiet and --verbose are mutually exclusive")
			}
			return nil
		},
	}

	cmd.SetVersionTemplate("assay {{.Version}}\n")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log case evaluation to stderr")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "only report failures")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "", "color output (auto|always|never)")
	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", "", "run as if started in this directory")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the assay version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assay %s\n", Version)
		},
	}
}

// env is the state shared by commands that work on a project.
type env struct {
	out  *output.Writer
	log  *zap.Logger
	proj *project.Project
	dir  string
}

func newEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	e := &env{
		out: output.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), false),
		log: newLogger(opts.Verbose, cmd.ErrOrStderr()),
	}
	e.out.SetQuiet(opts.Quiet)

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}
	e.dir = dir

	proj, err := project.Open(dir)
	if err != nil {
		return nil, errors.ConfigWrap(err, "failed to open project")
	}
	e.proj = proj
	e.log.Debug("opened project",
		zap.String("root", proj.Root),
		zap.Bool("implicit", proj.Implicit),
	)

	color := opts.Color
	if color == "" {
		color = proj.Config.Output.Color
	}
	if err := e.out.SetColor(color); err != nil {
		return nil, errors.InvalidArgument("color", "%v", err)
	}

	for _, w := range proj.Warnings {
		e.out.Warning("%s", w)
	}
	return e, nil
}

// newLogger returns a development console logger on w when verbose is
// set, and a no-op logger otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}
