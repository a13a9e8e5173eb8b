package cases

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/assay/pkg/assert"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Runner evaluates cases.
type Runner struct {
	// DefaultTolerance applies to floating point equality in cases whose
	// file sets no tolerance of its own.
	DefaultTolerance tolerance.Tolerance
	// MaxLineLength is the width failure messages are clipped to.
	MaxLineLength int
	// Logger receives one debug entry per case. Nil disables logging.
	Logger *zap.Logger
}

// Run evaluates one case.
func (r *Runner) Run(c *Case) Result {
	log := r.logger().With(zap.String("case", c.ID()))
	if c.Skip {
		log.Debug("skipped case")
		return Result{Case: c, Skipped: true}
	}

	start := time.Now()
	res := r.evaluate(c)
	res.Duration = time.Since(start)

	log.Debug("evaluated case",
		zap.Bool("passed", res.Passed),
		zap.Duration("duration", res.Duration),
		zap.Error(res.Err),
	)
	return res
}

func (r *Runner) evaluate(c *Case) Result {
	res := Result{Case: c}

	built, err := Build(c.Expect)
	if err != nil {
		res.Err = err
		res.Reason = err.Error()
		return res
	}

	tol := c.Tolerance
	if tol.IsUnset() {
		tol = r.DefaultTolerance
	}
	width := r.MaxLineLength
	if width == 0 {
		width = message.DefaultMaxLineLength
	}
	a := assert.New(assert.WithDefaultTolerance(tol), assert.WithMaxLineLength(width))

	err = a.Evaluate(c.Actual, built)
	switch {
	case err == nil:
		res.Passed = !c.Fail
		if c.Fail {
			res.Reason = "expected the assertion to fail, but it passed"
		}
	case errors.IsAssertion(err):
		res.Message = err.Error()
		switch {
		case !c.Fail:
			res.Reason = "assertion failed"
		case c.Message != "" && strings.TrimRight(c.Message, "\n") != res.Message:
			res.Reason = "failure message differs"
		default:
			res.Passed = true
		}
	default:
		res.Err = err
		res.Reason = err.Error()
	}
	return res
}

// RunAll evaluates every case and groups the results by suite, in suite
// order.
func (r *Runner) RunAll(cases []Case) []SuiteResult {
	bySuite := make(map[string]*SuiteResult)
	var order []string
	for i := range cases {
		c := &cases[i]
		sr, ok := bySuite[c.Suite]
		if !ok {
			sr = &SuiteResult{Suite: c.Suite}
			bySuite[c.Suite] = sr
			order = append(order, c.Suite)
		}
		sr.Add(r.Run(c))
	}

	sort.Strings(order)
	results := make([]SuiteResult, len(order))
	for i, suite := range order {
		results[i] = *bySuite[suite]
	}
	return results
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
