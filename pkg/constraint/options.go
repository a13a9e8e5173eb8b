package constraint

import (
	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

// Modifier capabilities. A builder modifier applies to the last terminal
// constraint only when that constraint implements the matching interface.
type (
	caseModifiable      interface{ setIgnoreCase() }
	usingModifiable     interface{ setUsing(f any) }
	toleranceModifiable interface {
		setWithin(amount any)
		setPercent()
		setUlps()
	}
	collectionModifiable interface{ setAsCollection() }
	clipModifiable       interface{ setNoClip() }
	orderModifiable      interface {
		setDescending()
		setBy(name string)
	}
)

// equalityOptions is embedded by constraints that compare items for
// equality.
type equalityOptions struct {
	comparer equality.Comparer
}

func (o *equalityOptions) setIgnoreCase() { o.comparer.IgnoreCase = true }

func (o *equalityOptions) setUsing(f any) {
	eq, _, err := equality.Adapt(f)
	if err != nil {
		panic(err)
	}
	o.comparer.Using = append(o.comparer.Using, eq)
}

func (o *equalityOptions) Configure(s Settings) {
	o.comparer.FloatTolerance = s.DefaultTolerance
}

func (o *equalityOptions) writeModifiers(w *message.Writer) {
	if o.comparer.IgnoreCase {
		w.WriteModifier("ignoring case")
	}
}

// orderingOptions is embedded by constraints that order values.
type orderingOptions struct {
	cmp equality.CompareFunc
}

func (o *orderingOptions) setUsing(f any) {
	_, cmp, err := equality.Adapt(f)
	if err != nil {
		panic(err)
	}
	if cmp == nil {
		panic(errors.InvalidOperation("Using on an ordering constraint requires a comparison returning int, got %T", f))
	}
	o.cmp = cmp
}

func (o *orderingOptions) compare(x, y any) (int, error) {
	if o.cmp == nil {
		return equality.Compare(x, y)
	}
	return o.cmp(x, y)
}
