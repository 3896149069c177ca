package calc

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Instant is an absolute point in time. It is distinguished from a
// duration, which is an ordinary Quantity with a time dimension:
// subtracting two instants yields a duration, while adding two
// instants is meaningless.
type Instant struct {
	Value time.Time
}

var timeDim = dim(0, 0, 1, 0, 0, 0, 0)

// instantDim tags absolute date/time values in dimension-mismatch
// error messages.
var instantDim = func() Dimension {
	var d Dimension
	d[dimInstant] = 1
	return d
}()

func (t Instant) Add(ctx context.Context, other Value) (Value, error) {
	switch o := other.(type) {
	case Quantity:
		return t.shift(ctx, o, false)
	case Instant:
		return nil, &InvalidInstantOperationError{Op: "datetime + datetime"}
	default:
		return nil, &InvalidInstantOperationError{Op: "+"}
	}
}

func (t Instant) Subtract(ctx context.Context, other Value) (Value, error) {
	switch o := other.(type) {
	case Quantity:
		return t.shift(ctx, o, true)
	case Instant:
		// time.Duration tops out around 292 years, so take the
		// difference as a seconds delta instead of a Sub call.
		secs := apd.New(t.Value.Unix()-o.Value.Unix(), 0)
		nanos := apd.New(int64(t.Value.Nanosecond()-o.Value.Nanosecond()), -9)
		var elapsed apd.Decimal
		if _, err := apdContext(ctx).Add(&elapsed, secs, nanos); err != nil {
			return nil, err
		}
		return Quantity{Value: &elapsed, Dim: timeDim}, nil
	default:
		return nil, &InvalidInstantOperationError{Op: "-"}
	}
}

// shift moves the instant by a duration quantity. Quantities written
// in months or years move through the calendar, so "+ 1 month" lands
// on the same day of the next month (clamped to its last day), not 30
// days later; a fractional calendar count applies its whole steps
// through the calendar and the remainder at the unit's fixed length.
// Everything else is an exact number of seconds.
func (t Instant) shift(ctx context.Context, q Quantity, negate bool) (Value, error) {
	if q.Dim != timeDim {
		return nil, &IncompatibleDimensionsError{Op: "+", Left: instantDim, Right: q.Dim}
	}
	apdCtx := apdContext(ctx)

	if q.Unit != nil && q.Unit.calendar {
		count, err := q.Unit.fromBase(apdCtx, q.Value)
		if err != nil {
			return nil, err
		}
		var integ, frac apd.Decimal
		count.Modf(&integ, &frac)
		n, err := integ.Int64()
		if err != nil {
			return nil, err
		}
		if negate {
			n = -n
		}
		var result time.Time
		switch q.Unit.Symbol {
		case "year":
			result = t.Value.AddDate(int(n), 0, 0)
		default: // month
			result = t.Value.AddDate(0, int(n), 0)
		}
		// Jan 31 + 1 month must not spill into March: when the target
		// month is shorter, use its last day.
		if result.Day() < t.Value.Day() {
			result = result.AddDate(0, 0, -result.Day())
		}
		if frac.IsZero() {
			return Instant{Value: result}, nil
		}
		var rem apd.Decimal
		if _, err := apdCtx.Mul(&rem, &frac, q.Unit.Scale); err != nil {
			return nil, err
		}
		return Instant{Value: result}.addSeconds(apdCtx, &rem, negate)
	}

	return t.addSeconds(apdCtx, q.Value, negate)
}

// addSeconds moves the instant by an exact decimal number of seconds,
// sub-second part truncated to nanoseconds.
func (t Instant) addSeconds(apdCtx *apd.Context, seconds *apd.Decimal, negate bool) (Value, error) {
	if negate {
		var neg apd.Decimal
		if _, err := apdCtx.Neg(&neg, seconds); err != nil {
			return nil, err
		}
		seconds = &neg
	}
	var integ, frac apd.Decimal
	seconds.Modf(&integ, &frac)
	secs, err := integ.Int64()
	if err != nil {
		return nil, err
	}
	var nanos apd.Decimal
	if _, err := apdCtx.Mul(&nanos, &frac, apd.New(1, 9)); err != nil {
		return nil, err
	}
	var nsInteg, nsFrac apd.Decimal
	nanos.Modf(&nsInteg, &nsFrac)
	ns, err := nsInteg.Int64()
	if err != nil {
		return nil, err
	}
	return Instant{Value: t.Value.Add(time.Duration(secs)*time.Second + time.Duration(ns))}, nil
}

func (t Instant) Multiply(ctx context.Context, other Value) (Value, error) {
	return nil, &InvalidInstantOperationError{Op: "*"}
}

func (t Instant) Divide(ctx context.Context, other Value) (Value, error) {
	return nil, &InvalidInstantOperationError{Op: "/"}
}

func (t Instant) Pow(ctx context.Context, other Value) (Value, error) {
	return nil, &InvalidInstantOperationError{Op: "^"}
}

func (t Instant) Negate(ctx context.Context) (Value, error) {
	return nil, &InvalidInstantOperationError{Op: "unary -"}
}

// String formats the instant in the same ISO form its literals use,
// shortening to the bare date when there is no time of day.
func (t Instant) String() string {
	if h, m, s := t.Value.Clock(); h == 0 && m == 0 && s == 0 {
		return t.Value.Format("2006-01-02")
	}
	return t.Value.Format("2006-01-02T15:04:05")
}
