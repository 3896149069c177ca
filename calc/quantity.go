package calc

import (
	"context"
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Value is an evaluated value: a Quantity or an Instant. Operations
// take a context carrying the apd.Context and, for "now", the
// evaluation instant.
type Value interface {
	Add(ctx context.Context, other Value) (Value, error)
	Subtract(ctx context.Context, other Value) (Value, error)
	Multiply(ctx context.Context, other Value) (Value, error)
	Divide(ctx context.Context, other Value) (Value, error)
	Pow(ctx context.Context, other Value) (Value, error)
	Negate(ctx context.Context) (Value, error)
}

// Quantity is a magnitude with a dimension vector. The magnitude is
// always held in base units; Unit remembers what the user wrote the
// value in, when a single unit is still attributable, so calendar
// arithmetic and display can key off it.
type Quantity struct {
	Value *apd.Decimal
	Dim   Dimension
	Unit  *Unit
}

// NewQuantity builds a quantity of count in the given unit, converted
// to base units. A nil unit gives a dimensionless quantity.
func NewQuantity(ctx context.Context, count *apd.Decimal, unit *Unit) (Quantity, error) {
	if unit == nil {
		return Quantity{Value: count}, nil
	}
	base, err := unit.toBase(apdContext(ctx), count)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: base, Dim: unit.Dim, Unit: unit}, nil
}

func (q Quantity) Add(ctx context.Context, other Value) (Value, error) {
	switch o := other.(type) {
	case Quantity:
		if q.Dim != o.Dim {
			return nil, &IncompatibleDimensionsError{Op: "+", Left: q.Dim, Right: o.Dim}
		}
		var sum apd.Decimal
		if _, err := apdContext(ctx).Add(&sum, q.Value, o.Value); err != nil {
			return nil, err
		}
		return Quantity{Value: &sum, Dim: q.Dim, Unit: q.Unit}, nil
	case Instant:
		// duration + instant commutes
		return o.Add(ctx, q)
	default:
		return nil, fmt.Errorf("can not add %T and %T", q, other)
	}
}

func (q Quantity) Subtract(ctx context.Context, other Value) (Value, error) {
	switch o := other.(type) {
	case Quantity:
		if q.Dim != o.Dim {
			return nil, &IncompatibleDimensionsError{Op: "-", Left: q.Dim, Right: o.Dim}
		}
		var diff apd.Decimal
		if _, err := apdContext(ctx).Sub(&diff, q.Value, o.Value); err != nil {
			return nil, err
		}
		return Quantity{Value: &diff, Dim: q.Dim, Unit: q.Unit}, nil
	case Instant:
		return nil, &InvalidInstantOperationError{Op: "duration - datetime"}
	default:
		return nil, fmt.Errorf("can not subtract %T from %T", other, q)
	}
}

func (q Quantity) Multiply(ctx context.Context, other Value) (Value, error) {
	o, ok := other.(Quantity)
	if !ok {
		return nil, &InvalidInstantOperationError{Op: "*"}
	}
	var prod apd.Decimal
	if _, err := apdContext(ctx).Mul(&prod, q.Value, o.Value); err != nil {
		return nil, err
	}
	// A scalar factor does not change what unit the value is "in", so
	// 2 * 1 month stays a calendar month.
	unit := q.Unit
	if q.Dim.IsZero() {
		unit = o.Unit
	} else if !o.Dim.IsZero() {
		unit = nil
	}
	return Quantity{Value: &prod, Dim: q.Dim.Mul(o.Dim), Unit: unit}, nil
}

func (q Quantity) Divide(ctx context.Context, other Value) (Value, error) {
	o, ok := other.(Quantity)
	if !ok {
		return nil, &InvalidInstantOperationError{Op: "/"}
	}
	if o.Value.IsZero() {
		return nil, &DivisionByZeroError{}
	}
	var quo apd.Decimal
	if _, err := apdContext(ctx).Quo(&quo, q.Value, o.Value); err != nil {
		return nil, err
	}
	unit := q.Unit
	if !o.Dim.IsZero() {
		unit = nil
	}
	return Quantity{Value: &quo, Dim: q.Dim.Div(o.Dim), Unit: unit}, nil
}

func (q Quantity) Pow(ctx context.Context, other Value) (Value, error) {
	o, ok := other.(Quantity)
	if !ok {
		return nil, &InvalidInstantOperationError{Op: "^"}
	}
	if !o.Dim.IsZero() {
		return nil, &ExponentMustBeDimensionlessError{Dim: o.Dim}
	}
	num, den, err := rationalFromDecimal(o.Value)
	if err != nil {
		return nil, err
	}
	dim, err := q.Dim.Pow(num, den)
	if err != nil {
		return nil, err
	}
	if q.Value.IsZero() && o.Value.Negative {
		return nil, &DivisionByZeroError{}
	}
	var res apd.Decimal
	if _, err := apdContext(ctx).Pow(&res, q.Value, o.Value); err != nil {
		return nil, fmt.Errorf("can not raise %s to power %s: %w", q.Value, o.Value, err)
	}
	var unit *Unit
	if num == 1 && den == 1 {
		unit = q.Unit
	}
	return Quantity{Value: &res, Dim: dim, Unit: unit}, nil
}

func (q Quantity) Negate(ctx context.Context) (Value, error) {
	var neg apd.Decimal
	if _, err := apdContext(ctx).Neg(&neg, q.Value); err != nil {
		return nil, err
	}
	return Quantity{Value: &neg, Dim: q.Dim, Unit: q.Unit}, nil
}

// rationalFromDecimal reduces a decimal exponent to num/den, e.g.
// 0.5 to 1/2, so dimension exponents can be scaled exactly.
func rationalFromDecimal(d *apd.Decimal) (num, den int64, err error) {
	var reduced apd.Decimal
	reduced.Set(d)
	reduced.Reduce(&reduced)
	if !reduced.Coeff.IsInt64() {
		return 0, 0, fmt.Errorf("exponent %s is too large", d)
	}
	coeff := reduced.Coeff.Int64()
	if reduced.Negative {
		coeff = -coeff
	}
	exp := int(reduced.Exponent)
	num, den = coeff, 1
	for ; exp > 0; exp-- {
		if num > math.MaxInt64/10 || num < math.MinInt64/10 {
			return 0, 0, fmt.Errorf("exponent %s is too large", d)
		}
		num *= 10
	}
	for ; exp < 0; exp++ {
		if den > math.MaxInt64/10 {
			return 0, 0, fmt.Errorf("exponent %s is too small", d)
		}
		den *= 10
	}
	g := gcd(abs(num), den)
	return num / g, den / g, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
