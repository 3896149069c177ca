package calc

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Result is an evaluated expression: the value in base units, plus the
// resolved conversion target when the expression ended in "in".
type Result struct {
	Value Value

	target *convTarget
}

// convTarget is a resolved "in" target: either a single registered
// unit (which may be affine) or a compound with a plain scale factor.
type convTarget struct {
	text  string
	unit  *Unit
	scale *apd.Decimal
	dim   Dimension
}

// Evaluate walks the expression tree in post order, applying quantity
// and date/time arithmetic, and performs the final "in" conversion.
// Any error from a subexpression aborts the whole evaluation and is
// returned unchanged.
func Evaluate(ctx context.Context, e Expr) (Result, error) {
	if e.root == nil {
		return Result{}, ErrIncomplete
	}
	ev := &evaluator{ctx: ctx}
	if conv, ok := e.root.(*convert); ok {
		val, err := ev.eval(conv.expr)
		if err != nil {
			return Result{}, err
		}
		return ev.convert(val, conv)
	}
	val, err := ev.eval(e.root)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: val}, nil
}

// EvaluateString parses and evaluates input in one step.
func EvaluateString(ctx context.Context, reg *Registry, input string) (Result, error) {
	e, err := Parse(reg, input)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(ctx, e)
}

type evaluator struct {
	ctx context.Context
}

func (ev *evaluator) eval(n node) (Value, error) {
	switch t := n.(type) {
	case *numberLit:
		d, _, err := apd.NewFromString(t.text)
		if err != nil {
			return nil, &ParseError{Expected: "a number", Got: t.text, Col: t.at}
		}
		return Quantity{Value: d}, nil
	case *unitLit:
		return NewQuantity(ev.ctx, one, t.unit)
	case *identLit:
		return nil, &UnknownUnitError{Symbol: t.name, Col: t.at}
	case *dateTimeLit:
		return Instant{Value: t.when}, nil
	case *nowLit:
		return Instant{Value: evaluationInstant(ev.ctx)}, nil
	case *unary:
		x, err := ev.eval(t.x)
		if err != nil {
			return nil, err
		}
		return x.Negate(ev.ctx)
	case *binary:
		return ev.evalBinary(t)
	case *convert:
		return nil, &ParseError{Expected: "no nested conversion", Got: "in", Col: t.at}
	default:
		return nil, fmt.Errorf("unexpected node %T", n)
	}
}

func (ev *evaluator) evalBinary(b *binary) (Value, error) {
	// A number (or any dimensionless value) directly multiplied by a
	// written unit is a quantity *in* that unit, not a product. The
	// distinction only matters for affine units, where 25 degC is
	// 298.15 K while 25 * (1 degC) would be 25 times 274.15 K, and for
	// calendar arithmetic, which needs to know the value was written
	// in months.
	if u, ok := b.right.(*unitLit); ok && b.op == "*" {
		left, err := ev.eval(b.left)
		if err != nil {
			return nil, err
		}
		if lq, ok := left.(Quantity); ok && lq.Dim.IsZero() {
			return NewQuantity(ev.ctx, lq.Value, u.unit)
		}
		right, err := NewQuantity(ev.ctx, one, u.unit)
		if err != nil {
			return nil, err
		}
		return ev.apply(b.op, left, right)
	}

	left, err := ev.eval(b.left)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(b.right)
	if err != nil {
		return nil, err
	}
	return ev.apply(b.op, left, right)
}

func (ev *evaluator) apply(op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		return left.Add(ev.ctx, right)
	case "-":
		return left.Subtract(ev.ctx, right)
	case "*":
		return left.Multiply(ev.ctx, right)
	case "/":
		return left.Divide(ev.ctx, right)
	case "^":
		return left.Pow(ev.ctx, right)
	default:
		return nil, fmt.Errorf("unexpected operator %q", op)
	}
}

// convert applies the trailing "in". The target must have the same
// dimension vector as the value; affine conversion (degC, degF) is
// only meaningful for a bare unit target.
func (ev *evaluator) convert(val Value, conv *convert) (Result, error) {
	q, ok := val.(Quantity)
	if !ok {
		return Result{}, &InvalidInstantOperationError{Op: "in"}
	}

	if u, ok := conv.target.(*unitLit); ok {
		if q.Dim != u.unit.Dim {
			return Result{}, &IncompatibleDimensionsError{Op: "in", Left: q.Dim, Right: u.unit.Dim}
		}
		return Result{Value: q, target: &convTarget{text: conv.targetText, unit: u.unit, dim: u.unit.Dim}}, nil
	}

	tval, err := ev.eval(conv.target)
	if err != nil {
		return Result{}, err
	}
	tq, ok := tval.(Quantity)
	if !ok {
		return Result{}, &InvalidInstantOperationError{Op: "in"}
	}
	if q.Dim != tq.Dim {
		return Result{}, &IncompatibleDimensionsError{Op: "in", Left: q.Dim, Right: tq.Dim}
	}
	if tq.Value.IsZero() || tq.Value.Negative {
		return Result{}, fmt.Errorf("conversion target %q has no positive scale", conv.targetText)
	}
	return Result{Value: q, target: &convTarget{text: conv.targetText, scale: tq.Value, dim: tq.Dim}}, nil
}

// FormatOptions controls result rendering.
type FormatOptions struct {
	// DisplayDecimals is the maximum number of fractional digits
	// shown; trailing zeros are trimmed. Zero means the package
	// default of 3.
	DisplayDecimals int
	// Preferred lists unit symbols tried in order when choosing a
	// display unit for an unconverted result. Empty means
	// DefaultPreferredUnits.
	Preferred []string
}

// DefaultPreferredUnits starts with pint's preferred units from the
// original calculator and continues with the named derived units, so
// kg*m/s^2 displays as N.
var DefaultPreferredUnits = []string{
	"s", "m", "kg", "W", "Wh",
	"N", "J", "Pa", "Hz", "C", "V", "F", "Ohm", "S", "Wb", "T", "H", "lx",
	"A", "K", "mol", "cd",
}

const defaultDisplayDecimals = 3

// Format renders the result: in the conversion target if "in" was
// given, else in the first preferred unit whose dimension matches,
// else as a compound of base units. The context supplies the
// apd.Context for the display conversions, the same one evaluation
// ran under.
func (r Result) Format(ctx context.Context, reg *Registry, opts FormatOptions) (string, error) {
	decimals := opts.DisplayDecimals
	if decimals <= 0 {
		decimals = defaultDisplayDecimals
	}

	switch v := r.Value.(type) {
	case Instant:
		return v.String(), nil
	case Quantity:
		return r.formatQuantity(apdContext(ctx), reg, v, decimals, opts.Preferred)
	default:
		return "", fmt.Errorf("unexpected value %T", r.Value)
	}
}

func (r Result) formatQuantity(apdCtx *apd.Context, reg *Registry, q Quantity, decimals int, preferred []string) (string, error) {
	if r.target != nil {
		var mag *apd.Decimal
		var err error
		if r.target.unit != nil {
			mag, err = r.target.unit.fromBase(apdCtx, q.Value)
		} else {
			mag = new(apd.Decimal)
			_, err = apdCtx.Quo(mag, q.Value, r.target.scale)
		}
		if err != nil {
			return "", err
		}
		return formatMagnitude(apdCtx, mag, decimals) + " " + r.target.text, nil
	}

	if q.Dim.IsZero() {
		return formatMagnitude(apdCtx, q.Value, decimals), nil
	}

	if len(preferred) == 0 {
		preferred = DefaultPreferredUnits
	}
	for _, symbol := range preferred {
		u, err := reg.Lookup(symbol)
		if err != nil || u.affine() || u.Dim != q.Dim {
			continue
		}
		mag, err := u.fromBase(apdCtx, q.Value)
		if err != nil {
			return "", err
		}
		return formatMagnitude(apdCtx, mag, decimals) + " " + u.Symbol, nil
	}

	return formatMagnitude(apdCtx, q.Value, decimals) + " " + q.Dim.String(), nil
}

// formatMagnitude prints d with at most the given number of decimals,
// trailing zeros trimmed. Values the rounding would collapse to zero
// keep their exact form instead.
func formatMagnitude(apdCtx *apd.Context, d *apd.Decimal, decimals int) string {
	var rounded apd.Decimal
	if _, err := apdCtx.Quantize(&rounded, d, -int32(decimals)); err == nil &&
		!(rounded.IsZero() && !d.IsZero()) {
		rounded.Reduce(&rounded)
		return rounded.Text('f')
	}
	var exact apd.Decimal
	exact.Set(d)
	exact.Reduce(&exact)
	return exact.String()
}
