package calc

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Base dimension indices of a Dimension vector. The instant marker is
// not a physical dimension; it tags absolute date/time values so that
// they cannot be confused with durations, which carry an ordinary time
// exponent.
const (
	dimLength = iota
	dimMass
	dimTime
	dimTemperature
	dimCurrent
	dimSubstance
	dimLuminosity
	dimInstant
	numDims
)

// Dimension is a vector of exponents over the base dimensions. Two
// quantities may be added, subtracted, or converted into one another
// exactly when their vectors are equal.
type Dimension [numDims]int

// IsZero reports whether the value is dimensionless.
func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// Mul combines the dimensions of a product by summing exponents.
func (d Dimension) Mul(o Dimension) Dimension {
	for i := range d {
		d[i] += o[i]
	}
	return d
}

// Div combines the dimensions of a quotient by subtracting exponents.
func (d Dimension) Div(o Dimension) Dimension {
	for i := range d {
		d[i] -= o[i]
	}
	return d
}

// Pow scales every exponent by the rational num/den. It fails with
// NonIntegerDimensionExponentError if any scaled exponent would not be
// an integer, e.g. m^0.5.
func (d Dimension) Pow(num, den int64) (Dimension, error) {
	if den < 0 {
		num, den = -num, -den
	}
	for i := range d {
		p := int64(d[i]) * num
		if p%den != 0 {
			return Dimension{}, &NonIntegerDimensionExponentError{
				Dim:      d,
				Exponent: formatRational(num, den),
			}
		}
		d[i] = int(p / den)
	}
	return d, nil
}

// baseSymbols, in display order. Mass leads so that force renders as
// kg*m/s^2 rather than m*kg/s^2.
var baseSymbols = [numDims]struct {
	idx    int
	symbol string
}{
	{dimMass, "kg"},
	{dimLength, "m"},
	{dimTime, "s"},
	{dimCurrent, "A"},
	{dimTemperature, "K"},
	{dimSubstance, "mol"},
	{dimLuminosity, "cd"},
	{dimInstant, "datetime"},
}

// String renders the vector as a compound of base unit symbols, e.g.
// "kg*m/s^2". The zero vector renders as "1".
func (d Dimension) String() string {
	var num, den []string
	for _, b := range baseSymbols {
		e := d[b.idx]
		switch {
		case e == 1:
			num = append(num, b.symbol)
		case e > 1:
			num = append(num, b.symbol+"^"+strconv.Itoa(e))
		case e == -1:
			den = append(den, b.symbol)
		case e < -1:
			den = append(den, b.symbol+"^"+strconv.Itoa(-e))
		}
	}
	switch {
	case len(num) == 0 && len(den) == 0:
		return "1"
	case len(num) == 0:
		return "1/" + strings.Join(den, "/")
	case len(den) == 0:
		return strings.Join(num, "*")
	default:
		return strings.Join(num, "*") + "/" + strings.Join(den, "/")
	}
}

func (d Dimension) describe() string {
	if d.IsZero() {
		return "dimensionless"
	}
	return d.String()
}

func formatRational(num, den int64) string {
	if den == 1 {
		return strconv.FormatInt(num, 10)
	}
	return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10)
}

// Unit is an immutable registered unit: a symbol, a dimension vector,
// and the conversion pair to base units. A value written in this unit
// converts to base units as v*Scale + Offset; Offset is nil for all
// linear units and nonzero only for the affine temperature degrees.
type Unit struct {
	Symbol string
	Dim    Dimension
	Scale  *apd.Decimal
	Offset *apd.Decimal

	// noPrefix excludes the unit from SI prefix composition. Set for
	// the affine degrees and the calendar words; "kmonth" is not a
	// unit.
	noPrefix bool
	// calendar marks month and year, whose length depends on the
	// calendar when applied to an absolute date/time.
	calendar bool
}

func (u *Unit) affine() bool { return u.Offset != nil }

// toBase converts a magnitude written in u into base units.
func (u *Unit) toBase(apdCtx *apd.Context, v *apd.Decimal) (*apd.Decimal, error) {
	var res apd.Decimal
	if _, err := apdCtx.Mul(&res, v, u.Scale); err != nil {
		return nil, err
	}
	if u.Offset != nil {
		if _, err := apdCtx.Add(&res, &res, u.Offset); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// fromBase converts a base-unit magnitude into u.
func (u *Unit) fromBase(apdCtx *apd.Context, v *apd.Decimal) (*apd.Decimal, error) {
	var res apd.Decimal
	res.Set(v)
	if u.Offset != nil {
		if _, err := apdCtx.Sub(&res, &res, u.Offset); err != nil {
			return nil, err
		}
	}
	if _, err := apdCtx.Quo(&res, &res, u.Scale); err != nil {
		return nil, err
	}
	return &res, nil
}

type prefix struct {
	symbol string
	exp    int32
}

// siPrefixes, longest symbols first so that "da" is tried before "d".
var siPrefixes = []prefix{
	{"da", 1},
	{"P", 15}, {"T", 12}, {"G", 9}, {"M", 6}, {"k", 3},
	{"h", 2},
	{"d", -1}, {"c", -2}, {"m", -3}, {"u", -6}, {"n", -9},
	{"p", -12}, {"f", -15},
}

// Registry holds the unit table. It is built once and never mutated
// afterwards, so lookups are safe from any number of goroutines.
type Registry struct {
	units map[string]*Unit
}

// Lookup resolves a unit symbol, composing SI prefixes with registered
// units lazily: "km" is not in the table, but "k"+"m" is resolved at
// lookup time. Exact matches win over prefixed readings, so "min" is
// the minute and "cd" the candela.
func (r *Registry) Lookup(symbol string) (*Unit, error) {
	if u, ok := r.units[symbol]; ok {
		return u, nil
	}
	for _, p := range siPrefixes {
		rest, ok := strings.CutPrefix(symbol, p.symbol)
		if !ok || rest == "" {
			continue
		}
		base, ok := r.units[rest]
		if !ok || base.noPrefix {
			continue
		}
		var scale apd.Decimal
		if _, err := initContext.Mul(&scale, base.Scale, apd.New(1, p.exp)); err != nil {
			continue
		}
		return &Unit{
			Symbol: symbol,
			Dim:    base.Dim,
			Scale:  &scale,
		}, nil
	}
	return nil, &UnknownUnitError{Symbol: symbol}
}

// known reports whether symbol resolves to a unit. The lexer uses it
// to tell unit tokens from bare identifiers.
func (r *Registry) known(symbol string) bool {
	_, err := r.Lookup(symbol)
	return err == nil
}

// initContext is only used while building unit tables and resolving
// prefix scales; evaluation arithmetic uses the context-carried
// apd.Context.
var initContext = apd.BaseContext.WithPrecision(50)

func dim(length, mass, time, temp, current, subst, lumin int) Dimension {
	var d Dimension
	d[dimLength] = length
	d[dimMass] = mass
	d[dimTime] = time
	d[dimTemperature] = temp
	d[dimCurrent] = current
	d[dimSubstance] = subst
	d[dimLuminosity] = lumin
	return d
}

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic("calc: bad unit table constant " + s)
	}
	return d
}

func quoDecimal(num, den string) *apd.Decimal {
	var res apd.Decimal
	if _, err := initContext.Quo(&res, mustDecimal(num), mustDecimal(den)); err != nil {
		panic("calc: bad unit table quotient " + num + "/" + den)
	}
	return &res
}

var one = apd.New(1, 0)

// NewRegistry builds the default unit table. The registry is read-only
// after this returns.
func NewRegistry() *Registry {
	r := &Registry{units: make(map[string]*Unit, 64)}

	add := func(u *Unit) {
		r.units[u.Symbol] = u
	}
	linear := func(symbol string, d Dimension, scale *apd.Decimal) {
		add(&Unit{Symbol: symbol, Dim: d, Scale: scale})
	}

	// SI base units.
	linear("m", dim(1, 0, 0, 0, 0, 0, 0), one)
	linear("kg", dim(0, 1, 0, 0, 0, 0, 0), one)
	linear("g", dim(0, 1, 0, 0, 0, 0, 0), apd.New(1, -3))
	linear("s", dim(0, 0, 1, 0, 0, 0, 0), one)
	linear("A", dim(0, 0, 0, 0, 1, 0, 0), one)
	linear("K", dim(0, 0, 0, 1, 0, 0, 0), one)
	linear("mol", dim(0, 0, 0, 0, 0, 1, 0), one)
	linear("cd", dim(0, 0, 0, 0, 0, 0, 1), one)

	// Named derived units, all with scale 1.
	linear("Hz", dim(0, 0, -1, 0, 0, 0, 0), one)
	linear("N", dim(1, 1, -2, 0, 0, 0, 0), one)
	linear("Pa", dim(-1, 1, -2, 0, 0, 0, 0), one)
	linear("J", dim(2, 1, -2, 0, 0, 0, 0), one)
	linear("W", dim(2, 1, -3, 0, 0, 0, 0), one)
	linear("C", dim(0, 0, 1, 0, 1, 0, 0), one)
	linear("V", dim(2, 1, -3, 0, -1, 0, 0), one)
	linear("F", dim(-2, -1, 4, 0, 2, 0, 0), one)
	linear("Ohm", dim(2, 1, -3, 0, -2, 0, 0), one)
	linear("S", dim(-2, -1, 3, 0, 2, 0, 0), one)
	linear("Wb", dim(2, 1, -2, 0, -1, 0, 0), one)
	linear("T", dim(0, 1, -2, 0, -1, 0, 0), one)
	linear("H", dim(2, 1, -2, 0, -2, 0, 0), one)
	linear("lm", dim(0, 0, 0, 0, 0, 0, 1), one)
	linear("lx", dim(-2, 0, 0, 0, 0, 0, 1), one)

	// Angles are dimensionless in this model, like in SI.
	linear("rad", dim(0, 0, 0, 0, 0, 0, 0), one)
	linear("sr", dim(0, 0, 0, 0, 0, 0, 0), one)

	// Energy extras. kWh, GWh etc. come out of prefix composition.
	linear("Wh", dim(2, 1, -2, 0, 0, 0, 0), mustDecimal("3600"))
	linear("eV", dim(2, 1, -2, 0, 0, 0, 0), mustDecimal("1.602176634E-19"))
	linear("cal", dim(2, 1, -2, 0, 0, 0, 0), mustDecimal("4.184"))

	// Customary length, mass, volume. The inch is spelled out because
	// "in" is the conversion keyword.
	linear("inch", dim(1, 0, 0, 0, 0, 0, 0), mustDecimal("0.0254"))
	linear("ft", dim(1, 0, 0, 0, 0, 0, 0), mustDecimal("0.3048"))
	linear("yd", dim(1, 0, 0, 0, 0, 0, 0), mustDecimal("0.9144"))
	linear("mi", dim(1, 0, 0, 0, 0, 0, 0), mustDecimal("1609.344"))
	linear("mil", dim(1, 0, 0, 0, 0, 0, 0), mustDecimal("0.0000254"))
	linear("lb", dim(0, 1, 0, 0, 0, 0, 0), mustDecimal("0.45359237"))
	linear("oz", dim(0, 1, 0, 0, 0, 0, 0), mustDecimal("0.028349523125"))
	linear("t", dim(0, 1, 0, 0, 0, 0, 0), mustDecimal("1000"))
	linear("L", dim(3, 0, 0, 0, 0, 0, 0), apd.New(1, -3))

	linear("percent", dim(0, 0, 0, 0, 0, 0, 0), apd.New(1, -2))

	// Durations. Exact-length units are plain time quantities; month
	// and year additionally get calendar semantics when applied to an
	// absolute date/time. Their fixed factors are the Julian year of
	// 365.25 days and one twelfth of it, matching pint.
	tdim := dim(0, 0, 1, 0, 0, 0, 0)
	add(&Unit{Symbol: "min", Dim: tdim, Scale: mustDecimal("60"), noPrefix: true})
	add(&Unit{Symbol: "h", Dim: tdim, Scale: mustDecimal("3600")})
	add(&Unit{Symbol: "d", Dim: tdim, Scale: mustDecimal("86400")})
	add(&Unit{Symbol: "week", Dim: tdim, Scale: mustDecimal("604800"), noPrefix: true})
	add(&Unit{Symbol: "month", Dim: tdim, Scale: mustDecimal("2629800"), noPrefix: true, calendar: true})
	add(&Unit{Symbol: "year", Dim: tdim, Scale: mustDecimal("31557600"), noPrefix: true, calendar: true})

	// Physical constants, usable like units: "c in km/s",
	// "75 kg * g0". Excluded from prefixing; "kc" is not a thing.
	add(&Unit{Symbol: "c", Dim: dim(1, 0, -1, 0, 0, 0, 0), Scale: mustDecimal("299792458"), noPrefix: true})
	add(&Unit{Symbol: "g0", Dim: dim(1, 0, -2, 0, 0, 0, 0), Scale: mustDecimal("9.80665"), noPrefix: true})
	add(&Unit{Symbol: "NA", Dim: dim(0, 0, 0, 0, 0, -1, 0), Scale: mustDecimal("6.02214076E23"), noPrefix: true})

	// Affine temperature degrees: base = v*Scale + Offset.
	kdim := dim(0, 0, 0, 1, 0, 0, 0)
	add(&Unit{Symbol: "degC", Dim: kdim, Scale: one, Offset: mustDecimal("273.15"), noPrefix: true})
	add(&Unit{
		Symbol:   "degF",
		Dim:      kdim,
		Scale:    quoDecimal("5", "9"),
		Offset:   quoDecimal("2298.35", "9"), // 459.67 * 5/9
		noPrefix: true,
	})

	return r
}
