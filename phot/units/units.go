// Package units provides a minimal dimensional-analysis kernel for the
// quantities that cross photometric boundaries: wavelengths, spectral flux
// densities, and the composite units produced by convolution integrals.
//
// Units are represented by a conversion scale into a CGS (gram, centimeter,
// second) base together with an exponent vector over the base dimensions.
// Two units are convertible when their exponent vectors match; the
// conversion factor is the ratio of their scales. Products and quotients of
// units compose both parts, so the output unit of a photon-weighted
// convolution (flux x wavelength^2 / (h c)) falls out of the algebra without
// special cases.
package units

import (
	"errors"
	"fmt"
)

// Errors returned by unit conversions.
var (
	ErrIncompatibleUnits = errors.New("units: incompatible units")
	ErrSliceLength       = errors.New("units: slice length mismatch")
)

// Dim is an exponent vector over the CGS base dimensions.
type Dim struct {
	Mass   int
	Length int
	Time   int
}

// Mul returns the dimension of a product.
func (d Dim) Mul(other Dim) Dim {
	return Dim{
		Mass:   d.Mass + other.Mass,
		Length: d.Length + other.Length,
		Time:   d.Time + other.Time,
	}
}

// Div returns the dimension of a quotient.
func (d Dim) Div(other Dim) Dim {
	return Dim{
		Mass:   d.Mass - other.Mass,
		Length: d.Length - other.Length,
		Time:   d.Time - other.Time,
	}
}

// Pow returns the dimension raised to an integer power.
func (d Dim) Pow(n int) Dim {
	return Dim{
		Mass:   d.Mass * n,
		Length: d.Length * n,
		Time:   d.Time * n,
	}
}

// Unit is a physical unit: a symbol, a scale into the CGS base, and a
// dimension. The zero value is not a valid unit; use Dimensionless for
// pure numbers.
type Unit struct {
	symbol string
	scale  float64
	dim    Dim
}

// Def creates a unit from a symbol, a scale into the CGS base, and a
// dimension. Intended for units not covered by the predefined set.
func Def(symbol string, scale float64, dim Dim) Unit {
	return Unit{symbol: symbol, scale: scale, dim: dim}
}

// Predefined units. Angstrom is the canonical wavelength unit and
// FluxPerAngstrom the canonical spectral flux density unit; all internal
// arrays hold values in these units.
var (
	Dimensionless = Unit{symbol: "", scale: 1, dim: Dim{}}

	Angstrom   = Unit{symbol: "Angstrom", scale: 1e-8, dim: Dim{Length: 1}}
	Nanometer  = Unit{symbol: "nm", scale: 1e-7, dim: Dim{Length: 1}}
	Micron     = Unit{symbol: "um", scale: 1e-4, dim: Dim{Length: 1}}
	Millimeter = Unit{symbol: "mm", scale: 1e-1, dim: Dim{Length: 1}}
	Centimeter = Unit{symbol: "cm", scale: 1, dim: Dim{Length: 1}}
	Meter      = Unit{symbol: "m", scale: 1e2, dim: Dim{Length: 1}}

	Gram   = Unit{symbol: "g", scale: 1, dim: Dim{Mass: 1}}
	Second = Unit{symbol: "s", scale: 1, dim: Dim{Time: 1}}

	Erg = Unit{symbol: "erg", scale: 1, dim: Dim{Mass: 1, Length: 2, Time: -2}}

	// Jansky is the spectral flux density per unit frequency,
	// 1 Jy = 1e-23 erg / (cm2 s Hz).
	Jansky = Unit{symbol: "Jy", scale: 1e-23, dim: Dim{Mass: 1, Time: -2}}

	// FluxPerAngstrom is erg / (cm2 s Angstrom), the canonical unit for
	// spectral flux density per unit wavelength.
	FluxPerAngstrom = Erg.Div(Centimeter.Pow(2)).Div(Second).Div(Angstrom).
			Named("erg / (Angstrom cm2 s)")

	// ZeroPointRate is 1 / (cm2 s), the unit of AB zeropoints: the rate of
	// incident photons per unit telescope area from a zero magnitude source.
	ZeroPointRate = Dimensionless.Div(Centimeter.Pow(2)).Div(Second).
			Named("1 / (cm2 s)")
)

// Named returns a copy of the unit with a replacement symbol. Useful after
// composing units, where the generated symbol can get unwieldy.
func (u Unit) Named(symbol string) Unit {
	u.symbol = symbol
	return u
}

// Symbol returns the unit's display symbol.
func (u Unit) Symbol() string {
	if u.symbol == "" {
		return "1"
	}

	return u.symbol
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return u.Symbol()
}

// Dim returns the unit's dimension exponent vector.
func (u Unit) Dim() Dim {
	return u.dim
}

// IsDimensionless reports whether the unit carries no physical dimension.
func (u Unit) IsDimensionless() bool {
	return u.dim == Dim{}
}

// Mul returns the product unit.
func (u Unit) Mul(other Unit) Unit {
	return Unit{
		symbol: composeSymbol(u.Symbol(), "*", other.Symbol()),
		scale:  u.scale * other.scale,
		dim:    u.dim.Mul(other.dim),
	}
}

// Div returns the quotient unit.
func (u Unit) Div(other Unit) Unit {
	return Unit{
		symbol: composeSymbol(u.Symbol(), "/", other.Symbol()),
		scale:  u.scale / other.scale,
		dim:    u.dim.Div(other.dim),
	}
}

// Pow returns the unit raised to an integer power.
func (u Unit) Pow(n int) Unit {
	scale := 1.0
	for i := 0; i < n; i++ {
		scale *= u.scale
	}
	for i := 0; i > n; i-- {
		scale /= u.scale
	}

	return Unit{
		symbol: fmt.Sprintf("%s^%d", u.Symbol(), n),
		scale:  scale,
		dim:    u.dim.Pow(n),
	}
}

func composeSymbol(a, op, b string) string {
	return "(" + a + ") " + op + " (" + b + ")"
}

// ConvertibleTo reports whether values in u can be converted to values
// in target.
func (u Unit) ConvertibleTo(target Unit) bool {
	return u.dim == target.dim
}

// Factor returns the multiplicative factor converting values in u to
// values in target.
func (u Unit) Factor(target Unit) (float64, error) {
	if !u.ConvertibleTo(target) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrIncompatibleUnits, u, target)
	}

	return u.scale / target.scale, nil
}

// Quantity is a value tagged with a unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// To converts the quantity to the target unit.
func (q Quantity) To(target Unit) (Quantity, error) {
	factor, err := q.Unit.Factor(target)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Value: q.Value * factor, Unit: target}, nil
}

// String implements fmt.Stringer.
func (q Quantity) String() string {
	if q.Unit.IsDimensionless() && q.Unit.symbol == "" {
		return fmt.Sprintf("%g", q.Value)
	}

	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// Mul returns the product of two quantities.
func Mul(a, b Quantity) Quantity {
	return Quantity{Value: a.Value * b.Value, Unit: a.Unit.Mul(b.Unit)}
}

// Div returns the quotient of two quantities.
func Div(a, b Quantity) Quantity {
	return Quantity{Value: a.Value / b.Value, Unit: a.Unit.Div(b.Unit)}
}
