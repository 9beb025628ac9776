// Package spectrum defines the typed contract for flux functions of
// wavelength and the stock spectra used by filter convolutions.
//
// A [Func] declares its value unit up front and tabulates itself on a grid
// of canonical (Angstrom) wavelengths in one call. Callables with looser
// conventions, e.g. scalar functions or functions returning tagged
// quantities, are wrapped once at the boundary by the From* adapters
// instead of being probed per call.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-photometry/phot/units"
)

// Errors returned when evaluating flux functions.
var (
	ErrInconsistentUnits = errors.New("spectrum: function returned inconsistent units")
)

// Func is a flux function of wavelength with a declared value unit.
// Eval receives wavelengths in Angstrom and returns one value per
// wavelength, in Unit. Unit may be units.Dimensionless.
type Func struct {
	Unit units.Unit
	Eval func(wavelength []float64) ([]float64, error)
}

// Constant returns a function with the same value at every wavelength.
func Constant(value float64, unit units.Unit) Func {
	return Func{
		Unit: unit,
		Eval: func(wavelength []float64) ([]float64, error) {
			out := make([]float64, len(wavelength))
			for i := range out {
				out[i] = value
			}

			return out, nil
		},
	}
}

// Identity returns f(lambda) = lambda, in Angstrom. Combined with
// [Constant], it defines a filter's photon-weighted effective wavelength.
func Identity() Func {
	return Func{
		Unit: units.Angstrom,
		Eval: func(wavelength []float64) ([]float64, error) {
			out := make([]float64, len(wavelength))
			copy(out, wavelength)

			return out, nil
		},
	}
}

// ABReference returns the AB reference spectrum normalized to the given
// magnitude:
//
//	flux(lambda) = 10^(-0.4 magnitude) * C_AB / lambda^2
//
// in canonical flux units. The magnitude-zero form defines filter
// zeropoints in the AB system.
func ABReference(magnitude float64) Func {
	norm := math.Pow(10, -0.4*magnitude) * units.ABConstant.Value

	return Func{
		Unit: units.FluxPerAngstrom,
		Eval: func(wavelength []float64) ([]float64, error) {
			out := make([]float64, len(wavelength))
			for i, w := range wavelength {
				out[i] = norm / (w * w)
			}

			return out, nil
		},
	}
}

// FromScalar wraps a plain scalar function of wavelength (in Angstrom)
// returning values in the declared unit.
func FromScalar(f func(wavelength float64) float64, unit units.Unit) Func {
	return Func{
		Unit: unit,
		Eval: func(wavelength []float64) ([]float64, error) {
			out := make([]float64, len(wavelength))
			for i, w := range wavelength {
				out[i] = f(w)
			}

			return out, nil
		},
	}
}

// FromQuantityFunc wraps a scalar function returning tagged quantities.
// Every sample is converted to the declared unit; a sample whose unit is
// not convertible makes the whole evaluation fail with
// ErrInconsistentUnits.
func FromQuantityFunc(f func(wavelength float64) units.Quantity, unit units.Unit) Func {
	return Func{
		Unit: unit,
		Eval: func(wavelength []float64) ([]float64, error) {
			out := make([]float64, len(wavelength))
			for i, w := range wavelength {
				q := f(w)

				converted, err := q.To(unit)
				if err != nil {
					return nil, fmt.Errorf("%w: sample %d has %s, want %s",
						ErrInconsistentUnits, i, q.Unit, unit)
				}

				out[i] = converted.Value
			}

			return out, nil
		},
	}
}
