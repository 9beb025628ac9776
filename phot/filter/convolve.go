package filter

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/phot/quadrature"
	"github.com/cwbudde/algo-photometry/phot/spectrum"
	"github.com/cwbudde/algo-photometry/phot/units"
)

type convolveConfig struct {
	photonWeighted bool
	rule           quadrature.Rule
	expectedUnit   units.Unit
	hasExpected    bool
}

// ConvolveOption configures a curve convolution.
type ConvolveOption func(*convolveConfig)

// WithPhotonWeighting enables or disables the lambda / (h c) weight.
// Photon weighting is on by default.
func WithPhotonWeighting(enabled bool) ConvolveOption {
	return func(cfg *convolveConfig) {
		cfg.photonWeighted = enabled
	}
}

// WithRule selects the quadrature rule. Trapezoid is the default; Simpson
// can be more accurate for smooth integrands but is less robust on
// irregular grids.
func WithRule(rule quadrature.Rule) ConvolveOption {
	return func(cfg *convolveConfig) {
		cfg.rule = rule
	}
}

// WithExpectedUnit requires the function's declared unit to be convertible
// to the given unit; the integrand is converted before integration. A
// dimensionless function is taken to already be in the expected unit.
func WithExpectedUnit(unit units.Unit) ConvolveOption {
	return func(cfg *convolveConfig) {
		cfg.expectedUnit = unit
		cfg.hasExpected = true
	}
}

func applyConvolveOptions(opts []ConvolveOption) convolveConfig {
	cfg := convolveConfig{
		photonWeighted: true,
		rule:           quadrature.Trapezoid,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// ConvolveFunc computes the convolution integral F[R, f] of the curve with
// a flux function, sampled on the curve's own wavelength grid.
//
// The result unit is the function's unit times Angstrom, times the photon
// weight unit when photon weighting is enabled. The effective wavelength
// and AB zeropoint computed at construction are special cases of this
// method.
func (c *Curve) ConvolveFunc(f spectrum.Func, opts ...ConvolveOption) (units.Quantity, error) {
	cfg := applyConvolveOptions(opts)
	if !cfg.rule.Valid() {
		return units.Quantity{}, fmt.Errorf("%w: %s", quadrature.ErrUnknownRule, cfg.rule)
	}

	values, err := f.Eval(c.wavelength)
	if err != nil {
		return units.Quantity{}, err
	}

	if len(values) != len(c.wavelength) {
		return units.Quantity{}, fmt.Errorf("%w: got %d, want %d",
			ErrFunctionLength, len(values), len(c.wavelength))
	}

	valueUnit := f.Unit
	integrand := make([]float64, len(values))

	if cfg.hasExpected && !f.Unit.IsDimensionless() {
		factor, err := f.Unit.Factor(cfg.expectedUnit)
		if err != nil {
			return units.Quantity{}, err
		}

		vecmath.ScaleBlock(integrand, values, factor)
		valueUnit = cfg.expectedUnit
	} else {
		copy(integrand, values)
		if cfg.hasExpected {
			valueUnit = cfg.expectedUnit
		}
	}

	vecmath.MulBlockInPlace(integrand, c.response)

	outputUnit := valueUnit.Mul(units.Angstrom)
	if cfg.photonWeighted {
		vecmath.MulBlockInPlace(integrand, c.photon)
		outputUnit = outputUnit.Mul(units.PhotonWeight)
	}

	result, err := cfg.rule.Integrate(integrand, c.wavelength)
	if err != nil {
		return units.Quantity{}, err
	}

	return units.Quantity{Value: result, Unit: outputUnit}, nil
}
