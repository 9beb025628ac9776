// Package mag computes AB maggies and magnitudes from filter convolutions.
//
// A maggies value is the dimensionless ratio F[R, f] / F[R, f_AB]: a linear
// measure of a source's flux through a filter relative to the AB standard.
// The corresponding magnitude is -2.5 log10 of that ratio. Both are always
// photon-weighted, and the tabulated forms always permit interpolation:
// this is the convenience entry point, so undersampled grids are handled
// rather than rejected.
package mag

import (
	"math"

	"github.com/cwbudde/algo-photometry/phot/conv"
	"github.com/cwbudde/algo-photometry/phot/filter"
	"github.com/cwbudde/algo-photometry/phot/quadrature"
	"github.com/cwbudde/algo-photometry/phot/spectrum"
	"github.com/cwbudde/algo-photometry/phot/units"
)

type config struct {
	valueUnit      units.Unit
	rule           quadrature.Rule
	wavelengthUnit units.Unit
	hasGridUnit    bool
}

// Option configures a maggies or magnitude calculation.
type Option func(*config)

// WithUnit declares the unit of tabulated flux values. Without this option
// values are taken to be in the canonical flux unit, erg / (cm2 s Angstrom).
func WithUnit(unit units.Unit) Option {
	return func(cfg *config) {
		cfg.valueUnit = unit
	}
}

// WithRule selects the quadrature rule. Trapezoid is the default.
func WithRule(rule quadrature.Rule) Option {
	return func(cfg *config) {
		cfg.rule = rule
	}
}

// WithWavelengthUnit declares the unit of the wavelength grid. Without
// this option the grid is taken to be in Angstrom.
func WithWavelengthUnit(unit units.Unit) Option {
	return func(cfg *config) {
		cfg.wavelengthUnit = unit
		cfg.hasGridUnit = true
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		valueUnit: units.FluxPerAngstrom,
		rule:      quadrature.Trapezoid,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Maggies computes the AB flux ratio of a flux function through a filter.
func Maggies(curve *filter.Curve, f spectrum.Func, opts ...Option) (float64, error) {
	cfg := applyOptions(opts)

	q, err := curve.ConvolveFunc(f,
		filter.WithExpectedUnit(units.FluxPerAngstrom),
		filter.WithRule(cfg.rule))
	if err != nil {
		return 0, err
	}

	rate, err := q.To(units.ZeroPointRate)
	if err != nil {
		return 0, err
	}

	return rate.Value / curve.ZeroPoint().Value, nil
}

// Magnitude computes the AB magnitude of a flux function through a filter.
func Magnitude(curve *filter.Curve, f spectrum.Func, opts ...Option) (float64, error) {
	maggies, err := Maggies(curve, f, opts...)
	if err != nil {
		return 0, err
	}

	return -2.5 * math.Log10(maggies), nil
}

func newPlan(curve *filter.Curve, wavelength []float64, cfg config) (*conv.Plan, error) {
	planOpts := []conv.Option{
		conv.WithPhotonWeighting(true),
		conv.WithInterpolation(true),
		conv.WithRule(cfg.rule),
		conv.WithInputUnit(units.FluxPerAngstrom),
	}
	if cfg.hasGridUnit {
		planOpts = append(planOpts, conv.WithWavelengthUnit(cfg.wavelengthUnit))
	}

	return conv.NewPlan(curve, wavelength, planOpts...)
}

// MaggiesTabulated computes the AB flux ratio of one spectrum tabulated on
// a wavelength grid covering the filter.
func MaggiesTabulated(curve *filter.Curve, wavelength, values []float64, opts ...Option) (float64, error) {
	cfg := applyOptions(opts)

	plan, err := newPlan(curve, wavelength, cfg)
	if err != nil {
		return 0, err
	}

	q, err := plan.EvaluateQuantity(values, cfg.valueUnit)
	if err != nil {
		return 0, err
	}

	rate, err := q.To(units.ZeroPointRate)
	if err != nil {
		return 0, err
	}

	return rate.Value / curve.ZeroPoint().Value, nil
}

// MaggiesBatch computes AB flux ratios for many spectra sharing one
// wavelength grid, one spectrum per row.
func MaggiesBatch(curve *filter.Curve, wavelength []float64, values [][]float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	plan, err := newPlan(curve, wavelength, cfg)
	if err != nil {
		return nil, err
	}

	factor, err := cfg.valueUnit.Factor(units.FluxPerAngstrom)
	if err != nil {
		return nil, err
	}

	outputUnit, _ := plan.OutputUnit()
	rateFactor, err := outputUnit.Factor(units.ZeroPointRate)
	if err != nil {
		return nil, err
	}

	results, err := plan.EvaluateBatch(values)
	if err != nil {
		return nil, err
	}

	scale := factor * rateFactor / curve.ZeroPoint().Value
	for i := range results {
		results[i] *= scale
	}

	return results, nil
}

// MagnitudeTabulated computes the AB magnitude of one tabulated spectrum.
func MagnitudeTabulated(curve *filter.Curve, wavelength, values []float64, opts ...Option) (float64, error) {
	maggies, err := MaggiesTabulated(curve, wavelength, values, opts...)
	if err != nil {
		return 0, err
	}

	return -2.5 * math.Log10(maggies), nil
}

// MagnitudeBatch computes AB magnitudes for many spectra sharing one
// wavelength grid.
func MagnitudeBatch(curve *filter.Curve, wavelength []float64, values [][]float64, opts ...Option) ([]float64, error) {
	maggies, err := MaggiesBatch(curve, wavelength, values, opts...)
	if err != nil {
		return nil, err
	}

	for i, m := range maggies {
		maggies[i] = -2.5 * math.Log10(m)
	}

	return maggies, nil
}

// SetMagnitudes computes AB magnitudes for many spectra through every
// filter of a set. The result has one row per spectrum and one column per
// filter, in set order.
func SetMagnitudes(set filter.Set, wavelength []float64, values [][]float64, opts ...Option) ([][]float64, error) {
	table := make([][]float64, len(values))
	for i := range table {
		table[i] = make([]float64, set.Len())
	}

	for j := 0; j < set.Len(); j++ {
		column, err := MagnitudeBatch(set.At(j), wavelength, values, opts...)
		if err != nil {
			return nil, err
		}

		for i, m := range column {
			table[i][j] = m
		}
	}

	return table, nil
}
