package conv

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/phot/filter"
	"github.com/cwbudde/algo-photometry/phot/units"
)

// scratch holds the per-call work buffers. Plans never own scratch state,
// so one plan can evaluate from several goroutines at once.
type scratch struct {
	integrand []float64
	base      []float64
	extra     []float64
}

func (p *Plan) newScratch() *scratch {
	s := &scratch{integrand: make([]float64, len(p.quadWavelength))}
	if p.sampler != nil {
		s.base = make([]float64, len(p.grid))
		s.extra = make([]float64, p.sampler.Len())
	}

	return s
}

// Evaluate computes the convolution integral for one spectrum tabulated on
// the plan's original wavelength grid. Values are taken to already be in
// the plan's input unit (or to need none).
func (p *Plan) Evaluate(values []float64) (float64, error) {
	return p.evaluate(values, p.newScratch())
}

// EvaluateQuantity converts values from the given unit to the plan's
// declared input unit and returns the result tagged with the plan's output
// unit. The plan must have been built with WithInputUnit.
func (p *Plan) EvaluateQuantity(values []float64, unit units.Unit) (units.Quantity, error) {
	if !p.hasInputUnit {
		return units.Quantity{}, ErrUnitsUndeclared
	}

	factor, err := unit.Factor(p.inputUnit)
	if err != nil {
		return units.Quantity{}, err
	}

	converted := make([]float64, len(values))
	vecmath.ScaleBlock(converted, values, factor)

	result, err := p.evaluate(converted, p.newScratch())
	if err != nil {
		return units.Quantity{}, err
	}

	return units.Quantity{Value: result, Unit: p.outputUnit}, nil
}

// EvaluateBatch computes the convolution integral for many spectra sharing
// the plan's wavelength grid, one spectrum per row. Work buffers are
// reused across rows, so batching amortizes both the plan and the
// allocations.
func (p *Plan) EvaluateBatch(values [][]float64) ([]float64, error) {
	results := make([]float64, len(values))
	s := p.newScratch()

	for i, row := range values {
		result, err := p.evaluate(row, s)
		if err != nil {
			return nil, fmt.Errorf("spectrum %d: %w", i, err)
		}

		results[i] = result
	}

	return results, nil
}

func (p *Plan) evaluate(values []float64, s *scratch) (float64, error) {
	if len(values) != p.fullLen {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrValueLength, len(values), p.fullLen)
	}

	sliced := values[p.lo:p.hi]

	if p.sampler == nil {
		vecmath.MulBlock(s.integrand, sliced, p.responseGrid)
	} else {
		vecmath.MulBlock(s.base, sliced, p.responseGrid)

		err := p.sampler.Apply(s.extra, sliced)
		if err != nil {
			return 0, err
		}
		vecmath.MulBlockInPlace(s.extra, p.interpResponse)

		// Reorder the concatenated (grid, interpolated) integrand into
		// quadrature-grid order using the stored permutation.
		n := len(s.base)
		for i, j := range p.order {
			if j < n {
				s.integrand[i] = s.base[j]
			} else {
				s.integrand[i] = s.extra[j-n]
			}
		}
	}

	if p.quadWeight != nil {
		vecmath.MulBlockInPlace(s.integrand, p.quadWeight)
	}

	return p.rule.Integrate(s.integrand, p.quadWavelength)
}

// Convolve is the one-shot convenience form: it builds a throwaway plan
// for the given curve and grid and evaluates it against values. Prefer
// NewPlan when convolving many spectra on the same grid.
func Convolve(curve *filter.Curve, wavelength, values []float64, opts ...Option) (float64, error) {
	plan, err := NewPlan(curve, wavelength, opts...)
	if err != nil {
		return 0, err
	}

	return plan.Evaluate(values)
}
