package conv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/phot/filter"
	"github.com/cwbudde/algo-photometry/phot/grid"
	"github.com/cwbudde/algo-photometry/phot/interp"
	"github.com/cwbudde/algo-photometry/phot/quadrature"
	"github.com/cwbudde/algo-photometry/phot/units"
)

// Errors returned by plan construction and evaluation.
var (
	ErrCoverage        = errors.New("conv: wavelengths do not cover the filter response")
	ErrUndersampled    = errors.New("conv: wavelengths undersample the response and interpolation is disabled")
	ErrValueLength     = errors.New("conv: wrong number of values for the wavelength grid")
	ErrUnitsUndeclared = errors.New("conv: plan has no declared input unit")
)

type planConfig struct {
	photonWeighted bool
	interpolate    bool
	rule           quadrature.Rule
	inputUnit      units.Unit
	hasInputUnit   bool
	wavelengthUnit units.Unit
	hasGridUnit    bool
}

// Option configures plan construction.
type Option func(*planConfig)

// WithPhotonWeighting enables or disables the lambda / (h c) weight.
// Photon weighting is on by default.
func WithPhotonWeighting(enabled bool) Option {
	return func(cfg *planConfig) {
		cfg.photonWeighted = enabled
	}
}

// WithInterpolation permits interpolating the input function at filter
// wavelengths the input grid undersamples. Off by default because it adds
// per-evaluation cost; finer input sampling avoids it entirely.
func WithInterpolation(enabled bool) Option {
	return func(cfg *planConfig) {
		cfg.interpolate = enabled
	}
}

// WithRule selects the quadrature rule used at evaluation time. Trapezoid
// is the default.
func WithRule(rule quadrature.Rule) Option {
	return func(cfg *planConfig) {
		cfg.rule = rule
	}
}

// WithInputUnit declares the physical unit of values passed to Evaluate.
// Required for EvaluateQuantity; plain Evaluate assumes its values are
// already in this unit.
func WithInputUnit(unit units.Unit) Option {
	return func(cfg *planConfig) {
		cfg.inputUnit = unit
		cfg.hasInputUnit = true
	}
}

// WithWavelengthUnit declares the unit of the incoming wavelength grid.
// Without this option the grid is taken to be in Angstrom.
func WithWavelengthUnit(unit units.Unit) Option {
	return func(cfg *planConfig) {
		cfg.wavelengthUnit = unit
		cfg.hasGridUnit = true
	}
}

// Plan is the precomputed state for convolving one filter curve against
// spectra tabulated on one wavelength grid: the covering slice of the
// grid, the response resampled onto it, interpolation nodes for any
// undersampled filter wavelengths, the merged quadrature grid, and the
// per-node photon weights. Immutable after construction and safe for
// concurrent use.
type Plan struct {
	curve   *filter.Curve
	fullLen int
	lo, hi  int // covering slice bounds into the full grid

	grid         []float64 // restricted wavelength grid, Angstrom
	responseGrid []float64 // response resampled onto grid

	interpWavelength []float64 // filter wavelengths needing interpolation
	interpResponse   []float64 // response at each interpolation node
	sampler          *interp.Sampler
	order            []int // permutation merging grid and interp nodes

	quadWavelength []float64
	quadWeight     []float64 // photon weights, nil when unweighted

	rule           quadrature.Rule
	photonWeighted bool
	inputUnit      units.Unit
	hasInputUnit   bool
	outputUnit     units.Unit
}

// NewPlan analyzes a wavelength grid against a filter curve and builds a
// reusable evaluation plan.
//
// The grid needs at least two points, must be strictly increasing, and
// must fully cover the filter's wavelength range; extrapolation is never
// performed. When the grid undersamples the filter and interpolation is
// not enabled, construction fails with ErrUndersampled.
func NewPlan(curve *filter.Curve, wavelength []float64, opts ...Option) (*Plan, error) {
	cfg := planConfig{photonWeighted: true, rule: quadrature.Trapezoid}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.rule.Valid() {
		return nil, fmt.Errorf("%w: %s", quadrature.ErrUnknownRule, cfg.rule)
	}

	var wl []float64
	if cfg.hasGridUnit {
		converted, err := grid.ValidateIn(wavelength, cfg.wavelengthUnit, 2)
		if err != nil {
			return nil, err
		}
		wl = converted
	} else {
		err := grid.Validate(wavelength, 2)
		if err != nil {
			return nil, err
		}
		wl = append([]float64(nil), wavelength...)
	}

	fLo, fHi := curve.Range()
	if wl[0] > fLo || wl[len(wl)-1] < fHi {
		return nil, fmt.Errorf("%w: need [%.1f, %.1f] Angstrom", ErrCoverage, fLo, fHi)
	}

	// Smallest contiguous slice of the grid that still covers the filter
	// support; quadrature nodes outside it contribute nothing.
	lo, hi := 0, len(wl)
	if wl[0] < fLo {
		i := sort.SearchFloat64s(wl, fLo)
		if i == len(wl) || wl[i] != fLo {
			i--
		}
		lo = i
	}
	if wl[len(wl)-1] > fHi {
		hi = 1 + sort.SearchFloat64s(wl, fHi)
	}
	wl = wl[lo:hi]

	responseGrid := make([]float64, len(wl))
	err := curve.Sample(responseGrid, wl)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		curve:          curve,
		fullLen:        len(wavelength),
		lo:             lo,
		hi:             hi,
		grid:           wl,
		responseGrid:   responseGrid,
		rule:           cfg.rule,
		photonWeighted: cfg.photonWeighted,
		inputUnit:      cfg.inputUnit,
		hasInputUnit:   cfg.hasInputUnit,
	}

	err = p.analyzeSampling(cfg.interpolate)
	if err != nil {
		return nil, err
	}

	// Clamp the quadrature endpoints to the filter's own boundary
	// wavelengths so floating-point overrun never extrapolates the
	// response.
	if p.quadWavelength[0] < fLo {
		p.quadWavelength[0] = fLo
	}
	if p.quadWavelength[len(p.quadWavelength)-1] > fHi {
		p.quadWavelength[len(p.quadWavelength)-1] = fHi
	}

	if cfg.photonWeighted {
		p.quadWeight = make([]float64, len(p.quadWavelength))
		vecmath.ScaleBlock(p.quadWeight, p.quadWavelength, 1/units.HC.Value)
	}

	if cfg.hasInputUnit {
		p.outputUnit = cfg.inputUnit.Mul(units.Angstrom)
		if cfg.photonWeighted {
			p.outputUnit = p.outputUnit.Mul(units.PhotonWeight)
		}
	}

	return p, nil
}

// analyzeSampling runs the sufficiency test and builds the quadrature
// grid. The criterion is that at most one interior filter wavelength maps
// to each insertion bucket of the restricted grid; buckets holding two or
// more are undersampled and their filter wavelengths (all but the last in
// each run) become interpolation nodes.
func (p *Plan) analyzeSampling(interpolate bool) error {
	fw := p.curve.Wavelengths()
	fr := p.curve.Response()

	insert := make([]int, len(fw)-1)
	for k := 1; k < len(fw); k++ {
		insert[k-1] = sort.SearchFloat64s(p.grid, fw[k])
	}

	var nodes []int
	for k := 0; k+1 < len(insert); k++ {
		if insert[k+1] == insert[k] {
			nodes = append(nodes, k+1)
		}
	}

	if len(nodes) == 0 {
		p.quadWavelength = append([]float64(nil), p.grid...)
		return nil
	}

	if !interpolate {
		return fmt.Errorf("%w: %d filter wavelengths affected", ErrUndersampled, len(nodes))
	}

	p.interpWavelength = make([]float64, len(nodes))
	p.interpResponse = make([]float64, len(nodes))
	for i, k := range nodes {
		p.interpWavelength[i] = fw[k]
		p.interpResponse[i] = fr[k]
	}

	sampler, err := interp.NewSampler(p.grid, p.interpWavelength)
	if err != nil {
		return err
	}
	p.sampler = sampler

	// Merge the grid with the interpolation nodes, remembering the sort
	// permutation for reuse at evaluation time.
	merged := make([]float64, 0, len(p.grid)+len(p.interpWavelength))
	merged = append(merged, p.grid...)
	merged = append(merged, p.interpWavelength...)

	p.order = make([]int, len(merged))
	for i := range p.order {
		p.order[i] = i
	}
	sort.SliceStable(p.order, func(a, b int) bool {
		return merged[p.order[a]] < merged[p.order[b]]
	})

	p.quadWavelength = make([]float64, len(merged))
	for i, j := range p.order {
		p.quadWavelength[i] = merged[j]
	}

	return nil
}

// Curve returns the filter curve the plan was built for.
func (p *Plan) Curve() *filter.Curve {
	return p.curve
}

// GridLen returns the length of the original input wavelength grid, which
// value arrays passed to Evaluate must match.
func (p *Plan) GridLen() int {
	return p.fullLen
}

// Interpolates reports whether the plan interpolates the input function at
// undersampled filter wavelengths.
func (p *Plan) Interpolates() bool {
	return p.sampler != nil
}

// QuadratureGrid returns a copy of the merged quadrature wavelength grid.
func (p *Plan) QuadratureGrid() []float64 {
	return append([]float64(nil), p.quadWavelength...)
}

// Rule returns the quadrature rule applied at evaluation time.
func (p *Plan) Rule() quadrature.Rule {
	return p.rule
}

// PhotonWeighted reports whether the lambda / (h c) weight is applied.
func (p *Plan) PhotonWeighted() bool {
	return p.photonWeighted
}

// InputUnit returns the declared unit of input values, if any.
func (p *Plan) InputUnit() (units.Unit, bool) {
	return p.inputUnit, p.hasInputUnit
}

// OutputUnit returns the unit of convolution results, defined only when an
// input unit was declared.
func (p *Plan) OutputUnit() (units.Unit, bool) {
	return p.outputUnit, p.hasInputUnit
}
