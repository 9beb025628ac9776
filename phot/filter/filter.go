// Package filter represents photometric filter response curves.
//
// A [Curve] owns a trimmed wavelength/response tabulation, evaluates the
// response at arbitrary wavelengths by linear interpolation (zero outside
// its range), and convolves itself with flux functions of wavelength. Its
// photon-weighted effective wavelength and AB zeropoint are computed once
// at construction.
//
// The convolution operator is
//
//	F[R, f] = integral f(lambda) R(lambda) w(lambda) dlambda
//
// where w(lambda) = lambda / (h c) for photon-counting detectors (the
// default) or 1 when photon weighting is disabled.
package filter

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/phot/grid"
	"github.com/cwbudde/algo-photometry/phot/interp"
	"github.com/cwbudde/algo-photometry/phot/spectrum"
	"github.com/cwbudde/algo-photometry/phot/units"
)

// Errors returned by curve construction and convolution.
var (
	ErrLengthMismatch    = errors.New("filter: wavelength and response must have the same length")
	ErrNegativeResponse  = errors.New("filter: response values must be non-negative")
	ErrAllZeroResponse   = errors.New("filter: response values cannot all be zero")
	ErrUnboundedResponse = errors.New("filter: response must go to zero on both sides")
	ErrInvalidMetadata   = errors.New("filter: invalid metadata")
	ErrFunctionLength    = errors.New("filter: function returned wrong number of values")
)

// Group and band names must belong to the identifier lexical class.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Metadata identifies a filter curve. Group and Band must be non-empty
// identifiers; the canonical curve name is "<group>-<band>".
type Metadata struct {
	Group string
	Band  string
}

// Validate checks both identifier fields.
func (m Metadata) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{name: "group", value: m.Group},
		{name: "band", value: m.Band},
	} {
		if !identifierPattern.MatchString(field.value) {
			return fmt.Errorf("%w: %s %q is not a valid identifier",
				ErrInvalidMetadata, field.name, field.value)
		}
	}

	return nil
}

// Name returns the canonical "<group>-<band>" name.
func (m Metadata) Name() string {
	return m.Group + "-" + m.Band
}

// Curve is an immutable filter response curve. Construct with [New];
// concurrent read-only use is safe.
type Curve struct {
	wavelength []float64 // trimmed grid, Angstrom
	response   []float64 // same length, bounded by one zero per side
	table      *interp.Table
	photon     []float64 // lambda / (h c) on the trimmed grid
	meta       Metadata

	effectiveWavelength units.Quantity
	zeroPoint           units.Quantity
}

type curveConfig struct {
	wavelengthUnit units.Unit
	hasUnit        bool
}

// Option configures curve construction.
type Option func(*curveConfig)

// WithWavelengthUnit declares the unit of the incoming wavelength array.
// Without this option wavelengths are taken to be in Angstrom.
func WithWavelengthUnit(unit units.Unit) Option {
	return func(cfg *curveConfig) {
		cfg.wavelengthUnit = unit
		cfg.hasUnit = true
	}
}

// New constructs a filter curve from a wavelength grid and matching
// response values.
//
// The wavelength array must be strictly increasing with at least three
// samples. Response values must be non-negative, not all zero, and exactly
// zero at the first and last sample; any extra leading or trailing zero
// samples beyond one per side are trimmed. The effective wavelength and AB
// zeropoint are computed here, once.
func New(wavelength, response []float64, meta Metadata, opts ...Option) (*Curve, error) {
	var cfg curveConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var wl []float64
	if cfg.hasUnit {
		converted, err := grid.ValidateIn(wavelength, cfg.wavelengthUnit, 3)
		if err != nil {
			return nil, err
		}
		wl = converted
	} else {
		err := grid.Validate(wavelength, 3)
		if err != nil {
			return nil, err
		}
		wl = append([]float64(nil), wavelength...)
	}

	if len(wl) != len(response) {
		return nil, ErrLengthMismatch
	}

	resp := append([]float64(nil), response...)
	allZero := true
	for _, r := range resp {
		if r < 0 {
			return nil, ErrNegativeResponse
		}
		if r > 0 {
			allZero = false
		}
	}

	if allZero {
		return nil, ErrAllZeroResponse
	}

	if resp[0] != 0 || resp[len(resp)-1] != 0 {
		return nil, ErrUnboundedResponse
	}

	// Trim extra zero padding, keeping exactly one zero sample per side.
	first, last := 0, len(resp)-1
	for resp[first] == 0 {
		first++
	}
	for resp[last] == 0 {
		last--
	}
	wl = wl[first-1 : last+2]
	resp = resp[first-1 : last+2]

	err := meta.Validate()
	if err != nil {
		return nil, err
	}

	table, err := interp.NewTable(wl, resp)
	if err != nil {
		return nil, err
	}

	photon := make([]float64, len(wl))
	vecmath.ScaleBlock(photon, wl, 1/units.HC.Value)

	c := &Curve{
		wavelength: wl,
		response:   resp,
		table:      table,
		photon:     photon,
		meta:       meta,
	}

	// Photon-weighted mean wavelength: F[R, lambda] / F[R, 1].
	numer, err := c.ConvolveFunc(spectrum.Identity())
	if err != nil {
		return nil, err
	}

	denom, err := c.ConvolveFunc(spectrum.Constant(1, units.Dimensionless))
	if err != nil {
		return nil, err
	}

	c.effectiveWavelength, err = units.Div(numer, denom).To(units.Angstrom)
	if err != nil {
		return nil, err
	}

	// AB zeropoint: the rate of incident photons per unit telescope area
	// from a zero magnitude source.
	zp, err := c.ConvolveFunc(spectrum.ABReference(0),
		WithExpectedUnit(units.FluxPerAngstrom))
	if err != nil {
		return nil, err
	}

	c.zeroPoint, err = zp.To(units.ZeroPointRate)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Meta returns the curve's metadata.
func (c *Curve) Meta() Metadata {
	return c.meta
}

// Name returns the canonical "<group>-<band>" name.
func (c *Curve) Name() string {
	return c.meta.Name()
}

// Len returns the number of tabulated samples after trimming.
func (c *Curve) Len() int {
	return len(c.wavelength)
}

// Wavelengths returns a copy of the trimmed wavelength grid, in Angstrom.
func (c *Curve) Wavelengths() []float64 {
	return append([]float64(nil), c.wavelength...)
}

// Response returns a copy of the trimmed response values.
func (c *Curve) Response() []float64 {
	return append([]float64(nil), c.response...)
}

// Range returns the first and last trimmed wavelengths, in Angstrom.
func (c *Curve) Range() (lo, hi float64) {
	return c.wavelength[0], c.wavelength[len(c.wavelength)-1]
}

// EffectiveWavelength returns the photon-weighted mean wavelength.
func (c *Curve) EffectiveWavelength() units.Quantity {
	return c.effectiveWavelength
}

// ZeroPoint returns the AB zeropoint, in 1 / (cm2 s).
func (c *Curve) ZeroPoint() units.Quantity {
	return c.zeroPoint
}

// At evaluates the response at a wavelength in Angstrom. Wavelengths
// outside the trimmed range return exactly 0.
func (c *Curve) At(wavelength float64) float64 {
	return c.table.At(wavelength)
}

// AtIn evaluates the response at a wavelength tagged with a unit.
func (c *Curve) AtIn(wavelength float64, unit units.Unit) (float64, error) {
	factor, err := unit.Factor(units.Angstrom)
	if err != nil {
		return 0, err
	}

	return c.table.At(wavelength * factor), nil
}

// Sample writes the response at each wavelength (Angstrom) into dst, which
// must have the same length.
func (c *Curve) Sample(dst, wavelength []float64) error {
	return c.table.Sample(dst, wavelength)
}
