// Package grid validates wavelength grids used by filter curves and
// convolution plans.
package grid

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-photometry/phot/units"
)

// Errors returned by grid validation.
var (
	ErrTooShort      = errors.New("grid: wavelength array below minimum length")
	ErrNotIncreasing = errors.New("grid: wavelength values must be strictly increasing")
)

// Validate checks that wavelength is strictly increasing and at least
// minLen long. Values are taken to be in the canonical wavelength unit
// (Angstrom).
func Validate(wavelength []float64, minLen int) error {
	if len(wavelength) < minLen {
		return fmt.Errorf("%w: need %d, have %d", ErrTooShort, minLen, len(wavelength))
	}

	for i := 1; i < len(wavelength); i++ {
		if wavelength[i] <= wavelength[i-1] {
			return fmt.Errorf("%w: at index %d", ErrNotIncreasing, i)
		}
	}

	return nil
}

// ValidateIn validates a wavelength array tagged with a unit and returns a
// new array converted to Angstrom. The unit must be convertible to the
// canonical wavelength unit.
func ValidateIn(wavelength []float64, unit units.Unit, minLen int) ([]float64, error) {
	converted := make([]float64, len(wavelength))

	err := units.ConvertSlice(converted, wavelength, unit, units.Angstrom)
	if err != nil {
		return nil, err
	}

	err = Validate(converted, minLen)
	if err != nil {
		return nil, err
	}

	return converted, nil
}
