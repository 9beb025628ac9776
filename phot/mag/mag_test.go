package mag

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-photometry/phot/conv"
	"github.com/cwbudde/algo-photometry/phot/filter"
	"github.com/cwbudde/algo-photometry/phot/spectrum"
	"github.com/cwbudde/algo-photometry/phot/units"
)

func triangleCurve(t *testing.T, band string, center float64) *filter.Curve {
	t.Helper()

	c, err := filter.New(
		[]float64{center - 1000, center, center + 1000},
		[]float64{0, 1, 0},
		filter.Metadata{Group: "test", Band: band},
	)
	if err != nil {
		t.Fatalf("filter.New() error: %v", err)
	}

	return c
}

// abFlux tabulates the zero magnitude AB reference spectrum on a grid.
func abFlux(wavelength []float64) []float64 {
	out := make([]float64, len(wavelength))
	for i, w := range wavelength {
		out[i] = units.ABConstant.Value / (w * w)
	}

	return out
}

func TestMaggiesABReferenceIsUnity(t *testing.T) {
	c := triangleCurve(t, "r", 6000)

	maggies, err := Maggies(c, spectrum.ABReference(0))
	if err != nil {
		t.Fatalf("Maggies() error: %v", err)
	}

	if maggies != 1 {
		t.Fatalf("Maggies(AB ref) = %v, want exactly 1", maggies)
	}

	magnitude, err := Magnitude(c, spectrum.ABReference(0))
	if err != nil {
		t.Fatalf("Magnitude() error: %v", err)
	}

	if magnitude != 0 {
		t.Fatalf("Magnitude(AB ref) = %v, want exactly 0", magnitude)
	}
}

func TestMagnitudeTracksReferenceScale(t *testing.T) {
	c := triangleCurve(t, "r", 6000)

	for _, want := range []float64{-2, 5, 20} {
		magnitude, err := Magnitude(c, spectrum.ABReference(want))
		if err != nil {
			t.Fatalf("Magnitude() error: %v", err)
		}

		if math.Abs(magnitude-want) > 1e-12 {
			t.Fatalf("Magnitude(AB ref %v) = %v", want, magnitude)
		}
	}
}

func TestMaggiesTabulatedRoundTrip(t *testing.T) {
	c := triangleCurve(t, "r", 6000)
	wavelength := []float64{4000, 5000, 6000, 7000, 8000}

	maggies, err := MaggiesTabulated(c, wavelength, abFlux(wavelength))
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	if maggies != 1 {
		t.Fatalf("MaggiesTabulated(AB ref) = %v, want exactly 1", maggies)
	}

	magnitude, err := MagnitudeTabulated(c, wavelength, abFlux(wavelength))
	if err != nil {
		t.Fatalf("MagnitudeTabulated() error: %v", err)
	}

	if magnitude != 0 {
		t.Fatalf("MagnitudeTabulated(AB ref) = %v, want exactly 0", magnitude)
	}
}

func TestMaggiesTabulatedInterpolatesCoarseGrids(t *testing.T) {
	c := triangleCurve(t, "r", 6000)

	// Two points undersample the filter; the tabulated entry points
	// interpolate instead of failing.
	wavelength := []float64{4000, 8000}

	maggies, err := MaggiesTabulated(c, wavelength, abFlux(wavelength))
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	if maggies <= 0 {
		t.Fatalf("MaggiesTabulated() = %v, want positive", maggies)
	}
}

func TestMaggiesTabulatedCoverageError(t *testing.T) {
	c := triangleCurve(t, "r", 6000)

	_, err := MaggiesTabulated(c, []float64{5500, 8000}, []float64{1, 1})
	if !errors.Is(err, conv.ErrCoverage) {
		t.Fatalf("error = %v, want ErrCoverage", err)
	}
}

func TestMaggiesWithUnit(t *testing.T) {
	c := triangleCurve(t, "r", 6000)
	wavelength := []float64{4000, 5000, 6000, 7000, 8000}

	fluxPerNm := units.Erg.Div(units.Centimeter.Pow(2)).Div(units.Second).
		Div(units.Nanometer)

	// The same physical spectrum expressed per nanometer carries values
	// ten times larger.
	values := abFlux(wavelength)
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = 10 * v
	}

	direct, err := MaggiesTabulated(c, wavelength, values)
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	converted, err := MaggiesTabulated(c, wavelength, scaled, WithUnit(fluxPerNm))
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	if math.Abs(converted/direct-1) > 1e-14 {
		t.Fatalf("per-nm maggies = %v, per-Angstrom = %v", converted, direct)
	}
}

func TestMaggiesWithWavelengthUnit(t *testing.T) {
	c := triangleCurve(t, "r", 6000)
	angstroms := []float64{4000, 5000, 6000, 7000, 8000}
	nanometers := []float64{400, 500, 600, 700, 800}

	direct, err := MaggiesTabulated(c, angstroms, abFlux(angstroms))
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	converted, err := MaggiesTabulated(c, nanometers, abFlux(angstroms),
		WithWavelengthUnit(units.Nanometer))
	if err != nil {
		t.Fatalf("MaggiesTabulated() error: %v", err)
	}

	if converted != direct {
		t.Fatalf("nm grid maggies = %v, Angstrom grid = %v", converted, direct)
	}
}

func TestMaggiesBatchMatchesSingle(t *testing.T) {
	c := triangleCurve(t, "r", 6000)
	wavelength := []float64{4000, 5000, 6000, 7000, 8000}

	reference := abFlux(wavelength)
	rows := make([][]float64, 3)
	for i := range rows {
		rows[i] = make([]float64, len(reference))
		for j, v := range reference {
			rows[i][j] = v * math.Pow(10, -0.4*float64(i))
		}
	}

	batch, err := MaggiesBatch(c, wavelength, rows)
	if err != nil {
		t.Fatalf("MaggiesBatch() error: %v", err)
	}

	for i, row := range rows {
		single, err := MaggiesTabulated(c, wavelength, row)
		if err != nil {
			t.Fatalf("MaggiesTabulated() error: %v", err)
		}

		if math.Abs(batch[i]/single-1) > 1e-14 {
			t.Fatalf("batch[%d] = %v, single = %v", i, batch[i], single)
		}
	}
}

func TestMagnitudeBatch(t *testing.T) {
	c := triangleCurve(t, "r", 6000)
	wavelength := []float64{4000, 5000, 6000, 7000, 8000}

	reference := abFlux(wavelength)
	faint := make([]float64, len(reference))
	for i, v := range reference {
		faint[i] = v * 1e-8 // 20 magnitudes down
	}

	magnitudes, err := MagnitudeBatch(c, wavelength, [][]float64{reference, faint})
	if err != nil {
		t.Fatalf("MagnitudeBatch() error: %v", err)
	}

	if math.Abs(magnitudes[0]) > 1e-12 {
		t.Fatalf("magnitudes[0] = %v, want 0", magnitudes[0])
	}
	if math.Abs(magnitudes[1]-20) > 1e-12 {
		t.Fatalf("magnitudes[1] = %v, want 20", magnitudes[1])
	}
}

func TestSetMagnitudes(t *testing.T) {
	set := filter.NewSet(
		triangleCurve(t, "g", 4800),
		triangleCurve(t, "r", 6000),
		triangleCurve(t, "i", 7500),
	)

	wavelength := make([]float64, 121)
	for i := range wavelength {
		wavelength[i] = 3000 + 50*float64(i)
	}

	rows := [][]float64{abFlux(wavelength), abFlux(wavelength)}
	rows[1] = append([]float64(nil), rows[1]...)
	for i := range rows[1] {
		rows[1][i] *= 0.01 // 5 magnitudes down
	}

	table, err := SetMagnitudes(set, wavelength, rows)
	if err != nil {
		t.Fatalf("SetMagnitudes() error: %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("rows = %d, want 2", len(table))
	}

	for i := range table {
		if len(table[i]) != set.Len() {
			t.Fatalf("row %d has %d columns, want %d", i, len(table[i]), set.Len())
		}
	}

	// The grid is finer than the filter tabulations, so the quadrature
	// differs slightly from the zeropoint's own; magnitudes are near zero
	// rather than exact. The 5 magnitude offset between the rows is a pure
	// flux ratio and survives exactly.
	for j := 0; j < set.Len(); j++ {
		if math.Abs(table[0][j]) > 0.02 {
			t.Fatalf("table[0][%d] = %v, want near 0", j, table[0][j])
		}
		if math.Abs(table[1][j]-table[0][j]-5) > 1e-12 {
			t.Fatalf("table[1][%d] - table[0][%d] = %v, want 5",
				j, j, table[1][j]-table[0][j])
		}
	}
}
