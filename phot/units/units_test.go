package units

import (
	"errors"
	"math"
	"testing"
)

func nearlyEqual(a, b, eps float64) bool {
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))

	return diff/largest <= eps
}

func TestWavelengthFactors(t *testing.T) {
	tests := []struct {
		name   string
		from   Unit
		to     Unit
		factor float64
	}{
		{name: "nm to Angstrom", from: Nanometer, to: Angstrom, factor: 10},
		{name: "micron to Angstrom", from: Micron, to: Angstrom, factor: 1e4},
		{name: "cm to Angstrom", from: Centimeter, to: Angstrom, factor: 1e8},
		{name: "m to nm", from: Meter, to: Nanometer, factor: 1e9},
		{name: "identity", from: Angstrom, to: Angstrom, factor: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Factor(tt.to)
			if err != nil {
				t.Fatalf("Factor() error: %v", err)
			}

			if !nearlyEqual(got, tt.factor, 1e-12) {
				t.Fatalf("Factor() = %v, want %v", got, tt.factor)
			}
		})
	}
}

func TestIncompatibleConversion(t *testing.T) {
	_, err := Angstrom.Factor(Erg)
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("err = %v, want ErrIncompatibleUnits", err)
	}

	_, err = Quantity{Value: 1, Unit: Jansky}.To(FluxPerAngstrom)
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("Jy -> flux/Angstrom should not convert, got %v", err)
	}
}

func TestQuantityTo(t *testing.T) {
	q := Quantity{Value: 0.6, Unit: Micron}

	converted, err := q.To(Angstrom)
	if err != nil {
		t.Fatalf("To() error: %v", err)
	}

	if !nearlyEqual(converted.Value, 6000, 1e-12) {
		t.Fatalf("0.6 um = %v Angstrom, want 6000", converted.Value)
	}
}

func TestUnitAlgebra(t *testing.T) {
	flux := Erg.Div(Centimeter.Pow(2)).Div(Second).Div(Angstrom)
	if flux.Dim() != FluxPerAngstrom.Dim() {
		t.Fatalf("composed flux dim = %+v, want %+v", flux.Dim(), FluxPerAngstrom.Dim())
	}

	factor, err := flux.Factor(FluxPerAngstrom)
	if err != nil {
		t.Fatalf("Factor() error: %v", err)
	}

	if !nearlyEqual(factor, 1, 1e-12) {
		t.Fatalf("factor = %v, want 1", factor)
	}

	if !Angstrom.Pow(2).ConvertibleTo(Meter.Mul(Nanometer)) {
		t.Fatal("area units should be convertible")
	}
}

func TestPhotonWeightComposition(t *testing.T) {
	// flux * Angstrom * photon-weight must land exactly on 1 / (cm2 s).
	out := FluxPerAngstrom.Mul(Angstrom).Mul(PhotonWeight)

	factor, err := out.Factor(ZeroPointRate)
	if err != nil {
		t.Fatalf("Factor() error: %v", err)
	}

	if !nearlyEqual(factor, 1, 1e-12) {
		t.Fatalf("factor = %v, want 1", factor)
	}
}

func TestABConstant(t *testing.T) {
	// 3631 Jy * c = 0.10885464... erg Angstrom / (cm2 s).
	want := 3631e-23 * 2.99792458e18
	if !nearlyEqual(ABConstant.Value, want, 1e-12) {
		t.Fatalf("ABConstant = %v, want %v", ABConstant.Value, want)
	}
}

func TestHC(t *testing.T) {
	// h * c with h = 6.62607015e-27 erg s, c = 2.99792458e18 Angstrom/s.
	want := 6.62607015e-27 * 2.99792458e18
	if !nearlyEqual(HC.Value, want, 1e-9) {
		t.Fatalf("HC = %v, want %v", HC.Value, want)
	}
}

func TestConvertSlice(t *testing.T) {
	src := []float64{100, 200, 300}
	dst := make([]float64, 3)

	err := ConvertSlice(dst, src, Nanometer, Angstrom)
	if err != nil {
		t.Fatalf("ConvertSlice() error: %v", err)
	}

	for i, want := range []float64{1000, 2000, 3000} {
		if !nearlyEqual(dst[i], want, 1e-12) {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	err = ConvertSlice(dst[:2], src, Nanometer, Angstrom)
	if !errors.Is(err, ErrSliceLength) {
		t.Fatalf("err = %v, want ErrSliceLength", err)
	}

	err = ConvertSlice(dst, src, Nanometer, Second)
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("err = %v, want ErrIncompatibleUnits", err)
	}
}
