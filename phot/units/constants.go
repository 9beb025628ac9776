package units

import "github.com/cwbudde/algo-vecmath"

// Physical constants used by photometric convolutions. All values are
// CODATA 2018 exact definitions expressed in the canonical units.
var (
	// SpeedOfLight is c in Angstrom per second.
	SpeedOfLight = Quantity{
		Value: 2.99792458e18,
		Unit:  Angstrom.Div(Second).Named("Angstrom / s"),
	}

	// HC is the product h*c in erg Angstrom, the photon energy scale used
	// by photon-counting weights.
	HC = Quantity{
		Value: 1.9864458571489287e-8,
		Unit:  Erg.Mul(Angstrom).Named("erg Angstrom"),
	}

	// PhotonWeight is the unit of the photon-counting weight lambda / (h c),
	// Angstrom / (erg Angstrom).
	PhotonWeight = Angstrom.Div(HC.Unit).Named("Angstrom / (erg Angstrom)")

	// ABConstant is 3631 Jy * c, the normalization of the AB reference
	// spectrum, in canonical flux units times Angstrom squared.
	ABConstant = mustTo(
		Mul(Quantity{Value: 3631, Unit: Jansky}, SpeedOfLight),
		FluxPerAngstrom.Mul(Angstrom.Pow(2)).Named("erg Angstrom / (cm2 s)"),
	)
)

func mustTo(q Quantity, target Unit) Quantity {
	out, err := q.To(target)
	if err != nil {
		panic("units: " + err.Error())
	}

	return out
}

// ConvertSlice writes src converted from one unit to another into dst,
// which must have the same length as src. dst and src may alias.
func ConvertSlice(dst, src []float64, from, to Unit) error {
	if len(dst) != len(src) {
		return ErrSliceLength
	}

	factor, err := from.Factor(to)
	if err != nil {
		return err
	}

	vecmath.ScaleBlock(dst, src, factor)

	return nil
}
