package filter

import "sort"

// Set is an immutable ordered collection of filter curves.
type Set struct {
	curves []*Curve
}

// NewSet creates a set holding the given curves in order. The input slice
// is copied.
func NewSet(curves ...*Curve) Set {
	return Set{curves: append([]*Curve(nil), curves...)}
}

// Len returns the number of curves.
func (s Set) Len() int {
	return len(s.curves)
}

// At returns the i-th curve.
func (s Set) At(i int) *Curve {
	return s.curves[i]
}

// Curves returns a copy of the underlying slice.
func (s Set) Curves() []*Curve {
	return append([]*Curve(nil), s.curves...)
}

// Names returns the canonical names of all curves, in set order.
func (s Set) Names() []string {
	names := make([]string, len(s.curves))
	for i, c := range s.curves {
		names[i] = c.Name()
	}

	return names
}

// EffectiveWavelengths returns each curve's effective wavelength in
// Angstrom, in set order.
func (s Set) EffectiveWavelengths() []float64 {
	out := make([]float64, len(s.curves))
	for i, c := range s.curves {
		out[i] = c.EffectiveWavelength().Value
	}

	return out
}

// ByEffectiveWavelength returns a new set ordered by increasing effective
// wavelength.
func (s Set) ByEffectiveWavelength() Set {
	ordered := s.Curves()
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveWavelength().Value <
			ordered[j].EffectiveWavelength().Value
	})

	return Set{curves: ordered}
}
