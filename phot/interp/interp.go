// Package interp provides linear interpolation over tabulated grids.
//
// Two shapes are offered:
//
//   - [Table]: a fixed (x, y) tabulation evaluated at arbitrary points,
//     returning 0 outside the tabulated range. Filter response curves are
//     evaluated this way.
//   - [Sampler]: a fixed set of query points against a fixed grid, with the
//     bracketing indices and fractions resolved once. Re-evaluating for new
//     y arrays on the same grid costs one multiply-add per point, which is
//     what makes reusable convolution plans cheap.
package interp

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by interpolation constructors.
var (
	ErrLengthMismatch = errors.New("interp: x and y must have the same length")
	ErrTooFewPoints   = errors.New("interp: need at least two points")
	ErrOutOfRange     = errors.New("interp: query point outside grid")
)

// Table is a piecewise-linear interpolant over a strictly increasing grid.
// Evaluation outside the grid returns 0.
type Table struct {
	xs []float64
	ys []float64
}

// NewTable creates a Table over the given grid. The slices are retained,
// not copied; callers must not mutate them afterwards. xs must be strictly
// increasing.
func NewTable(xs, ys []float64) (*Table, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}

	if len(xs) < 2 {
		return nil, ErrTooFewPoints
	}

	return &Table{xs: xs, ys: ys}, nil
}

// At evaluates the interpolant at x, returning 0 outside the grid range.
func (t *Table) At(x float64) float64 {
	if x < t.xs[0] || x > t.xs[len(t.xs)-1] {
		return 0
	}

	// Index of the first grid point >= x.
	i := sort.SearchFloat64s(t.xs, x)
	if i < len(t.xs) && t.xs[i] == x {
		return t.ys[i]
	}

	x0, x1 := t.xs[i-1], t.xs[i]
	y0, y1 := t.ys[i-1], t.ys[i]
	frac := (x - x0) / (x1 - x0)

	return y0 + frac*(y1-y0)
}

// Sample writes the interpolant evaluated at each query point into dst.
// dst and query must have the same length.
func (t *Table) Sample(dst, query []float64) error {
	if len(dst) != len(query) {
		return ErrLengthMismatch
	}

	for i, x := range query {
		dst[i] = t.At(x)
	}

	return nil
}

// Sampler evaluates a fixed set of query points against a fixed grid for
// varying value arrays. The bracketing interval and fraction for each query
// point are resolved at construction.
type Sampler struct {
	idx  []int     // left bracket index per query point
	frac []float64 // position inside the bracket, in [0, 1]
	n    int       // expected length of value arrays
}

// NewSampler resolves query points against a strictly increasing grid.
// Every query point must lie within [grid[0], grid[len-1]].
func NewSampler(grid, query []float64) (*Sampler, error) {
	if len(grid) < 2 {
		return nil, ErrTooFewPoints
	}

	s := &Sampler{
		idx:  make([]int, len(query)),
		frac: make([]float64, len(query)),
		n:    len(grid),
	}

	last := len(grid) - 1
	for i, x := range query {
		if x < grid[0] || x > grid[last] {
			return nil, fmt.Errorf("%w: %g not in [%g, %g]",
				ErrOutOfRange, x, grid[0], grid[last])
		}

		j := sort.SearchFloat64s(grid, x)
		if j > 0 {
			j--
		}
		if j == last {
			j--
		}

		s.idx[i] = j
		s.frac[i] = (x - grid[j]) / (grid[j+1] - grid[j])
	}

	return s, nil
}

// Len returns the number of query points.
func (s *Sampler) Len() int {
	return len(s.idx)
}

// Apply writes the linear interpolant of values at each query point into
// dst. values must have the grid's length and dst the query set's length.
func (s *Sampler) Apply(dst, values []float64) error {
	if len(values) != s.n {
		return fmt.Errorf("%w: values length %d, grid length %d",
			ErrLengthMismatch, len(values), s.n)
	}

	if len(dst) != len(s.idx) {
		return ErrLengthMismatch
	}

	for i, j := range s.idx {
		y0, y1 := values[j], values[j+1]
		dst[i] = y0 + s.frac[i]*(y1-y0)
	}

	return nil
}
