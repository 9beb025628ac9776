// Package conv convolves filter response curves with tabulated spectra.
//
// The convolution operator is
//
//	F[R, f] = integral f(lambda) R(lambda) w(lambda) dlambda
//
// over the filter's support, with w(lambda) = lambda / (h c) for
// photon-counting detectors (the default) or 1 otherwise.
//
// # Sampling
//
// Filter curves are tabulated densely enough that linear interpolation is
// sufficient, and the same is assumed of the input spectrum. The integrand
// is sampled on the input grid whenever that grid samples the filter
// sufficiently: the criterion is that at most one interior filter
// wavelength falls between any consecutive pair of input wavelengths.
// Where the criterion fails, the input function is interpolated at the
// minimum number of filter wavelengths needed to restore it, but only
// when interpolation was permitted at plan construction; otherwise plan
// construction fails with [ErrUndersampled] and the caller can retry with
// interpolation enabled or a finer grid.
//
// # Usage
//
// Almost all of the work depends only on the input wavelength grid, not on
// the tabulated values, so a [Plan] is built once per (filter, grid) pair
// and reused:
//
//	plan, err := conv.NewPlan(curve, wlen, conv.WithInterpolation(true))
//	result, err := plan.Evaluate(flux)        // one spectrum
//	results, err := plan.EvaluateBatch(batch) // many spectra, same grid
//
// A Plan is immutable after construction and safe for concurrent use.
// Batched evaluation amortizes the plan cost and is strongly preferred
// over repeated single-spectrum calls. For one-shot use, [Convolve] builds
// a throwaway plan.
package conv
