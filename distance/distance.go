// Package distance implements the pluggable pointwise/fold distance kernels,
// the LB_Keogh envelope precomputation, the Kim/Keogh/DTW lower-bound
// cascade, and the banded dynamic-time-warping kernel that the grouping
// index searches both sides of: centroid routing and intra-group
// refinement.
package distance

import "fmt"

// ErrUnknownDistance is returned (wrapped with the offending name) when a
// caller asks the registry for a distance that was never registered.
var ErrUnknownDistance = fmt.Errorf("unknown distance")

// Acc is the fold accumulator shared by every kernel. Scalar kernels
// (Euclidean, Manhattan, Chebyshev) use only acc[0]; Cosine uses all three
// slots and Sorensen the first two. A single fixed-size array lets
// every kernel satisfy one interface without boxing or per-point virtual
// calls once Pairwise/Warped are instantiated for a concrete kernel type.
type Acc [3]float64

// Match is one step of a DTW alignment path, matching index i of the first
// series against index j of the second.
type Match struct {
	I, J int
}

// Matching is the full alignment path produced by Warped, in order from
// the start of both series to their ends.
type Matching []Match

// Kernel is the capability set every distance implements: how to start a
// fold, how to fold one pair of points into it, and how to turn the folded
// accumulator into a final scalar. NormDTW is intentionally absent: in
// every kernel genex ships, the DTW-mode scalar is identical to the
// pairwise-mode one, so Norm serves both (this mirrors the original
// Chebyshev kernel, whose normDTW is defined to just call norm).
type Kernel interface {
	Name() string
	Init() Acc
	Dist(x, y float64) float64
	Reduce(acc Acc, x, y float64) Acc
	Norm(acc Acc) float64
}

// Distance is the dispatch table entry the registry hands back for a given
// name: Pairwise and Warped are closures over a single concrete Kernel
// implementation, instantiated once at package-init time so the hot loops
// inside them are monomorphic.
type Distance struct {
	Name     string
	Kernel   Kernel
	Pairwise func(a, b []float64, dropout float64) float64
	Warped   func(a, b []float64, dropout float64) (float64, Matching)
	Cascade  func(a, b []float64, aEnv, bEnv Envelope, dropout float64) (float64, Matching)
}

var registry = map[string]Distance{}

func register[K Kernel](k K) {
	registry[k.Name()] = Distance{
		Name:   k.Name(),
		Kernel: k,
		Pairwise: func(a, b []float64, dropout float64) float64 {
			return Pairwise(k, a, b, dropout)
		},
		Warped: func(a, b []float64, dropout float64) (float64, Matching) {
			return Warped(k, a, b, dropout)
		},
		Cascade: func(a, b []float64, aEnv, bEnv Envelope, dropout float64) (float64, Matching) {
			return CascadeDistance(k, a, b, aEnv, bEnv, dropout)
		},
	}
}

func init() {
	register(Euclidean{})
	register(Manhattan{})
	register(Chebyshev{})
	register(Cosine{})
	register(Sorensen{})
}

// Lookup returns the dispatch table entry for name, or ErrUnknownDistance
// wrapping name if it was never registered.
func Lookup(name string) (Distance, error) {
	d, ok := registry[name]
	if !ok {
		return Distance{}, fmt.Errorf("%w: %q", ErrUnknownDistance, name)
	}
	return d, nil
}

// Names returns every registered distance name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
