package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ReferenceDistance computes a, b's pairwise distance for name using
// gonum's whole-vector reductions instead of the hand-rolled, dropout-aware
// fold any registered Distance.Pairwise uses. It exists to give tests an
// independent implementation to check the fold-based one against (see
// TestPairwiseMatchesReference) — it is never on the hot
// path, since it can't early-exit on a dropout.
func ReferenceDistance(name string, a, b []float64) (float64, error) {
	d, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	switch d.Kernel.(type) {
	case Euclidean:
		return floats.Distance(a, b, 2), nil
	case Manhattan:
		return floats.Distance(a, b, 1), nil
	case Chebyshev:
		return floats.Distance(a, b, math.Inf(1)), nil
	case Cosine:
		num := floats.Dot(a, b)
		denom := math.Sqrt(floats.Dot(a, a) * floats.Dot(b, b))
		if denom == 0 {
			return 0, nil
		}
		return 1 - num/denom, nil
	case Sorensen:
		sum := make([]float64, len(a))
		floats.AddTo(sum, a, b)
		denom := floats.Sum(sum)
		if denom == 0 {
			return 0, nil
		}
		diff := make([]float64, len(a))
		floats.SubTo(diff, a, b)
		var numer float64
		for _, v := range diff {
			numer += math.Abs(v)
		}
		return numer / denom, nil
	default:
		return 0, ErrUnknownDistance
	}
}
