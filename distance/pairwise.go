package distance

import "math"

// Pairwise folds a and b index-for-index under kernel k, bailing out to
// +Inf as soon as the partially-folded norm-equivalent value can no longer
// beat dropout. a and b must have equal length; genex never calls Pairwise
// on mismatched lengths because group members are coordinates of a fixed
// group length.
//
// K is instantiated once per concrete kernel type at package-init time
// (see register), so this loop never pays for interface dispatch per
// point: the compiler inlines k.Reduce for the one concrete type each
// Distance.Pairwise closure was built against.
func Pairwise[K Kernel](k K, a, b []float64, dropout float64) float64 {
	acc := k.Init()
	n := len(a)
	// The mid-fold check is kernel-dependent: norm() can be
	// nonmonotonic in acc for some kernels mid-fold (Cosine's ratio isn't
	// monotonic in either running sum alone), so cheap scalar kernels
	// check every iteration while compound kernels only check at the end.
	for i := 0; i < n; i++ {
		acc = k.Reduce(acc, a[i], b[i])
		if isMonotonicAcc(k) && k.Norm(acc) > dropout {
			return math.Inf(1)
		}
	}
	d := k.Norm(acc)
	if d > dropout {
		return math.Inf(1)
	}
	return d
}

// isMonotonicAcc reports whether k's accumulator only grows (so an
// early dropout check mid-fold is sound). Euclidean/Manhattan/Chebyshev
// all have this property; Cosine and Sorensen's ratio can decrease as
// more points are folded in, so they're only checked once at the end.
func isMonotonicAcc(k Kernel) bool {
	switch k.(type) {
	case Euclidean, Manhattan, Chebyshev:
		return true
	default:
		return false
	}
}
