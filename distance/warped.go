package distance

import "math"

// Warped computes the banded dynamic-time-warping distance between a and b
// under kernel k, restricted to a Sakoe-Chiba band of CalcBand(max(len(a),
// len(b))) around the diagonal, with the minimum-cost alignment returned as
// a Matching. It bails out to +Inf as soon as an entire row's in-band
// values all exceed dropout, per the row-dropout policy: for Euclidean,
// Manhattan and Chebyshev any completion from that row can only grow from
// here. The same cutoff applies to Cosine and Sorensen, whose folded value
// is not monotone (see isMonotonicAcc).
//
// The cost matrix folds through k.Reduce/k.Norm rather than a hardcoded
// squared-difference sum, so every registered kernel — not just Euclidean —
// gets a DTW-mode variant for free: at each cell the candidate accumulator
// from every admissible predecessor (diagonal, left, up) is folded with the
// current pair of points and the one with the smallest Norm wins, mirroring
// how Reduce already combines a running accumulator for the pairwise case.
func Warped[K Kernel](k K, a, b []float64, dropout float64) (float64, Matching) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1), nil
	}

	band := CalcBand(max(n, m))
	inf := math.Inf(1)

	dist := make([][]float64, n+1)
	acc := make([][]Acc, n+1)
	prevI := make([][]int, n+1)
	prevJ := make([][]int, n+1)
	for i := range dist {
		dist[i] = make([]float64, m+1)
		acc[i] = make([]Acc, m+1)
		prevI[i] = make([]int, m+1)
		prevJ[i] = make([]int, m+1)
		for j := range dist[i] {
			dist[i][j] = inf
		}
	}
	dist[0][0] = 0
	acc[0][0] = k.Init()

	type pred struct{ i, j int }

	for i := 1; i <= n; i++ {
		lo := max(1, i-band)
		hi := min(m, i+band)
		rowMin := inf
		for j := lo; j <= hi; j++ {
			best := inf
			var bestAcc Acc
			var bestPred pred
			for _, p := range [3]pred{{i - 1, j}, {i, j - 1}, {i - 1, j - 1}} {
				if p.i < 0 || p.j < 0 {
					continue
				}
				if dist[p.i][p.j] == inf {
					continue
				}
				cand := k.Reduce(acc[p.i][p.j], a[i-1], b[j-1])
				cd := k.Norm(cand)
				if cd < best {
					best = cd
					bestAcc = cand
					bestPred = p
				}
			}
			dist[i][j] = best
			acc[i][j] = bestAcc
			prevI[i][j], prevJ[i][j] = bestPred.i, bestPred.j
			if best < rowMin {
				rowMin = best
			}
		}
		if rowMin > dropout {
			return inf, nil
		}
	}

	final := dist[n][m]
	if math.IsNaN(final) || final > dropout {
		return inf, nil
	}

	path := make(Matching, 0, max(n, m))
	i, j := n, m
	for i > 0 && j > 0 {
		path = append(path, Match{I: i - 1, J: j - 1})
		i, j = prevI[i][j], prevJ[i][j]
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return final, path
}
