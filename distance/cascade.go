package distance

import "math"

// euclidPoint and euclidNorm back LB_Kim and LB_Keogh for every
// configured distance kernel, mirroring the original genex source: Kim's
// and Keogh's lower bounds are always computed under plain Euclidean
// geometry regardless of which kernel the index was built with, since they
// exist only to cheaply reject obviously-too-far candidates before paying
// for the full (possibly non-Euclidean) banded DTW.
func euclidPoint(x, y float64) float64 { d := x - y; return d * d }
func euclidNorm(v float64) float64     { return math.Sqrt(v) }

// LBKim is a constant-time lower bound on the DTW distance between a and b
// built from their first and last points alone.
func LBKim(a, b []float64) float64 {
	al, bl := len(a), len(b)
	l := min(al, bl)

	var result float64
	switch {
	case l == 1:
		result = euclidPoint(a[0], b[0])
	case l > 1:
		result = euclidPoint(a[0], b[0]) + euclidPoint(a[al-1], b[bl-1])
	}
	return euclidNorm(result)
}

// LBKeogh walks b against a's envelope at band = CalcBand(max(len(a),
// len(b))), accumulating the squared excess of any b[i] that falls outside
// a's envelope. The unnormalized running sum is compared against
// (dropout * 2 * max(len(a), len(b)))², so the loop can stop before every
// index is visited; the result is the square root of the sum reached.
func LBKeogh(a, b []float64, aEnv Envelope, dropout float64) float64 {
	length := min(len(a), len(b))
	scaledDropout := dropout * 2 * float64(max(len(a), len(b)))
	scaledDropout *= scaledDropout

	var lb float64
	for i := 0; i < length && lb < scaledDropout; i++ {
		switch {
		case b[i] > aEnv.Upper[i]:
			lb += euclidPoint(b[i], aEnv.Upper[i])
		case b[i] < aEnv.Lower[i]:
			lb += euclidPoint(b[i], aEnv.Lower[i])
		}
	}
	return euclidNorm(lb)
}

// LBKeoghCross is the symmetrized cross bound max(LB_Keogh(a->b),
// LB_Keogh(b->a)), short-circuiting to +Inf the moment the first leg alone
// already exceeds dropout.
func LBKeoghCross(a, b []float64, aEnv, bEnv Envelope, dropout float64) float64 {
	lb := LBKeogh(a, b, aEnv, dropout)
	if lb > dropout {
		return math.Inf(1)
	}
	return math.Max(lb, LBKeogh(b, a, bEnv, dropout))
}

// CascadeDistance runs the monotone cascade of lower bounds — Kim, then
// the cross-Keogh envelope bound, then the exact banded DTW — returning
// +Inf at the first stage whose bound already exceeds dropout. Because
// each stage is a valid lower bound on the next, the cascade can never
// report a smaller distance than the exact one: it only ever short
// circuits work, never accuracy.
func CascadeDistance[K Kernel](k K, a, b []float64, aEnv, bEnv Envelope, dropout float64) (float64, Matching) {
	if LBKim(a, b) > dropout {
		return math.Inf(1), nil
	}
	if LBKeoghCross(a, b, aEnv, bEnv, dropout) > dropout {
		return math.Inf(1), nil
	}
	return Warped(k, a, b, dropout)
}
