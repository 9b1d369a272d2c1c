package distance

import "math"

// Euclidean folds squared differences and takes a final square root.
type Euclidean struct{}

func (Euclidean) Name() string              { return "euclidean" }
func (Euclidean) Init() Acc                 { return Acc{} }
func (Euclidean) Dist(x, y float64) float64 { d := x - y; return d * d }
func (e Euclidean) Reduce(acc Acc, x, y float64) Acc {
	acc[0] += e.Dist(x, y)
	return acc
}
func (Euclidean) Norm(acc Acc) float64 { return math.Sqrt(acc[0]) }

// Manhattan folds absolute differences.
type Manhattan struct{}

func (Manhattan) Name() string              { return "manhattan" }
func (Manhattan) Init() Acc                 { return Acc{} }
func (Manhattan) Dist(x, y float64) float64 { return math.Abs(x - y) }
func (m Manhattan) Reduce(acc Acc, x, y float64) Acc {
	acc[0] += m.Dist(x, y)
	return acc
}
func (Manhattan) Norm(acc Acc) float64 { return acc[0] }

// Chebyshev folds the running maximum absolute difference.
type Chebyshev struct{}

func (Chebyshev) Name() string              { return "chebyshev" }
func (Chebyshev) Init() Acc                 { return Acc{math.Inf(-1), 0, 0} }
func (Chebyshev) Dist(x, y float64) float64 { return math.Abs(x - y) }
func (c Chebyshev) Reduce(acc Acc, x, y float64) Acc {
	acc[0] = math.Max(acc[0], c.Dist(x, y))
	return acc
}
func (Chebyshev) Norm(acc Acc) float64 { return acc[0] }

// Cosine folds the three running sums (sum x^2, sum y^2, sum x*y) needed
// for the cosine similarity, and reports 1 - cosine similarity as a
// distance so smaller is still "closer".
type Cosine struct{}

func (Cosine) Name() string              { return "cosine" }
func (Cosine) Init() Acc                 { return Acc{} }
func (Cosine) Dist(x, y float64) float64 { return x * y }
func (c Cosine) Reduce(acc Acc, x, y float64) Acc {
	acc[0] += x * x
	acc[1] += y * y
	acc[2] += c.Dist(x, y)
	return acc
}
func (Cosine) Norm(acc Acc) float64 {
	denom := math.Sqrt(acc[0] * acc[1])
	if denom == 0 {
		return 0
	}
	return 1 - acc[2]/denom
}

// Sorensen (a.k.a. Bray-Curtis) folds the numerator (sum |x-y|) and
// denominator (sum x+y) of the ratio distance.
type Sorensen struct{}

func (Sorensen) Name() string              { return "sorensen" }
func (Sorensen) Init() Acc                 { return Acc{} }
func (Sorensen) Dist(x, y float64) float64 { return math.Abs(x - y) }
func (s Sorensen) Reduce(acc Acc, x, y float64) Acc {
	acc[0] += s.Dist(x, y)
	acc[1] += x + y
	return acc
}
func (Sorensen) Norm(acc Acc) float64 {
	if acc[1] == 0 {
		return 0
	}
	return acc[0] / acc[1]
}
