package distance

import (
	"math"
	"testing"
)

func TestKernelNorms(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}

	tests := []struct {
		name string
		k    Kernel
		want float64
	}{
		{"euclidean", Euclidean{}, math.Sqrt(9 + 16 + 0)},
		{"manhattan", Manhattan{}, 3 + 4 + 0},
		{"chebyshev", Chebyshev{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := tt.k.Init()
			for i := range a {
				acc = tt.k.Reduce(acc, a[i], b[i])
			}
			got := tt.k.Norm(acc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineIdenticalVectorsIsZero(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	k := Cosine{}
	acc := k.Init()
	for i := range a {
		acc = k.Reduce(acc, a[i], a[i])
	}
	got := k.Norm(acc)
	if math.Abs(got) > 1e-9 {
		t.Fatalf("Norm() = %v, want 0", got)
	}
}

func TestSorensenZeroDenominatorIsZero(t *testing.T) {
	k := Sorensen{}
	acc := k.Init()
	acc = k.Reduce(acc, 0, 0)
	if got := k.Norm(acc); got != 0 {
		t.Fatalf("Norm() = %v, want 0", got)
	}
}

func TestLookupUnknownDistance(t *testing.T) {
	if _, err := Lookup("nonexistent"); err == nil {
		t.Fatal("Lookup(\"nonexistent\") returned nil error, want ErrUnknownDistance")
	}
}

func TestNamesIncludesEveryRegisteredKernel(t *testing.T) {
	want := []string{"euclidean", "manhattan", "chebyshev", "cosine", "sorensen"}
	got := map[string]bool{}
	for _, n := range Names() {
		got[n] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Fatalf("Names() missing %q", w)
		}
	}
}
