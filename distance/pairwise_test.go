package distance

import (
	"math"
	"testing"
)

func TestPairwiseMatchesReference(t *testing.T) {
	a := []float64{1, 3, 2, 5, 4}
	b := []float64{2, 2, 3, 4, 6}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			d, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			got := d.Pairwise(a, b, math.Inf(1))
			want, err := ReferenceDistance(name, a, b)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("Pairwise() = %v, ReferenceDistance() = %v", got, want)
			}
		})
	}
}

func TestPairwiseDropoutShortCircuits(t *testing.T) {
	a := []float64{0, 0, 0, 0}
	b := []float64{10, 10, 10, 10}

	d, err := Lookup("euclidean")
	if err != nil {
		t.Fatal(err)
	}
	got := d.Pairwise(a, b, 1)
	if !math.IsInf(got, 1) {
		t.Fatalf("Pairwise() = %v, want +Inf under a dropout below the true distance", got)
	}
}

func TestPairwiseExactAtDropoutBoundary(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}

	d, err := Lookup("euclidean")
	if err != nil {
		t.Fatal(err)
	}
	want := 5.0
	got := d.Pairwise(a, b, want)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Pairwise() = %v, want %v when dropout equals the true distance", got, want)
	}
}
