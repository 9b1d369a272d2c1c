package genex

import (
	"math"
	"testing"

	"github.com/ndaniels/genex/distance"
)

func TestGenerateGroupsAdmissionRadius(t *testing.T) {
	rows := [][]float64{
		{0, 0, 0, 0},
		{0.1, 0, 0, 0},
		{10, 10, 10, 10},
		{10.2, 10, 10, 10},
		{5, 5, 5, 5},
	}
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	d, err := distance.Lookup("euclidean")
	if err != nil {
		t.Fatal(err)
	}

	threshold := 1.0
	space := newLocalLengthGroupSpace(ds, 4)
	if _, err := space.generateGroups(d, threshold); err != nil {
		t.Fatal(err)
	}

	for gi := 0; gi < space.NumGroups(); gi++ {
		g, err := space.Group(gi)
		if err != nil {
			t.Fatal(err)
		}
		centroid, err := g.Centroid()
		if err != nil {
			t.Fatal(err)
		}
		for _, coord := range g.Members() {
			member, err := ds.TimeSeries(coord.Series, coord.Start, coord.Start+4)
			if err != nil {
				t.Fatal(err)
			}
			dist := d.Pairwise(centroid, member, math.Inf(1))
			if dist > threshold/2+groupAdmitEpsilon+1e-9 {
				t.Fatalf("group %d: member %+v at distance %v exceeds threshold/2+epsilon (%v)",
					gi, coord, dist, threshold/2+groupAdmitEpsilon)
			}
		}
	}
}

func TestGenerateGroupsFirstMemberIsCentroid(t *testing.T) {
	rows := [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	d, err := distance.Lookup("euclidean")
	if err != nil {
		t.Fatal(err)
	}

	space := newLocalLengthGroupSpace(ds, 3)
	if _, err := space.generateGroups(d, 1.0); err != nil {
		t.Fatal(err)
	}
	if space.NumGroups() != 1 {
		t.Fatalf("NumGroups() = %d, want 1 for three identical series", space.NumGroups())
	}
	g, err := space.Group(0)
	if err != nil {
		t.Fatal(err)
	}
	if g.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", g.Count())
	}
	members := g.Members()
	if members[0] != g.centroidCoord {
		t.Fatalf("centroidCoord %+v != first member %+v", g.centroidCoord, members[0])
	}
}

func TestIntraGroupKNNOrdersByDistance(t *testing.T) {
	rows := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{2, 0, 0},
		{0.5, 0, 0},
	}
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	d, err := distance.Lookup("euclidean")
	if err != nil {
		t.Fatal(err)
	}

	space := newLocalLengthGroupSpace(ds, 3)
	if _, err := space.generateGroups(d, 100); err != nil {
		t.Fatal(err)
	}
	if space.NumGroups() != 1 {
		t.Fatalf("NumGroups() = %d, want 1 under a generous threshold", space.NumGroups())
	}
	g, _ := space.Group(0)

	query := []float64{0, 0, 0}
	results, err := g.intraGroupKNN(query, 2, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Distance > results[i].Distance {
			t.Fatalf("results not ascending by distance: %+v", results)
		}
	}
	if results[0].Series != 0 {
		t.Fatalf("closest series = %d, want 0 (the query itself)", results[0].Series)
	}
}
