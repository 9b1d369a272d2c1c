package genex

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func sampleRows() [][]float64 {
	return [][]float64{
		{0, 0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1},
		{0, 1, 0, 1, 0, 1},
		{5, 4, 3, 2, 1, 0},
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	}
}

func TestGroupRejectsUnknownDistance(t *testing.T) {
	ds, err := NewDataset(sampleRows())
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.Group("nonexistent", 1.0); err == nil {
		t.Fatal("Group() with an unknown distance returned nil error")
	}
}

func TestBestMatchBeforeGroupingFails(t *testing.T) {
	ds, err := NewDataset(sampleRows())
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.BestMatch([]float64{0, 0, 0}); err != ErrNoGroupsBuilt {
		t.Fatalf("BestMatch() err = %v, want ErrNoGroupsBuilt", err)
	}
}

func TestBestMatchFindsExactMember(t *testing.T) {
	rows := sampleRows()
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.Group("euclidean", 0.5); err != nil {
		t.Fatal(err)
	}

	query, err := ds.TimeSeries(1, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	q := append([]float64(nil), query...)

	cand, err := gs.BestMatch(q)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cand.Distance) > 1e-9 {
		t.Fatalf("BestMatch() distance = %v, want 0 for an exact member query", cand.Distance)
	}
}

func TestGroupMultiThreadedDeterministicGroupCounts(t *testing.T) {
	rows := sampleRows()

	ds1, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs1 := NewGlobalGroupSpace(ds1)
	total1, err := gs1.GroupMultiThreaded("euclidean", 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	ds2, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs2 := NewGlobalGroupSpace(ds2)
	total2, err := gs2.GroupMultiThreaded("euclidean", 0.5, 4)
	if err != nil {
		t.Fatal(err)
	}

	if total1 != total2 {
		t.Fatalf("total groups differ between thread counts: 1 thread = %d, 4 threads = %d", total1, total2)
	}
	for length := 2; length <= ds1.ItemLength(); length++ {
		n1 := gs1.local[length].NumGroups()
		n2 := gs2.local[length].NumGroups()
		if n1 != n2 {
			t.Fatalf("length %d: NumGroups differ between thread counts: %d vs %d", length, n1, n2)
		}
	}
}

func TestKSimReturnsAscendingByDistance(t *testing.T) {
	rows := sampleRows()
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.Group("euclidean", 0.5); err != nil {
		t.Fatal(err)
	}

	query := []float64{0, 0, 0, 0}
	results, err := gs.KSim(query, 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Distance > results[i].Distance {
			t.Fatalf("KSim results not ascending by distance: %+v", results)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	rows := sampleRows()
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.Group("euclidean", 0.5); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	if err := gs.Save(buf); err != nil {
		t.Fatal(err)
	}

	ds2, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	loaded := NewGlobalGroupSpace(ds2)
	if err := loaded.Load(buf); err != nil {
		t.Fatal(err)
	}

	if loaded.DistanceName() != gs.DistanceName() {
		t.Fatalf("DistanceName() = %q, want %q", loaded.DistanceName(), gs.DistanceName())
	}
	for length := 2; length <= ds.ItemLength(); length++ {
		want := gs.local[length].NumGroups()
		got := loaded.local[length].NumGroups()
		if got != want {
			t.Fatalf("length %d: NumGroups() after load = %d, want %d", length, got, want)
		}
	}

	query, err := ds.TimeSeries(1, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	cand, err := loaded.BestMatch(append([]float64(nil), query...))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cand.Distance) > 1e-9 {
		t.Fatalf("BestMatch() on loaded snapshot distance = %v, want 0", cand.Distance)
	}
}

func TestSnapshotRejectsIncompatibleDataset(t *testing.T) {
	rows := sampleRows()
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatal(err)
	}
	gs := NewGlobalGroupSpace(ds)
	if _, err := gs.Group("euclidean", 0.5); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	if err := gs.Save(buf); err != nil {
		t.Fatal(err)
	}

	otherRows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	otherDS, err := NewDataset(otherRows)
	if err != nil {
		t.Fatal(err)
	}
	other := NewGlobalGroupSpace(otherDS)
	if err := other.Load(buf); !errors.Is(err, ErrIncompatibleDataset) {
		t.Fatalf("Load() err = %v, want ErrIncompatibleDataset", err)
	}
}
