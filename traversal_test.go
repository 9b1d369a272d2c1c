package genex

import (
	"reflect"
	"testing"
)

func TestTraversalOrderExample(t *testing.T) {
	got := traversalOrder(5, 10)
	want := []int{5, 4, 6, 3, 7, 2, 8, 9, 10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("traversalOrder(5, 10) = %v, want %v", got, want)
	}
}

func TestTraversalOrderClampsStartToRange(t *testing.T) {
	got := traversalOrder(1, 5)
	want := []int{2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("traversalOrder(1, 5) = %v, want %v", got, want)
	}
}

func TestTraversalOrderQueryLongerThanLmax(t *testing.T) {
	got := traversalOrder(20, 5)
	want := []int{5, 4, 3, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("traversalOrder(20, 5) = %v, want %v", got, want)
	}
}

func TestTraversalOrderCoversEveryLength(t *testing.T) {
	lMax := 12
	got := traversalOrder(6, lMax)
	if len(got) != lMax-1 {
		t.Fatalf("len(traversalOrder) = %d, want %d", len(got), lMax-1)
	}
	seen := map[int]bool{}
	for _, l := range got {
		if l < 2 || l > lMax {
			t.Fatalf("traversalOrder produced out-of-range length %d", l)
		}
		if seen[l] {
			t.Fatalf("traversalOrder produced duplicate length %d", l)
		}
		seen[l] = true
	}
}
