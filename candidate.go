package genex

// Coord is a subsequence coordinate: a series index and a start offset.
// The length is implied by the enclosing group or call site.
type Coord struct {
	Series int
	Start  int
}

// Candidate pairs a subsequence with its distance to some query; ordering
// key is Distance ascending.
type Candidate struct {
	Series   int
	Start    int
	End      int
	Distance float64
}

// Coord returns the (series, start) coordinate of c.
func (c Candidate) Coord() Coord { return Coord{Series: c.Series, Start: c.Start} }

// candidateHeap is a bounded max-heap over Candidate keyed by Distance
// descending, used by Group.intraGroupKNN to keep only the k best
// candidates seen so far: popping the max is how a
// newly-found, smaller distance gets to evict the current worst entry.
type candidateHeap []Candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(Candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
