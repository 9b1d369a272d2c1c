package genex

import (
	"container/heap"
	"math"

	"github.com/ndaniels/genex/distance"
)

// membership is one entry of a LocalLengthGroupSpace's flat member map: the
// group a subsequence belongs to, and the coordinate of the member added
// immediately before it in that group's insertion order. Chaining these
// backwards from a group's lastMemberCoord reconstructs the group's whole
// membership list without any member ever holding a pointer to another:
// a singly-linked list keyed by coordinate and flattened into one array
// rather than scattered across heap-allocated nodes.
type membership struct {
	groupIndex int
	prev       Coord
	valid      bool
}

// noPrev marks the head of a group's membership chain.
var noPrev = Coord{Series: -1, Start: -1}

// Group is a cluster of same-length subsequences: a centroid (by contract,
// the subsequence that created the group) and the ordered list of members
// admitted to it. Every member m satisfies pairwiseDist(centroid, m) <=
// threshold/2 + epsilon (invariant G1), which is what makes
// centroid-distance-based routing during query sound.
type Group struct {
	index  int
	length int

	centroidCoord   Coord
	lastMemberCoord Coord
	members         []Coord

	space *LocalLengthGroupSpace
}

func newGroup(index, length int, space *LocalLengthGroupSpace) *Group {
	return &Group{
		index:           index,
		length:          length,
		centroidCoord:   noPrev,
		lastMemberCoord: noPrev,
		space:           space,
	}
}

// Index returns this group's index, unique within its LocalLengthGroupSpace.
func (g *Group) Index() int { return g.index }

// Count returns the number of members in the group.
func (g *Group) Count() int { return len(g.members) }

// Centroid returns the group's representative subsequence: the first
// member ever added.
func (g *Group) Centroid() ([]float64, error) {
	return g.space.dataset.TimeSeries(g.centroidCoord.Series, g.centroidCoord.Start, g.centroidCoord.Start+g.length)
}

// Members returns the coordinates of every member, in insertion order.
func (g *Group) Members() []Coord {
	out := make([]Coord, len(g.members))
	copy(out, g.members)
	return out
}

// addMember appends (series, start) to the group. If this is the group's
// first member, it also becomes the centroid. The shared member map owned
// by space is updated in the same call, recording the coordinate of the
// previously-last member so the group's insertion order can be walked back
// from lastMemberCoord.
func (g *Group) addMember(series, start int) {
	coord := Coord{Series: series, Start: start}
	if len(g.members) == 0 {
		g.centroidCoord = coord
	}
	prev := g.lastMemberCoord
	g.members = append(g.members, coord)
	g.lastMemberCoord = coord
	g.space.setMembership(series, start, membership{groupIndex: g.index, prev: prev, valid: true})
}

// distanceFromCentroid is the pairwise distance between query and the
// group's centroid under the space's configured distance, with early
// dropout.
func (g *Group) distanceFromCentroid(query []float64, d distance.Distance, dropout float64) (float64, error) {
	centroid, err := g.Centroid()
	if err != nil {
		return 0, err
	}
	return d.Pairwise(query, centroid, dropout), nil
}

// bestMatch scans every member, cascading against the running best-so-far,
// and returns the closest member and its distance. An empty group returns
// an infinite-distance, zero-value Candidate.
func (g *Group) bestMatch(query []float64, d distance.Distance) (Candidate, error) {
	if len(g.members) == 0 {
		return Candidate{Distance: math.Inf(1)}, nil
	}

	band := distance.CalcBand(maxInt(len(query), g.length))
	queryEnv := distance.KeoghEnvelope(query, band)

	bsf := math.Inf(1)
	best := Candidate{Distance: math.Inf(1)}
	for _, coord := range g.members {
		member, err := g.space.dataset.TimeSeries(coord.Series, coord.Start, coord.Start+g.length)
		if err != nil {
			return Candidate{}, err
		}
		memberEnv, err := g.space.envelope(coord.Series, coord.Start, band)
		if err != nil {
			return Candidate{}, err
		}
		dist, _ := d.Cascade(query, member, queryEnv, memberEnv, bsf)
		if dist < bsf {
			bsf = dist
			best = Candidate{Series: coord.Series, Start: coord.Start, End: coord.Start + g.length, Distance: dist}
		}
	}
	return best, nil
}

// intraGroupKNN returns the k members closest to query, ascending by
// distance. If k >= Count(), every member is returned. The dropout fed
// into each member's cascade is the current worst entry in a bounded
// max-heap of size k (+Inf until the heap has k entries), so later members
// benefit from tighter pruning as closer ones are found.
func (g *Group) intraGroupKNN(query []float64, k int, d distance.Distance) ([]Candidate, error) {
	if k <= 0 || len(g.members) == 0 {
		return nil, nil
	}

	band := distance.CalcBand(maxInt(len(query), g.length))
	queryEnv := distance.KeoghEnvelope(query, band)

	h := &candidateHeap{}
	heap.Init(h)
	for _, coord := range g.members {
		dropout := math.Inf(1)
		if h.Len() >= k {
			dropout = (*h)[0].Distance
		}
		member, err := g.space.dataset.TimeSeries(coord.Series, coord.Start, coord.Start+g.length)
		if err != nil {
			return nil, err
		}
		memberEnv, err := g.space.envelope(coord.Series, coord.Start, band)
		if err != nil {
			return nil, err
		}
		dist, _ := d.Cascade(query, member, queryEnv, memberEnv, dropout)
		if math.IsInf(dist, 1) {
			continue
		}
		cand := Candidate{Series: coord.Series, Start: coord.Start, End: coord.Start + g.length, Distance: dist}
		if h.Len() < k {
			heap.Push(h, cand)
		} else if dist < (*h)[0].Distance {
			heap.Pop(h)
			heap.Push(h, cand)
		}
	}

	out := make([]Candidate, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Candidate)
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
