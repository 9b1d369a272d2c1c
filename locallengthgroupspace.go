package genex

import (
	"math"

	"github.com/ndaniels/genex/distance"
)

// groupAdmitEpsilon is the additive slack on the group-admission threshold:
// a subsequence whose distance to an existing centroid is exactly
// threshold/2 is still admitted into that group rather than starting a new
// one. Its value isn't derived from anything else in the system — it is an
// externally-visible part of the grouping contract and is preserved
// literally.
const groupAdmitEpsilon = 0.01

// candidateGroup pairs a group with its centroid distance to some query,
// used both for best-match routing and for the inter-level priority list
// k-similarity builds up across lengths.
type candidateGroup struct {
	length  int
	index   int
	members int
	dist    float64
}

// LocalLengthGroupSpace holds every group for one fixed subsequence length
// ℓ, plus the reverse member map recording each subsequence's group and
// its predecessor in that group's insertion order. Load rebuilds the map
// by replaying each group's stored member list.
type LocalLengthGroupSpace struct {
	dataset *Dataset
	length  int

	groups []*Group

	// memberMap is indexed by start*N + series (the same outer-start,
	// inner-series order generateGroups enumerates in), a flat array
	// rather than back-pointers scattered across heap-allocated nodes
	// (see membership's doc comment).
	memberMap []membership
}

func newLocalLengthGroupSpace(dataset *Dataset, length int) *LocalLengthGroupSpace {
	n := dataset.ItemCount()
	perLength := dataset.ItemLength() - length + 1
	size := 0
	if perLength > 0 {
		size = n * perLength
	}
	return &LocalLengthGroupSpace{
		dataset:   dataset,
		length:    length,
		memberMap: make([]membership, size),
	}
}

func (s *LocalLengthGroupSpace) linearIndex(series, start int) int {
	return start*s.dataset.ItemCount() + series
}

func (s *LocalLengthGroupSpace) setMembership(series, start int, m membership) {
	s.memberMap[s.linearIndex(series, start)] = m
}

// Length returns ℓ, the fixed subsequence length of every group here.
func (s *LocalLengthGroupSpace) Length() int { return s.length }

// NumGroups returns the number of groups built for this length.
func (s *LocalLengthGroupSpace) NumGroups() int { return len(s.groups) }

// Group returns the group at idx, or ErrIndexOutOfRange.
func (s *LocalLengthGroupSpace) Group(idx int) (*Group, error) {
	if idx < 0 || idx >= len(s.groups) {
		return nil, wrapf(ErrIndexOutOfRange, "group index %d", idx)
	}
	return s.groups[idx], nil
}

// envelope returns the LB_Keogh envelope of the length-ℓ window starting
// at start within series, at the given band.
func (s *LocalLengthGroupSpace) envelope(series, start, band int) (distance.Envelope, error) {
	return s.dataset.Envelope(series, start, s.length, band)
}

// generateGroups clusters every length-ℓ subsequence of the dataset into
// groups under threshold, enumerated in outer-start, inner-series order so
// group-index assignment is deterministic given that order. It returns the
// number of groups produced.
func (s *LocalLengthGroupSpace) generateGroups(d distance.Distance, threshold float64) (int, error) {
	n := s.dataset.ItemCount()
	lMax := s.dataset.ItemLength()

	for start := 0; start <= lMax-s.length; start++ {
		for i := 0; i < n; i++ {
			query, err := s.dataset.TimeSeries(i, start, start+s.length)
			if err != nil {
				return 0, err
			}

			bsf := threshold/2 + groupAdmitEpsilon
			bsfIndex := -1
			for _, g := range s.groups {
				dist, err := g.distanceFromCentroid(query, d, bsf)
				if err != nil {
					return 0, err
				}
				if dist < bsf {
					bsf = dist
					bsfIndex = g.index
				}
			}

			if bsf > threshold/2 {
				bsfIndex = len(s.groups)
				s.groups = append(s.groups, newGroup(bsfIndex, s.length, s))
			}
			s.groups[bsfIndex].addMember(i, start)
		}
	}
	return len(s.groups), nil
}

// bestGroup returns the group whose centroid is closest to query, under
// cascading lower bounds, and its distance. It reports ok=false if no
// group beats dropout.
func (s *LocalLengthGroupSpace) bestGroup(query []float64, d distance.Distance, dropout float64) (group *Group, dist float64, ok bool, err error) {
	band := distance.CalcBand(maxInt(len(query), s.length))
	queryEnv := distance.KeoghEnvelope(query, band)

	bsf := dropout
	var bsfGroup *Group
	for _, g := range s.groups {
		centroid, cerr := g.Centroid()
		if cerr != nil {
			return nil, 0, false, cerr
		}
		centroidEnv, eerr := s.envelope(g.centroidCoord.Series, g.centroidCoord.Start, band)
		if eerr != nil {
			return nil, 0, false, eerr
		}
		dist, _ := d.Cascade(query, centroid, queryEnv, centroidEnv, bsf)
		if dist < bsf {
			bsf = dist
			bsfGroup = g
		}
	}
	if bsfGroup == nil {
		return nil, 0, false, nil
	}
	return bsfGroup, bsf, true, nil
}

// interLevelKSim extends bestSoFar, a priority list of candidate groups
// ordered by centroid distance (ascending), with every group at this
// length whose centroid distance beats the caller's current k-th-best
// dropout, keeping at most k entries. It returns the extended list.
func (s *LocalLengthGroupSpace) interLevelKSim(query []float64, d distance.Distance, bestSoFar []candidateGroup, k int) ([]candidateGroup, error) {
	band := distance.CalcBand(maxInt(len(query), s.length))
	queryEnv := distance.KeoghEnvelope(query, band)

	dropout := math.Inf(1)
	if len(bestSoFar) >= k && k > 0 {
		dropout = bestSoFar[k-1].dist
	}

	for _, g := range s.groups {
		centroid, err := g.Centroid()
		if err != nil {
			return nil, err
		}
		centroidEnv, err := s.envelope(g.centroidCoord.Series, g.centroidCoord.Start, band)
		if err != nil {
			return nil, err
		}
		dist, _ := d.Cascade(query, centroid, queryEnv, centroidEnv, dropout)
		if math.IsInf(dist, 1) {
			continue
		}
		bestSoFar = insertCandidateGroup(bestSoFar, candidateGroup{
			length:  s.length,
			index:   g.index,
			members: g.Count(),
			dist:    dist,
		})
		if len(bestSoFar) > k && k > 0 {
			bestSoFar = bestSoFar[:k]
		}
		if len(bestSoFar) >= k && k > 0 {
			dropout = bestSoFar[k-1].dist
		}
	}
	return bestSoFar, nil
}

// insertCandidateGroup inserts cg into the ascending-by-dist slice cgs,
// keeping it sorted.
func insertCandidateGroup(cgs []candidateGroup, cg candidateGroup) []candidateGroup {
	i := len(cgs)
	cgs = append(cgs, cg)
	for i > 0 && cgs[i-1].dist > cg.dist {
		cgs[i] = cgs[i-1]
		i--
	}
	cgs[i] = cg
	return cgs
}
