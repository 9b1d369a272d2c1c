package genex

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ndaniels/genex/distance"
)

// GlobalGroupSpace is the collection of LocalLengthGroupSpaces, one per
// length in [2, Lmax], plus the immutable distance configuration they were
// built with. Length slots 0 and 1 are intentionally never populated
// (genex's source reserves them but never builds them — queries shorter
// than 2 are rejected rather than silently routed nowhere).
type GlobalGroupSpace struct {
	dataset      *Dataset
	distanceName string
	threshold    float64
	dist         distance.Distance

	local []*LocalLengthGroupSpace // indexed by length; index 0,1 unused

	progress *buildProgress
}

// NewGlobalGroupSpace creates an empty, ungrouped index over dataset.
func NewGlobalGroupSpace(dataset *Dataset) *GlobalGroupSpace {
	return &GlobalGroupSpace{dataset: dataset}
}

// Reset drops every built group, returning the space to its initial state.
func (gs *GlobalGroupSpace) Reset() {
	gs.local = nil
	gs.distanceName = ""
	gs.threshold = 0
	gs.progress = nil
}

// IsGrouped reports whether the space has a distance configured and at
// least one LocalLengthGroupSpace populated; every query method requires
// this.
func (gs *GlobalGroupSpace) IsGrouped() bool {
	if gs.distanceName == "" {
		return false
	}
	for _, l := range gs.local {
		if l != nil {
			return true
		}
	}
	return false
}

// DistanceName returns the name of the distance the index was built with.
func (gs *GlobalGroupSpace) DistanceName() string { return gs.distanceName }

// Progress returns the number of lengths completed and scheduled during
// the most recent (or in-progress) build.
func (gs *GlobalGroupSpace) Progress() (current, total uint64) {
	return gs.progress.snapshot()
}

// Group builds the index sequentially over ℓ in [2, Lmax]. It returns the
// total number of groups produced across every length.
func (gs *GlobalGroupSpace) Group(distanceName string, threshold float64) (int, error) {
	return gs.GroupMultiThreaded(distanceName, threshold, 1)
}

// GroupMultiThreaded builds the index with up to numThreads workers,
// each claiming the next unbuilt length from a shared atomic cursor
// starting at 2. Lengths are independent: each worker builds a fresh
// LocalLengthGroupSpace against the shared, read-only Dataset, so no
// length's build observes another's in-progress state, and determinism
// within a length is unaffected by how many workers are running (see
// generateGroups' fixed enumeration order). Workers run under an
// errgroup rather than a plain WaitGroup because a per-length build can
// fail (a window lookup returning ErrIndexOutOfRange) and that failure
// must cancel sibling workers and propagate to the caller. An unknown
// distance name is rejected before any worker starts.
func (gs *GlobalGroupSpace) GroupMultiThreaded(distanceName string, threshold float64, numThreads int) (int, error) {
	d, err := distance.Lookup(distanceName)
	if err != nil {
		return 0, err
	}

	lMax := gs.dataset.ItemLength()
	if lMax < 2 {
		return 0, wrapf(ErrEmptyDataset, "item length %d is too short to group", lMax)
	}

	gs.local = make([]*LocalLengthGroupSpace, lMax+1)
	gs.distanceName = distanceName
	gs.threshold = threshold
	gs.dist = d
	gs.progress = newBuildProgress(lMax - 1)

	if numThreads < 1 {
		numThreads = 1
	}
	if numThreads > lMax-1 {
		numThreads = lMax - 1
	}

	cursor := int64(2)
	group, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < numThreads; w++ {
		group.Go(func() error {
			for {
				length := atomic.AddInt64(&cursor, 1) - 1
				if length > int64(lMax) {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				space := newLocalLengthGroupSpace(gs.dataset, int(length))
				if _, err := space.generateGroups(d, threshold); err != nil {
					return err
				}
				gs.local[length] = space
				gs.progress.increment()
			}
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, l := range gs.local {
		if l != nil {
			total += l.NumGroups()
		}
	}
	return total, nil
}

// BestMatch returns the single closest subsequence in the dataset to
// query under the configured distance, searching lengths in
// traversalOrder(len(query), Lmax) and refining within whichever group's
// centroid is currently closest.
func (gs *GlobalGroupSpace) BestMatch(query []float64) (Candidate, error) {
	if !gs.IsGrouped() {
		return Candidate{}, ErrNoGroupsBuilt
	}
	if len(query) < 2 {
		return Candidate{}, wrapf(ErrIndexOutOfRange, "query length %d is below the minimum of 2", len(query))
	}

	lMax := gs.dataset.ItemLength()
	order := traversalOrder(len(query), lMax)

	bsf := math.Inf(1)
	best := Candidate{Distance: math.Inf(1)}
	for _, length := range order {
		space := gs.local[length]
		if space == nil {
			continue
		}
		group, _, ok, err := space.bestGroup(query, gs.dist, bsf)
		if err != nil {
			return Candidate{}, err
		}
		if !ok {
			continue
		}
		refined, err := group.bestMatch(query, gs.dist)
		if err != nil {
			return Candidate{}, err
		}
		if refined.Distance < bsf {
			bsf = refined.Distance
			best = refined
		}
	}
	return best, nil
}

// KSim returns the k subsequences closest to query, approximated via a
// two-phase search: first an inter-level pass over every built length
// (traversalOrder order) that accumulates up to h candidate groups keyed
// by centroid distance, then an intra-level pass that descends into each
// of those groups and merges their k-nearest members into one
// ascending-by-distance result of size k. h lets a caller examine more
// groups than k to recover some of the accuracy an exact search would
// have; h < k is treated as h = k.
func (gs *GlobalGroupSpace) KSim(query []float64, k, h int) ([]Candidate, error) {
	if !gs.IsGrouped() {
		return nil, ErrNoGroupsBuilt
	}
	if len(query) < 2 {
		return nil, wrapf(ErrIndexOutOfRange, "query length %d is below the minimum of 2", len(query))
	}
	if k <= 0 {
		return nil, nil
	}
	if h < k {
		h = k
	}

	lMax := gs.dataset.ItemLength()
	order := traversalOrder(len(query), lMax)

	var groups []candidateGroup
	for _, length := range order {
		space := gs.local[length]
		if space == nil {
			continue
		}
		var err error
		groups, err = space.interLevelKSim(query, gs.dist, groups, h)
		if err != nil {
			return nil, err
		}
	}

	if len(groups) > h {
		groups = groups[:h]
	}

	merged := candidateMerger{k: k}
	for _, cg := range groups {
		space := gs.local[cg.length]
		group, err := space.Group(cg.index)
		if err != nil {
			return nil, err
		}
		kAdjusted := k
		if kAdjusted > group.Count() {
			kAdjusted = group.Count()
		}
		results, err := group.intraGroupKNN(query, kAdjusted, gs.dist)
		if err != nil {
			return nil, err
		}
		merged.addAll(results)
	}
	return merged.sorted(), nil
}

// candidateMerger merges candidates from multiple groups, keeping only
// the k smallest by distance.
type candidateMerger struct {
	k     int
	items []Candidate
}

func (m *candidateMerger) addAll(cands []Candidate) {
	m.items = append(m.items, cands...)
}

func (m *candidateMerger) sorted() []Candidate {
	items := m.items
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j-1].Distance > items[j].Distance; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
	if m.k > 0 && len(items) > m.k {
		items = items[:m.k]
	}
	return items
}
