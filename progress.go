package genex

import "sync/atomic"

// buildProgress is an atomically-updated counter of lengths completed out
// of lengths scheduled during a grouping build. Drawing a bar from it is
// a CLI concern, not the library's.
type buildProgress struct {
	current uint64
	total   uint64
}

func newBuildProgress(total int) *buildProgress {
	return &buildProgress{total: uint64(total)}
}

func (p *buildProgress) increment() {
	if p == nil {
		return
	}
	atomic.AddUint64(&p.current, 1)
}

// snapshot returns (current, total) completed/scheduled lengths.
func (p *buildProgress) snapshot() (current, total uint64) {
	if p == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&p.current), atomic.LoadUint64(&p.total)
}
