package genex

import (
	"sync"

	"github.com/ndaniels/genex/distance"
)

// Dataset is a read-only, rectangular matrix of N rows (items) by Lmax
// columns (item length). Every value is assumed finite. A Dataset is the
// single collaborator GlobalGroupSpace needs to enumerate, route, and
// refine against; CSV ingestion and normalization that produce one are
// external to the core (spec: out of scope, narrow interface).
type Dataset struct {
	rows   [][]float64
	series []*seriesCache
}

// NewDataset builds a Dataset view over rows. It copies nothing: rows must
// be rectangular (every row the same length) and must not be mutated for
// the lifetime of the Dataset. An empty rows slice is rejected with
// ErrEmptyDataset since there is no valid item length to group by.
func NewDataset(rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	length := len(rows[0])
	for i, row := range rows {
		if len(row) != length {
			return nil, wrapf(ErrIncompatibleDataset,
				"row %d has length %d, want %d", i, len(row), length)
		}
	}
	series := make([]*seriesCache, len(rows))
	for i, row := range rows {
		series[i] = newSeriesCache(row)
	}
	return &Dataset{rows: rows, series: series}, nil
}

// ItemCount returns N, the number of rows in the dataset.
func (d *Dataset) ItemCount() int { return len(d.rows) }

// ItemLength returns Lmax, the number of columns in the dataset.
func (d *Dataset) ItemLength() int {
	if len(d.rows) == 0 {
		return 0
	}
	return len(d.rows[0])
}

// TimeSeries returns the subsequence view [start, end) of row index.
func (d *Dataset) TimeSeries(index, start, end int) ([]float64, error) {
	if index < 0 || index >= len(d.rows) {
		return nil, wrapf(ErrIndexOutOfRange, "series index %d", index)
	}
	row := d.rows[index]
	if start < 0 || end > len(row) || start >= end {
		return nil, wrapf(ErrIndexOutOfRange, "window [%d,%d) of length %d", start, end, len(row))
	}
	return row[start:end], nil
}

// Envelope returns the memoized LB_Keogh envelope of the subsequence
// [start, start+length) of series at the given band, computing and
// caching it on first use. The envelope is taken over the subsequence
// itself, not the whole row: a window near either edge of the row must
// not see values outside it, the same "envelope of the windowed view"
// semantics genex's own TimeSeries.getKeoghUpper/getKeoghLower use.
func (d *Dataset) Envelope(series, start, length, band int) (distance.Envelope, error) {
	if series < 0 || series >= len(d.series) {
		return distance.Envelope{}, wrapf(ErrIndexOutOfRange, "series index %d", series)
	}
	window, err := d.TimeSeries(series, start, start+length)
	if err != nil {
		return distance.Envelope{}, err
	}
	return d.series[series].envelope(start, length, band, window), nil
}

// KeoghUpper returns the upper half of Envelope(series, start, length, band).
func (d *Dataset) KeoghUpper(series, start, length, band int) ([]float64, error) {
	env, err := d.Envelope(series, start, length, band)
	if err != nil {
		return nil, err
	}
	return env.Upper, nil
}

// KeoghLower returns the lower half of Envelope(series, start, length, band).
func (d *Dataset) KeoghLower(series, start, length, band int) ([]float64, error) {
	env, err := d.Envelope(series, start, length, band)
	if err != nil {
		return nil, err
	}
	return env.Lower, nil
}

// envelopeKey identifies one memoized envelope: a specific window of a
// series at a specific band. Queries at different lengths ask for
// different windows of the same series, so distinct (start, length)
// windows of the same series never collide in the cache even though they
// share its lock.
type envelopeKey struct {
	start, length, band int
}

// seriesCache memoizes LB_Keogh envelopes of one row's subsequences, keyed
// by window and band. Every lookup, hit or miss, holds the cache
// instance's mutex; a stored envelope is never modified afterwards.
type seriesCache struct {
	row  []float64
	mu   sync.Mutex
	envs map[envelopeKey]distance.Envelope
}

func newSeriesCache(row []float64) *seriesCache {
	return &seriesCache{row: row, envs: make(map[envelopeKey]distance.Envelope)}
}

func (s *seriesCache) envelope(start, length, band int, window []float64) distance.Envelope {
	key := envelopeKey{start: start, length: length, band: band}
	s.mu.Lock()
	defer s.mu.Unlock()
	if env, ok := s.envs[key]; ok {
		return env
	}
	env := distance.KeoghEnvelope(window, band)
	s.envs[key] = env
	return env
}
