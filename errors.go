package genex

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced across the library boundary. None are
// retried internally; transient +Inf results from a dropout are values,
// not errors (see distance.Pairwise/Warped).
var (
	ErrNoGroupsBuilt       = errors.New("genex: no groups built")
	ErrIncompatibleDataset = errors.New("genex: incompatible dataset")
	ErrIndexOutOfRange     = errors.New("genex: index out of range")
	ErrEmptyDataset        = errors.New("genex: empty dataset")
	ErrIOFailure           = errors.New("genex: io failure")
)

func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}
