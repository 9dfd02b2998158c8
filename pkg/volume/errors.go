package volume

import (
	"errors"
	"fmt"
)

// ErrInvalidRegion is returned when an operation is asked to act on an
// empty region.
var ErrInvalidRegion = errors.New("invalid region: region is empty")

// InvalidArgumentError reports malformed input shapes or counts. These
// are deterministic function-of-input failures and are never retried.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Msg
}

// IncompatibleVolumeError reports two volumes that were expected to share
// a grid but do not.
type IncompatibleVolumeError struct {
	WantDims [3]int
	GotDims  [3]int
}

func (e *IncompatibleVolumeError) Error() string {
	return fmt.Sprintf("incompatible volume: want %dx%dx%d, got %dx%dx%d",
		e.WantDims[0], e.WantDims[1], e.WantDims[2],
		e.GotDims[0], e.GotDims[1], e.GotDims[2])
}

// InconsistentGeometryError reports a violated geometric precondition,
// such as a hole contour that is not enclosed by its outer contour.
// Callers should treat it as a data-quality signal for the offending
// contour rather than a crash-worthy bug.
type InconsistentGeometryError struct {
	Msg string
}

func (e *InconsistentGeometryError) Error() string {
	return "inconsistent geometry: " + e.Msg
}
