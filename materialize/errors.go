package materialize

import (
	"errors"
	"fmt"
)

// ResolutionError is a per-module failure: the record's type name is not
// known to the registry. FilePosition is the record's 1-based position in the
// document, not the position the module would have been assigned.
type ResolutionError struct {
	TypeName     string
	FilePosition int
	Err          error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("module %d (%s): cannot resolve type: %v", e.FilePosition, e.TypeName, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// HydrationError is a per-module failure: the module was constructed but its
// attributes or settings were rejected (including a state blob that cannot be
// decoded, or a module block that was structurally invalid on disk).
type HydrationError struct {
	TypeName     string
	FilePosition int
	Err          error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("module %d (%s): cannot hydrate: %v", e.FilePosition, e.TypeName, e.Err)
}

func (e *HydrationError) Unwrap() error { return e.Err }

// IsResolution reports whether err is (or wraps) a ResolutionError.
func IsResolution(err error) bool {
	var e *ResolutionError
	return errors.As(err, &e)
}

// IsHydration reports whether err is (or wraps) a HydrationError.
func IsHydration(err error) bool {
	var e *HydrationError
	return errors.As(err, &e)
}
