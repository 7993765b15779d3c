package motion

import (
	"errors"
	"fmt"
)

// Construction errors. Nothing in a tick can fail once a World exists.
var (
	// ErrNoEntities indicates a world built without any entity.
	ErrNoEntities = errors.New("motion: at least one entity is required")

	// ErrPairing indicates coordination enabled without exactly one counterpart.
	ErrPairing = errors.New("motion: coordination requires exactly two entities")

	// ErrInvalidEntity indicates a non-positive radius or activity.
	ErrInvalidEntity = errors.New("motion: entity radius and activity must be positive")

	// ErrDuplicateName indicates two entities sharing a name.
	ErrDuplicateName = errors.New("motion: entity names must be unique")

	// ErrCanvasTooSmall indicates a canvas that cannot hold a circle.
	ErrCanvasTooSmall = errors.New("motion: canvas too small for entity")
)

// EntityError wraps a construction error with the offending entity.
type EntityError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d (%s): %v", e.Index, e.Name, e.Wrapped)
}

func (e *EntityError) Unwrap() error {
	return e.Wrapped
}
