package resolver

import "errors"

// ErrNotFound is the base class for every negative resolution outcome.
// Callers treat any wrapped variant as "no custom binding, use the canonical
// default path only".
var ErrNotFound = errors.New("resolver: not found")

var (
	// ErrNoRecord means the vehicle record itself is absent from the store.
	ErrNoRecord = wrap("vehicle record not found")
	// ErrNoBindings means the record exists but carries no camera binding list.
	ErrNoBindings = wrap("camera binding list not found")
	// ErrNoPatternMatch means no binding key follows the canonical pattern.
	ErrNoPatternMatch = wrap("no canonical pattern match")
	// ErrNoCandidate means the structural fallback produced no candidate id.
	ErrNoCandidate = wrap("no structural fallback candidate")
	// ErrNoMarkers means no binding key carried usable level markers.
	ErrNoMarkers = wrap("no level markers found")
)

func wrap(msg string) error {
	return errors.Join(ErrNotFound, errors.New("resolver: "+msg))
}
