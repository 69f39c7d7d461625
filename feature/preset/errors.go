package preset

import "errors"

var (
	// ErrInvalidPreset marks a record violating the preset invariant:
	// a preset needs a non-empty ID plus at least one numeric offset, or a
	// Link and nothing else.
	ErrInvalidPreset = errors.New("preset: invalid preset record")

	// ErrNotFound means no preset is registered under the requested key.
	ErrNotFound = errors.New("preset: not found")

	// ErrCycleDetected means a Link chain loops back on itself.
	ErrCycleDetected = errors.New("preset: link cycle detected")

	// ErrLinkDepth means a Link chain exceeded the resolution bound.
	ErrLinkDepth = errors.New("preset: link chain too deep")

	// ErrIDMismatch means a preset's ID contradicts the id the caller
	// resolved for the active vehicle (stale cached lookup).
	ErrIDMismatch = errors.New("preset: id mismatch")

	// ErrDisabled means the system was disabled by an integrity failure and
	// refuses to apply anything.
	ErrDisabled = errors.New("preset: system disabled")

	// ErrIntegrity means fewer baseline profiles loaded than the configured
	// minimum. Non-recoverable until the defaults directory is repaired.
	ErrIntegrity = errors.New("preset: baseline profile set incomplete")
)
