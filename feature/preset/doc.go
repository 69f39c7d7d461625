// Package preset manages named camera offset bundles and applies them to the
// live tweak store.
//
// # File Hierarchy
//
// Presets load from a two-tier hierarchy in fixed order: defaults/ (baseline
// first-party profiles) then presets/ (user and third-party overrides). Each
// file is a self-contained expression producing exactly one record; files are
// evaluated in an empty environment, so a preset definition can never reach
// outer state. Loading fewer baseline profiles than the configured minimum is
// an integrity failure that disables the whole system.
//
// # Resolution and Apply
//
// A preset either carries its own offsets or links to another preset via
// Link; chains resolve transitively with a fixed depth bound and cycle
// detection. On apply, explicit values merge with the profile's default
// preset and per-tier baked-in constants, combat sub-levels receive a fixed
// z/distance bias compensating their narrower field of view, and values are
// written through the resolver's level map so modded records are addressed
// correctly. The pre-existing value of any custom-bound path is captured
// before its first overwrite so unmounting can restore it.
//
// # Usage Tracking
//
// Every applied preset bumps a usage counter (first/last/total) persisted to
// a JSON file with one-shot .bak fallback.
package preset
