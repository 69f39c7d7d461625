// Package editor tracks in-flight preset edits per vehicle.
//
// Each edited vehicle gets a bundle of four versioned slots: the resolved
// default (nexus), the live edit (flux), the last-applied snapshot (pivot)
// and the last-saved snapshot (finale). Pending work is derived by comparing
// the slots' structural tokens, never flagged directly:
//
//   - apply is pending while flux differs from pivot
//   - save is pending while flux differs from finale
//   - restore replaces save when flux has been edited back to the default;
//     saving then deletes the override file instead of writing a copy of it
//
// Bundles survive until closed; a closed bundle is evicted only when nothing
// distinguishes it from the baseline anymore.
package editor
