// Package checksum provides order-independent structural tokens for change
// detection.
//
// It is used by the editor to decide whether a camera preset differs from its
// applied, saved, or default version. It is not a cryptographic hash.
//
// # Canonical Form
//
// Any nested value (maps, slices, structs, numbers, strings, booleans) is first
// serialized to a canonical string: map and struct keys are sorted, strings are
// quoted, and numbers are rendered at four decimal places with trailing zeros
// trimmed. Two values with identical content but different field insertion
// order therefore produce the same byte stream.
//
// # Token
//
// The canonical bytes are folded through two modular accumulators (modulus
// 2^31-1) and combined into a single uint64. Numeric differences above 1e-4
// always change the token; differences below the precision cutoff do not.
//
// # Usage
//
//	tok := checksum.Token(preset)
//	if tok != lastApplied {
//	    // content changed
//	}
package checksum
