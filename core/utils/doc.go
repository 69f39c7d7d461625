// Package utils provides common utility functions for the camkit application.
// It includes helper functions for converting the untyped values read from the
// tweak store, and other shared logic that doesn't fit into domain-specific
// packages.
package utils
