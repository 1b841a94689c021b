// Package conv provides checked integer conversions for automaton state IDs.
//
// State IDs are uint32 while arena lengths are int. A conversion that would
// overflow indicates an automaton far beyond the configured state limits, so
// these helpers panic rather than truncate.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// uint comparison avoids overflow on 32-bit platforms
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
