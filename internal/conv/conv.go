// Package conv provides checked integer narrowing for state identifiers.
//
// Overflow means an automaton outgrew the 32-bit state space, which the
// compiler's state limit should have prevented, so these helpers panic.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
