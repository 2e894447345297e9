// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-two helpers used to size FFT
segments. All functions are O(1) and allocation free.

	segment := bitint.NextPowerOfTwo(6000) // 8192
	fits := bitint.PrevPowerOfTwo(frames)  // largest segment within frames

NextPowerOfTwo subtracts one before taking the bit length so that exact
powers of two map to themselves: bits.Len(7) is 3 and 1<<3 is 8, while
bits.Len(8) would give 16.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size, or 1 for
// size <= 0.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// PrevPowerOfTwo returns the largest power of 2 <= size, or 0 for
// size <= 0.
func PrevPowerOfTwo(size int) int {
	if size <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(size)) - 1)
}

// IsPowerOfTwo reports whether n is a positive power of 2. A power of two
// has one bit set, so clearing its lowest set bit leaves zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
