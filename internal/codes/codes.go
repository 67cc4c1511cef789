// Package codes implements a fixed-size set of token codes.
package codes

import (
	"math/bits"
)

// Count is the number of token codes, valid codes are 0 .. Count-1.
const Count = 128

const chunkCount = Count / 64

// Set is a set of token codes. Zero value is an empty set.
// Set is a value type, operations return new sets.
type Set struct {
	chunks [chunkCount]uint64
}

// Valid reports whether code fits into Set.
func Valid(code int) bool {
	return code >= 0 && code < Count
}

// Add returns s with item added, invalid codes are ignored.
func (s Set) Add(item int) Set {
	if Valid(item) {
		s.chunks[item>>6] |= 1 << (item & 63)
	}
	return s
}

// Len returns the number of codes in s.
func (s Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount64(chunk)
	}
	return result
}

// ToSlice returns set codes in ascending order.
func (s Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		for chunk != 0 {
			bit := bits.TrailingZeros64(chunk)
			result = append(result, i<<6+bit)
			chunk &= chunk - 1
		}
	}
	return result
}

// Missing returns codes 0 .. Count-1 absent from s, in ascending order.
func (s Set) Missing() []int {
	for i := range s.chunks {
		s.chunks[i] = ^s.chunks[i]
	}
	return s.ToSlice()
}
