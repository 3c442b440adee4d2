package db

import (
	"database/sql"
	"math"
)

// NullFloat stores v, or NULL when v is not finite
func NullFloat(v float64) sql.NullFloat64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// BitsToMask packs perceptibility bits, bit i for metric i
func BitsToMask(bits []int) int64 {
	var mask int64
	for i, b := range bits {
		if b != 0 {
			mask |= 1 << i
		}
	}
	return mask
}

// MaskToBits unpacks n perceptibility bits
func MaskToBits(mask int64, n int) []int {
	bits := make([]int, n)
	for i := range bits {
		bits[i] = int(mask>>i) & 1
	}
	return bits
}
