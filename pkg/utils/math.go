package utils

import "math"

// NormEpsilon guards divisions by a vector norm.
const NormEpsilon = 1e-10

// NormalizeL2 normalizes the slice in place to unit L2 norm.
// An all-zero slice stays all zero.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm < NormEpsilon {
		return
	}
	inv := 1.0 / norm
	for i := range x {
		x[i] = float32(float64(x[i]) * inv)
	}
}
