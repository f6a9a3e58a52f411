package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Float32s flattens a slice of vectors into a contiguous float slice for buffer uploads.
func Float32s[V ~[2]float32 | ~[3]float32](vs []V) []float32 {
	if len(vs) == 0 {
		return nil
	}
	var zero V
	n := len(zero)
	out := make([]float32, 0, len(vs)*n)
	for _, v := range vs {
		for i := 0; i < n; i++ {
			out = append(out, v[i])
		}
	}
	return out
}
