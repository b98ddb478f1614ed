package chart

// Downsample decimates values to at most maxPoints, always keeping the first
// and last value.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
// Returns the destination slice (may be dst if reused, or a new slice if dst was too small).
func Downsample(dst []float64, values []float64, maxPoints int) []float64 {
	if maxPoints < 2 || len(values) <= maxPoints {
		if cap(dst) >= len(values) {
			dst = dst[:len(values)]
			copy(dst, values)
			return dst
		}
		result := make([]float64, len(values))
		copy(result, values)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]float64, 0, maxPoints)
	}

	step := float64(len(values)-1) / float64(maxPoints-1)
	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= len(values) {
			idx = len(values) - 1
		}
		dst = append(dst, values[idx])
	}

	return dst
}
