package domain

// SparseVector maps hash-bucket indices to non-negative term-frequency
// weights. Only non-zero entries are stored; an empty map is the valid
// encoding of text that yields no tokens.
type SparseVector map[uint32]float64

// Dot returns the dot product of the two vectors: the sum over shared
// bucket indices of the weight products. Buckets present in only one
// vector contribute zero.
func (v SparseVector) Dot(other SparseVector) float64 {
	// Iterate the smaller map.
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for idx, w := range a {
		if ow, ok := b[idx]; ok {
			sum += w * ow
		}
	}
	return sum
}

// Add accumulates the given weight into a bucket. Distinct tokens hashing
// to the same bucket merge their weights rather than overwriting.
func (v SparseVector) Add(idx uint32, weight float64) {
	v[idx] += weight
}

// Clone returns an independent copy of the vector.
func (v SparseVector) Clone() SparseVector {
	out := make(SparseVector, len(v))
	for idx, w := range v {
		out[idx] = w
	}
	return out
}
