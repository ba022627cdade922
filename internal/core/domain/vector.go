package domain

import "math"

// CosineSimilarity computes the cosine similarity between two vectors
// of matching dimension. Comparing vectors of different dimension is an
// error: it means embeddings from different embedder configurations
// were mixed, which would make every score meaningless.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
