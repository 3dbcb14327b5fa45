package domain

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model         string
	Dimensions    int
	TopK          int
	CandidatePool int
	IndexName     string
	VectorPath    string
}

// DefaultVectorConfig returns the default configuration tuned for text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:         "text-embedding-3-small",
		Dimensions:    1536,
		TopK:          1,
		CandidatePool: 120,
		IndexName:     "vector_index",
		VectorPath:    "text_embeddings",
	}
}
