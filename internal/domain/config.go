package domain

// KeyPrefix namespaces every Redis key written by docchat.
const KeyPrefix = "docchat:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
	Algorithm      string
}

// DefaultVectorConfig returns the default configuration tuned for nomic-embed-text.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "nomic-embed-text",
		Dimensions:     768,
		DistanceMetric: "cosine",
		Algorithm:      "hnsw",
	}
}
