package qa

// Retrieved is a chunk returned by similarity search. Score is a
// similarity in [0,1], higher is better.
type Retrieved struct {
	ChunkIndex int
	Text       string
	Score      float64
}
