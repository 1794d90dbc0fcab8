// Package qa holds the question-answering value objects shared between the
// ask orchestrator and the transport layer.
package qa

// Source is a provenance record: one retrieved chunk that was supplied to
// the generation service as context.
type Source struct {
	ChunkIndex int
	Text       string
}

// Answer is the result of one question against a session. Sources list the
// chunks actually used to build the prompt, in retrieval order (best first).
type Answer struct {
	Text    string
	Sources []Source
}

// Grounded reports whether the answer was produced from retrieved context
// rather than the no-information short-circuit.
func (a *Answer) Grounded() bool { return len(a.Sources) > 0 }
