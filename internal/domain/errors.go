package domain

import "errors"

var (
	// ErrEmptyDocument signals a document with no extractable text after normalization.
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrInvalidChunkConfig signals chunking parameters that cannot make progress.
	ErrInvalidChunkConfig = errors.New("invalid chunk config")
	// ErrUnknownSession signals a session that was never ingested or already evicted.
	ErrUnknownSession = errors.New("unknown session")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a text generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
	// ErrSummarization signals a failed document summary.
	ErrSummarization = errors.New("summarization failed")
	// ErrRetrieval signals an unreachable store or malformed similarity query.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrExtraction signals an unreadable or text-free upload.
	ErrExtraction = errors.New("text extraction failed")
)
