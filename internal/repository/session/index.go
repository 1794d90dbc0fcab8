package session

import (
	"github.com/kailas-cloud/docchat/internal/db"
)

// buildIndex creates the per-session chunk index definition.
// Every chunk hash carries the embedding vector plus chunk_index,
// char_start and char_end for ordering and provenance.
func buildIndex(id string, vectorDim int, hnsw HNSWConfig) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName(id),
		Prefixes: []string{chunkPrefix(id)},
		Fields: []db.IndexField{
			{
				Name: "chunk_index",
				Type: db.IndexFieldNumeric,
			},
			{
				Name:              "__vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}
}
