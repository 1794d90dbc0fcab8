package chunk

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/kailas-cloud/docchat/internal/domain/text"
)

// chunkToHash converts a chunk and its embedding into a flat map for HSET.
func chunkToHash(c text.Chunk, vector []float32) map[string]string {
	return map[string]string{
		"__content":   c.Text,
		"__vector":    vectorToBytes(vector),
		"chunk_index": strconv.Itoa(c.Index),
		"char_start":  strconv.Itoa(c.Start),
		"char_end":    strconv.Itoa(c.End),
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
