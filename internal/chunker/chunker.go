// Package chunker splits extracted text into fixed-size overlapping chunks.
package chunker

import (
	"strconv"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Verify interface compliance.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits text into windows of chunkSize characters, each starting
// chunkSize-overlap characters after the previous one.
// Sizes count runes, so multi-byte text is never split inside a character.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the effective overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split splits text into chunks in reading order.
// Empty text produces no chunks. Text no longer than the chunk size
// produces exactly one chunk.
func (c *Chunker) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, n/step+1)

	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > n {
			end = n
		}

		chunks = append(chunks, domain.Chunk{
			ID:       "chunk-" + strconv.Itoa(len(chunks)),
			Text:     string(runes[start:end]),
			Position: len(chunks),
		})

		// The last window reached the end; another would only repeat overlap.
		if end == n {
			break
		}
	}

	return chunks
}
