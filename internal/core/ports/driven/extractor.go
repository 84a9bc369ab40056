package driven

import (
	"context"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// TextExtractor decodes a binary document into plain text.
// Implementations must be pure: the same bytes yield the same text.
type TextExtractor interface {
	// Extract returns the document text. Malformed, encrypted or empty
	// input fails with domain.ErrExtraction.
	Extract(ctx context.Context, content []byte) (string, error)
}

// Chunker splits text into overlapping chunks in reading order.
type Chunker interface {
	Split(text string) []domain.Chunk
}
