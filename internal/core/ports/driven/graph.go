package driven

import "github.com/custodia-labs/lexmap/internal/core/domain"

// GraphDeriver derives a presentational graph from document text.
// It is total: every input, including empty text, yields a non-empty graph.
type GraphDeriver interface {
	Derive(text string) *domain.GraphDescription
}
