package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// indexSnapshot is an immutable built index. Queries hold a pointer to one
// snapshot for their whole duration.
type indexSnapshot struct {
	chunks   []domain.Chunk
	vectors  [][]float32
	embedder driven.EmbeddingService
}

// VectorIndex is an in-memory similarity index over one document's chunks.
// Build replaces the whole index in a single atomic swap, so concurrent
// queries see either the old snapshot or the new one, never a mix.
type VectorIndex struct {
	embedder driven.EmbeddingService
	current  atomic.Pointer[indexSnapshot]
}

// NewVectorIndex creates an empty index that embeds with embedder.
func NewVectorIndex(embedder driven.EmbeddingService) *VectorIndex {
	return &VectorIndex{embedder: embedder}
}

// Build embeds chunks and replaces the index. On failure the previous
// index is left in place.
func (v *VectorIndex) Build(ctx context.Context, chunks []domain.Chunk) error {
	if v.embedder == nil {
		return fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrEmbeddingUnavailable)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrInvalidInput)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embedder := v.embedder
	if fitter, ok := embedder.(driven.CorpusFitter); ok {
		fitted, err := fitter.Fit(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: fit embedder: %w", domain.ErrProvider, err)
		}
		embedder = fitted
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed chunks: %w", domain.ErrProvider, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrProvider, len(vectors), len(chunks))
	}
	dims := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dims || dims == 0 {
			return fmt.Errorf("%w: embedding %d has %d dimensions, want %d",
				domain.ErrProvider, i, len(vec), dims)
		}
	}

	snap := &indexSnapshot{
		chunks:   append([]domain.Chunk(nil), chunks...),
		vectors:  vectors,
		embedder: embedder,
	}
	v.current.Store(snap)
	logger.Debug("vector index built: %d chunks, %d dimensions, model %s", len(chunks), dims, embedder.ModelName())
	return nil
}

// Query returns the k chunks most similar to text, best first. Equal
// scores keep document order.
func (v *VectorIndex) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	snap := v.current.Load()
	if snap == nil {
		return nil, domain.ErrNoIndex
	}
	if k <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	query, err := snap.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrProvider, err)
	}
	if len(query) != len(snap.vectors[0]) {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrProvider, len(query), len(snap.vectors[0]))
	}

	scored := make([]domain.ScoredChunk, len(snap.chunks))
	for i, c := range snap.chunks {
		scored[i] = domain.ScoredChunk{Chunk: c, Score: cosine(query, snap.vectors[i])}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Ready reports whether a build has succeeded.
func (v *VectorIndex) Ready() bool {
	return v.current.Load() != nil
}

// Len returns the number of indexed chunks.
func (v *VectorIndex) Len() int {
	snap := v.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.chunks)
}

// cosine returns the cosine similarity of a and b, or 0 when either is zero.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
