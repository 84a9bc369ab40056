// Package tfidf provides a fully local TF-IDF embedding service.
//
// The vector space is the vocabulary of the fitted corpus, so an embedder
// must be fitted before it can embed. Fit never mutates the receiver; it
// returns a new embedder, so vectors produced by an earlier fit remain
// comparable with queries embedded by that same earlier embedder.
package tfidf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

// ModelName is reported by every TF-IDF embedder.
const ModelName = "tfidf"

// ErrNotFitted is returned when embedding with an unfitted embedder.
var ErrNotFitted = errors.New("tfidf embedder not fitted")

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Verify interface compliance.
var (
	_ driven.EmbeddingService = (*EmbeddingService)(nil)
	_ driven.CorpusFitter     = (*EmbeddingService)(nil)
)

// EmbeddingService computes L2-normalised TF-IDF vectors with smoothed IDF.
type EmbeddingService struct {
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
}

// New creates an unfitted TF-IDF embedder.
func New() *EmbeddingService {
	return &EmbeddingService{stopwords: defaultStopwords()}
}

// Fit builds the vocabulary and IDF values from texts and returns a fitted
// embedder. The receiver is left unchanged.
func (s *EmbeddingService) Fit(ctx context.Context, texts []string) (driven.EmbeddingService, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", domain.ErrInvalidInput)
	}

	df := make(map[string]int)
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		for _, tok := range s.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: no tokens found in corpus", domain.ErrInvalidInput)
	}

	fitted := &EmbeddingService{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		stopwords:  s.stopwords,
	}
	n := float64(len(texts))
	for i, term := range terms {
		fitted.vocabulary[term] = i
		// Smoothed IDF
		fitted.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return fitted, nil
}

// Embed computes the TF-IDF vector for text. Text with no known terms
// yields the zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if len(s.idf) == 0 {
		return nil, ErrNotFitted
	}

	tf := make(map[int]int)
	total := 0
	for _, tok := range s.tokenize(text) {
		if idx, ok := s.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}

	vec := make([]float32, len(s.idf))
	if total == 0 {
		return vec, nil
	}

	weights := make([]float64, len(s.idf))
	norm := 0.0
	for idx, count := range tf {
		w := float64(count) / float64(total) * s.idf[idx]
		weights[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i, w := range weights {
		vec[i] = float32(w / norm)
	}
	return vec, nil
}

// EmbedBatch embeds each text in turn.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the vocabulary size, or zero before fitting.
func (s *EmbeddingService) Dimensions() int {
	return len(s.idf)
}

// ModelName returns the model identifier.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds; the embedder runs in-process.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so",
		"such", "into", "about", "between", "through", "during", "before", "after", "above", "below",
		"out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"shall", "may", "any", "all", "each", "its", "which", "who", "what", "does", "do",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
