package domain

import (
	"fmt"
	"strings"
)

// SourceKind identifies how a document was supplied.
type SourceKind string

// Available source kinds.
const (
	// SourceKindFile is a binary document (PDF bytes).
	SourceKindFile SourceKind = "file"

	// SourceKindURL is a remote location, e.g. a YouTube link.
	// Only the remote service can ingest URLs.
	SourceKindURL SourceKind = "url"
)

// Source is an opaque document input. It is not retained after processing;
// only the derived text and index survive.
type Source struct {
	// Kind selects between file content and URL.
	Kind SourceKind

	// Name is the original file name, used for titles and multipart uploads.
	Name string

	// Content holds the raw bytes for file sources.
	Content []byte

	// URL holds the location for URL sources.
	URL string
}

// FileSource builds a file source from a name and its bytes.
func FileSource(name string, content []byte) Source {
	return Source{Kind: SourceKindFile, Name: name, Content: content}
}

// URLSource builds a URL source.
func URLSource(url string) Source {
	return Source{Kind: SourceKindURL, Name: url, URL: url}
}

// IsURL returns true if the source is a URL.
func (s Source) IsURL() bool {
	return s.Kind == SourceKindURL
}

// Validate checks that the source carries the data its kind requires.
func (s Source) Validate() error {
	switch s.Kind {
	case SourceKindFile:
		if len(s.Content) == 0 {
			return fmt.Errorf("%w: file source %q is empty", ErrInvalidInput, s.Name)
		}
	case SourceKindURL:
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("%w: url source has no url", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidInput, s.Kind)
	}
	return nil
}

// Chunk is a bounded text segment produced by splitting extracted text.
// Chunks are produced in reading order; Position is the ordinal and carries
// no page reference.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the document.
	Position int
}

// ScoredChunk is a chunk returned by similarity search.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity to the query.
	Score float64
}
