package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtraction indicates a document could not be decoded into text.
	// The index is left unchanged.
	ErrExtraction = errors.New("extraction failed")

	// ErrNoIndex indicates a query against a vector index that was never built.
	ErrNoIndex = errors.New("no index built")

	// ErrNoDocumentIndexed indicates a query-type operation was invoked before
	// any document was processed.
	ErrNoDocumentIndexed = errors.New("no document indexed")

	// ErrUnsupportedSource indicates a source/mode mismatch, e.g. a URL
	// while offline.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrRemote indicates the remote document service failed.
	ErrRemote = errors.New("remote service error")

	// ErrProvider indicates the embedding or generation backend failed.
	// Unlike ErrRemote it can occur in offline mode.
	ErrProvider = errors.New("provider error")

	// ErrProcessing wraps any failure of document processing.
	ErrProcessing = errors.New("processing failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// RemoteError carries the diagnostics of a failed remote call.
// StatusCode is zero when the request never produced a response.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

// Error implements error.
func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("remote %s: %v", e.Endpoint, e.Err)
		}
		return fmt.Sprintf("remote %s: no response", e.Endpoint)
	}
	return fmt.Sprintf("remote %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Is matches ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// Unwrap returns the transport error, if any.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// userMessages maps error kinds to stable, user-presentable messages.
var userMessages = map[error]string{
	ErrNoDocumentIndexed: "please upload a document first",
	ErrNoIndex:           "please upload a document first",
	ErrExtraction:        "the document could not be read",
	ErrUnsupportedSource: "this source is only supported in online mode",
	ErrRemote:            "the document service could not complete the request",
	ErrProvider:          "the language model could not complete the request",
	ErrInvalidInput:      "the request was invalid",
	ErrProcessing:        "the document could not be processed",
}

// Error is the error returned across the orchestration boundary.
// Its message is stable and safe to show; the raw cause is not included.
// errors.Is matches every kind in Kinds, and errors.As finds Remote.
type Error struct {
	// Op names the failed operation, e.g. "process_document".
	Op string

	// Kinds holds the taxonomy sentinels this error matches, most general first.
	Kinds []error

	// Message is the user-presentable message.
	Message string

	// Remote holds the remote diagnostics, when the remote service failed.
	Remote *RemoteError
}

// NewError builds an Error for op. The message is chosen from the most
// specific (last) kind.
func NewError(op string, kinds ...error) *Error {
	msg := "the request failed"
	for i := len(kinds) - 1; i >= 0; i-- {
		if m, ok := userMessages[kinds[i]]; ok {
			msg = m
			break
		}
	}
	return &Error{Op: op, Kinds: kinds, Message: msg}
}

// Error implements error.
func (e *Error) Error() string {
	if e.Remote != nil && e.Remote.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Remote.StatusCode)
	}
	return e.Message
}

// Unwrap exposes the kinds and remote diagnostics to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Kinds)+1)
	errs = append(errs, e.Kinds...)
	if e.Remote != nil {
		errs = append(errs, e.Remote)
	}
	return errs
}

// Kind returns the most specific kind, or nil.
func (e *Error) Kind() error {
	if len(e.Kinds) == 0 {
		return nil
	}
	return e.Kinds[len(e.Kinds)-1]
}
