package driving

import (
	"context"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// Explorer is the single entry point the presentation layer uses.
// Every method routes to the remote service or the local pipeline
// according to the configured mode and current connectivity.
//
// Errors are *domain.Error values whose message is safe to show to a user.
type Explorer interface {
	// ProcessDocument ingests a file or URL and returns its graph.
	ProcessDocument(ctx context.Context, src domain.Source) (*domain.ProcessResult, error)

	// AskQuestion answers a chat question within a conversation.
	AskQuestion(ctx context.Context, conversationID, question string) (*domain.AskResult, error)

	// GetSummary summarises a topic or a clicked graph node.
	GetSummary(ctx context.Context, req domain.SummaryRequest) (*domain.SummaryResult, error)

	// SummarizeWholeDocument summarises a whole document.
	SummarizeWholeDocument(ctx context.Context, src domain.Source) (*domain.SummaryResult, error)

	// UseDocument sets the remote document used by later questions and
	// summaries, e.g. one processed by an earlier invocation.
	UseDocument(documentID string)

	// SetMode sets the configured mode. It is idempotent.
	SetMode(online bool)

	// Mode returns the configured mode.
	Mode() domain.Mode

	// Route returns the backend the next call would use.
	Route(ctx context.Context) domain.Route
}
