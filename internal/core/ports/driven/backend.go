package driven

import (
	"context"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// Backend executes document operations. The offline pipeline and the
// remote client both implement it; the router chooses between them.
//
// Errors are returned raw. The router classifies them for the user.
type Backend interface {
	// ProcessDocument ingests a source and returns its id, title and graph.
	ProcessDocument(ctx context.Context, src domain.Source) (*domain.ProcessResult, error)

	// AskQuestion answers a question within a conversation about documentID.
	AskQuestion(ctx context.Context, conversationID, documentID, question string) (*domain.AskResult, error)

	// GetSummary summarises a topic or a clicked graph node.
	GetSummary(ctx context.Context, documentID string, req domain.SummaryRequest) (*domain.SummaryResult, error)

	// SummarizeWholeDocument summarises a whole document without retrieval.
	SummarizeWholeDocument(ctx context.Context, src domain.Source) (*domain.SummaryResult, error)
}
