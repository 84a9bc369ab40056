package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/core/ports/driving"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// Ensure Router implements the interface.
var _ driving.Explorer = (*Router)(nil)

// DefaultConversationID is used when a caller does not name a conversation.
const DefaultConversationID = "default"

// Operation names reported in errors and logs.
const (
	OpProcessDocument   = "process_document"
	OpAskQuestion       = "ask_question"
	OpGetSummary        = "get_summary"
	OpSummarizeDocument = "summarize_document"
)

// errorKinds are the sentinels a lower-level error is classified into,
// in the order they are reported.
var errorKinds = []error{
	domain.ErrInvalidInput,
	domain.ErrUnsupportedSource,
	domain.ErrExtraction,
	domain.ErrNoDocumentIndexed,
	domain.ErrRemote,
	domain.ErrProvider,
	domain.ErrLLMUnavailable,
	domain.ErrEmbeddingUnavailable,
	context.DeadlineExceeded,
	context.Canceled,
}

// selectRoute is the routing rule: remote only when configured online and
// the remote service is reachable.
func selectRoute(configuredOnline, connected bool) domain.Route {
	if configuredOnline && connected {
		return domain.RouteRemote
	}
	return domain.RouteLocal
}

// Router sends each operation to the remote service or the local pipeline.
// It remembers the remote document id between calls and turns every
// failure into a *domain.Error.
type Router struct {
	local  driven.Backend
	remote driven.Backend
	probe  driven.ConnectivityProbe
	online atomic.Bool
	asks   *keyedQueue

	mu             sync.RWMutex
	remoteDocument string
}

// NewRouter creates a router in the given configured mode.
func NewRouter(local, remote driven.Backend, probe driven.ConnectivityProbe, online bool) *Router {
	r := &Router{
		local:  local,
		remote: remote,
		probe:  probe,
		asks:   newKeyedQueue(),
	}
	r.online.Store(online)
	return r
}

// SetMode sets the configured mode.
func (r *Router) SetMode(online bool) {
	if r.online.Swap(online) != online {
		logger.Info("mode set to %s", r.Mode())
	}
}

// Mode returns the configured mode.
func (r *Router) Mode() domain.Mode {
	if r.online.Load() {
		return domain.ModeOnline
	}
	return domain.ModeOffline
}

// Route returns the backend the next call would use. The probe is not
// consulted while configured offline.
func (r *Router) Route(ctx context.Context) domain.Route {
	if !r.online.Load() {
		return domain.RouteLocal
	}
	return selectRoute(true, r.probe.Connected(ctx))
}

// UseDocument sets the remote document used by later calls.
func (r *Router) UseDocument(documentID string) {
	r.mu.Lock()
	r.remoteDocument = strings.TrimSpace(documentID)
	r.mu.Unlock()
}

// RemoteDocument returns the active remote document id, or "".
func (r *Router) RemoteDocument() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remoteDocument
}

// ProcessDocument ingests src on the selected backend.
func (r *Router) ProcessDocument(ctx context.Context, src domain.Source) (*domain.ProcessResult, error) {
	if err := src.Validate(); err != nil {
		return nil, r.fail(OpProcessDocument, domain.RouteLocal, err)
	}

	route := r.Route(ctx)
	logger.Debug("%s %q via %s", OpProcessDocument, src.Name, route)

	if route == domain.RouteLocal && src.IsURL() {
		return nil, r.fail(OpProcessDocument, route, domain.ErrUnsupportedSource)
	}

	result, err := r.backend(route).ProcessDocument(ctx, src)
	if err != nil {
		return nil, r.fail(OpProcessDocument, route, err)
	}
	if route == domain.RouteRemote {
		r.UseDocument(result.DocumentID)
	} else {
		// The newest document is local; a remote one must not shadow it.
		r.UseDocument("")
	}
	return result, nil
}

// AskQuestion answers a question. Calls for one conversation run in the
// order they were made.
func (r *Router) AskQuestion(ctx context.Context, conversationID, question string) (*domain.AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, r.fail(OpAskQuestion, domain.RouteLocal, domain.ErrInvalidInput)
	}
	if conversationID == "" {
		conversationID = DefaultConversationID
	}

	release, err := r.asks.acquire(ctx, conversationID)
	if err != nil {
		return nil, r.fail(OpAskQuestion, domain.RouteLocal, err)
	}
	defer release()

	route, documentID, err := r.documentFor(r.Route(ctx), "")
	logger.Debug("%s in %q via %s", OpAskQuestion, conversationID, route)
	if err != nil {
		return nil, r.fail(OpAskQuestion, route, err)
	}

	result, err := r.backend(route).AskQuestion(ctx, conversationID, documentID, question)
	if err != nil {
		return nil, r.fail(OpAskQuestion, route, err)
	}
	if result.Sources == nil {
		result.Sources = []string{}
	}
	return result, nil
}

// GetSummary summarises a topic or a clicked graph node.
func (r *Router) GetSummary(ctx context.Context, req domain.SummaryRequest) (*domain.SummaryResult, error) {
	if strings.TrimSpace(req.EffectiveTopic()) == "" {
		return nil, r.fail(OpGetSummary, domain.RouteLocal, domain.ErrInvalidInput)
	}

	route, documentID, err := r.documentFor(r.Route(ctx), req.DocumentID)
	logger.Debug("%s %q via %s", OpGetSummary, req.EffectiveTopic(), route)
	if err != nil {
		return nil, r.fail(OpGetSummary, route, err)
	}

	result, err := r.backend(route).GetSummary(ctx, documentID, req)
	if err != nil {
		return nil, r.fail(OpGetSummary, route, err)
	}
	return result, nil
}

// SummarizeWholeDocument summarises src without retrieval.
func (r *Router) SummarizeWholeDocument(ctx context.Context, src domain.Source) (*domain.SummaryResult, error) {
	if err := src.Validate(); err != nil {
		return nil, r.fail(OpSummarizeDocument, domain.RouteLocal, err)
	}

	route := r.Route(ctx)
	logger.Debug("%s %q via %s", OpSummarizeDocument, src.Name, route)

	if route == domain.RouteLocal && src.IsURL() {
		return nil, r.fail(OpSummarizeDocument, route, domain.ErrUnsupportedSource)
	}

	result, err := r.backend(route).SummarizeWholeDocument(ctx, src)
	if err != nil {
		return nil, r.fail(OpSummarizeDocument, route, err)
	}
	return result, nil
}

func (r *Router) backend(route domain.Route) driven.Backend {
	if route == domain.RouteRemote {
		return r.remote
	}
	return r.local
}

// documentHolder is implemented by backends that track their own
// indexed document, like the offline pipeline.
type documentHolder interface {
	DocumentID() string
}

// documentFor resolves the backend and document a query targets. The
// local pipeline tracks its own document. A remote route without a remote
// document falls back to the local pipeline when it holds one, e.g. a
// file processed while the remote service was unreachable.
func (r *Router) documentFor(route domain.Route, requested string) (domain.Route, string, error) {
	if route == domain.RouteLocal {
		return route, requested, nil
	}
	if requested != "" {
		return route, requested, nil
	}
	if id := r.RemoteDocument(); id != "" {
		return route, id, nil
	}
	if h, ok := r.local.(documentHolder); ok && h.DocumentID() != "" {
		return domain.RouteLocal, "", nil
	}
	return route, "", domain.ErrNoDocumentIndexed
}

// fail logs the raw error and returns its user-facing classification.
func (r *Router) fail(op string, route domain.Route, err error) error {
	logger.Warn("%s via %s failed: %v", op, route, err)
	if route == domain.RouteRemote {
		r.reportUnreachable(err)
	}
	return classify(op, err)
}

// reportUnreachable marks the remote service down when a call got no
// response at all, so the next call falls back without waiting for the
// probe's cache to expire.
func (r *Router) reportUnreachable(err error) {
	reporter, ok := r.probe.(driven.ConnectivityReporter)
	if !ok || errors.Is(err, context.Canceled) {
		return
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.StatusCode == 0 {
		reporter.Report(false)
	}
}

// classify maps err onto the error taxonomy. Processing failures always
// carry ErrProcessing as well as their specific kind.
func classify(op string, err error) *domain.Error {
	var kinds []error
	if op == OpProcessDocument {
		kinds = append(kinds, domain.ErrProcessing)
	}
	if errors.Is(err, domain.ErrNoIndex) {
		kinds = append(kinds, domain.ErrNoDocumentIndexed)
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) && !slices.Contains(kinds, kind) {
			kinds = append(kinds, kind)
		}
	}

	e := domain.NewError(op, kinds...)
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		e.Remote = remote
	}
	return e
}
