package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// Ensure OfflinePipeline implements the backend interface.
var _ driven.Backend = (*OfflinePipeline)(nil)

// Defaults for the offline pipeline.
const (
	DefaultTopK        = 4
	DefaultCallTimeout = 120 * time.Second
)

// TitleFunc derives a document title from its text and file name.
type TitleFunc func(text, name string) string

// OfflinePipeline answers every operation in-process: extraction,
// chunking, embedding, retrieval and generation. It owns one vector index
// and one conversation store; processing a new document replaces the index.
type OfflinePipeline struct {
	extractor     driven.TextExtractor
	chunker       driven.Chunker
	index         *VectorIndex
	llm           driven.LLMService
	graph         driven.GraphDeriver
	prompts       promptBuilder
	conversations *ConversationStore

	topK        int
	callTimeout time.Duration
	title       TitleFunc

	mu         sync.RWMutex
	documentID string
}

// NewOfflinePipeline creates a pipeline. llm may be nil, in which case
// processing still works but every generation call fails.
func NewOfflinePipeline(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	index *VectorIndex,
	llm driven.LLMService,
	graph driven.GraphDeriver,
	prompts driven.PromptStore,
	conversations *ConversationStore,
) *OfflinePipeline {
	return &OfflinePipeline{
		extractor:     extractor,
		chunker:       chunker,
		index:         index,
		llm:           llm,
		graph:         graph,
		prompts:       promptBuilder{store: prompts},
		conversations: conversations,
		topK:          DefaultTopK,
		callTimeout:   DefaultCallTimeout,
		title:         func(_, name string) string { return name },
	}
}

// SetTopK sets the number of chunks retrieved per question.
func (p *OfflinePipeline) SetTopK(k int) {
	if k > 0 {
		p.topK = k
	}
}

// SetCallTimeout bounds each embedding and generation call.
func (p *OfflinePipeline) SetCallTimeout(d time.Duration) {
	if d > 0 {
		p.callTimeout = d
	}
}

// SetTitleFunc sets how titles are derived from extracted text.
func (p *OfflinePipeline) SetTitleFunc(fn TitleFunc) {
	if fn != nil {
		p.title = fn
	}
}

// DocumentID returns the id of the indexed document, or "".
func (p *OfflinePipeline) DocumentID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.documentID
}

// Conversations returns the pipeline's conversation store.
func (p *OfflinePipeline) Conversations() *ConversationStore {
	return p.conversations
}

// ProcessDocument extracts, chunks and indexes a file and derives its graph.
// A failure at any stage leaves the previous index in place.
func (p *OfflinePipeline) ProcessDocument(ctx context.Context, src domain.Source) (*domain.ProcessResult, error) {
	logger.Section("Offline Processing")

	text, err := p.extract(ctx, src)
	if err != nil {
		return nil, err
	}

	chunks := p.chunker.Split(text)
	logger.Debug("split %q into %d chunks", src.Name, len(chunks))

	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	if err := p.index.Build(callCtx, chunks); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	id := uuid.NewString()
	p.mu.Lock()
	p.documentID = id
	p.mu.Unlock()

	result := &domain.ProcessResult{
		DocumentID: id,
		Title:      p.title(text, src.Name),
		Status:     domain.ProcessStatusSuccess,
		GraphData:  p.graph.Derive(text),
	}
	logger.Info("processed %q as %s: %d chunks, %d graph nodes",
		src.Name, id, len(chunks), len(result.GraphData.Nodes))
	return result, nil
}

// AskQuestion answers from the indexed document, replaying the
// conversation's recent turns. documentID is ignored: the pipeline holds
// one document.
func (p *OfflinePipeline) AskQuestion(
	ctx context.Context, conversationID, _ string, question string,
) (*domain.AskResult, error) {
	logger.Section("Offline Question")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if !p.index.Ready() {
		return nil, domain.ErrNoIndex
	}
	if p.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrLLMUnavailable)
	}

	turn, err := p.conversations.Turn(ctx, conversationID,
		func(ctx context.Context, history []domain.ConversationTurn) (domain.ConversationTurn, error) {
			chunks, err := p.retrieve(ctx, question)
			if err != nil {
				return domain.ConversationTurn{}, err
			}
			messages, err := p.prompts.chat(history, chunks, question)
			if err != nil {
				return domain.ConversationTurn{}, err
			}
			logger.Debug("chat with %d history turns, %d excerpts", len(history), len(chunks))

			callCtx, cancel := p.callContext(ctx)
			defer cancel()
			answer, err := p.llm.Chat(callCtx, messages, driven.ChatOptions{})
			if err != nil {
				return domain.ConversationTurn{}, providerError("chat", err)
			}
			return domain.ConversationTurn{Human: question, AI: answer}, nil
		})
	if err != nil {
		return nil, err
	}

	return &domain.AskResult{Answer: turn.AI, Sources: []string{}}, nil
}

// GetSummary summarises what the document says about a topic or a clicked
// graph node, using only retrieved excerpts.
func (p *OfflinePipeline) GetSummary(
	ctx context.Context, _ string, req domain.SummaryRequest,
) (*domain.SummaryResult, error) {
	logger.Section("Offline Topic Summary")

	topic := strings.TrimSpace(req.EffectiveTopic())
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", domain.ErrInvalidInput)
	}
	if !p.index.Ready() {
		return nil, domain.ErrNoIndex
	}
	if p.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrLLMUnavailable)
	}

	chunks, err := p.retrieve(ctx, topic)
	if err != nil {
		return nil, err
	}
	prompt, err := p.prompts.topicSummary(chunks, topic)
	if err != nil {
		return nil, err
	}
	logger.Debug("summarising topic %q from %d excerpts", topic, len(chunks))

	summary, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: summary}, nil
}

// SummarizeWholeDocument summarises the full text of src. It does not read
// or modify the index.
func (p *OfflinePipeline) SummarizeWholeDocument(ctx context.Context, src domain.Source) (*domain.SummaryResult, error) {
	logger.Section("Offline Document Summary")

	text, err := p.extract(ctx, src)
	if err != nil {
		return nil, err
	}
	if p.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrLLMUnavailable)
	}

	prompt, err := p.prompts.documentSummary(text)
	if err != nil {
		return nil, err
	}
	summary, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: summary}, nil
}

func (p *OfflinePipeline) extract(ctx context.Context, src domain.Source) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	if src.IsURL() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, src.URL)
	}

	text, err := p.extractor.Extract(ctx, src.Content)
	if err != nil {
		if errors.Is(err, domain.ErrExtraction) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %q contains no text", domain.ErrExtraction, src.Name)
	}
	logger.Debug("extracted %d characters from %q", len(text), src.Name)
	return text, nil
}

func (p *OfflinePipeline) retrieve(ctx context.Context, query string) ([]domain.ScoredChunk, error) {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	return p.index.Query(callCtx, query, p.topK)
}

func (p *OfflinePipeline) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	out, err := p.llm.Generate(callCtx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", providerError("generate", err)
	}
	return out, nil
}

func (p *OfflinePipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.callTimeout)
}

// providerError marks err as a provider failure exactly once.
func providerError(op string, err error) error {
	if errors.Is(err, domain.ErrProvider) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrProvider, op, err)
}
