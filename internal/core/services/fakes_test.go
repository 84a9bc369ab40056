package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

// letterEmbedder embeds text as letter frequencies. Texts sharing letters
// are similar, which is enough to steer retrieval in tests.
type letterEmbedder struct {
	err   error
	dims  int
	calls atomic.Int32
}

func (e *letterEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return letters(text, e.dims), nil
}

func (e *letterEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letters(t, e.dims)
	}
	return out, nil
}

func (e *letterEmbedder) Dimensions() int { return 26 }
func (e *letterEmbedder) ModelName() string { return "letters" }
func (e *letterEmbedder) Ping(context.Context) error { return nil }
func (e *letterEmbedder) Close() error { return nil }

func letters(text string, dims int) []float32 {
	if dims == 0 {
		dims = 26
	}
	v := make([]float32, dims)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' && int(r-'a') < dims {
			v[r-'a']++
		}
	}
	return v
}

// fakeLLM records prompts and returns canned answers.
type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	prompts  []string
	messages [][]driven.ChatMessage
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string { return "fake" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) lastMessages() []driven.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return nil
	}
	return f.messages[len(f.messages)-1]
}

// textExtractor treats the content bytes as the document text.
type textExtractor struct {
	err error
}

func (e textExtractor) Extract(_ context.Context, content []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return string(content), nil
}

// fakeBackend counts calls and returns canned results.
type fakeBackend struct {
	mu         sync.Mutex
	calls      map[string]int
	documentID string
	err        error
	answer     string
	lastDocID  string
}

func newFakeBackend(documentID string) *fakeBackend {
	return &fakeBackend{calls: make(map[string]int), documentID: documentID, answer: "answer"}
}

func (b *fakeBackend) record(op, documentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	b.lastDocID = documentID
	return b.err
}

func (b *fakeBackend) count(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *fakeBackend) ProcessDocument(_ context.Context, _ domain.Source) (*domain.ProcessResult, error) {
	if err := b.record(OpProcessDocument, ""); err != nil {
		return nil, err
	}
	return &domain.ProcessResult{DocumentID: b.documentID, Status: domain.ProcessStatusSuccess}, nil
}

func (b *fakeBackend) AskQuestion(_ context.Context, _, documentID, _ string) (*domain.AskResult, error) {
	if err := b.record(OpAskQuestion, documentID); err != nil {
		return nil, err
	}
	return &domain.AskResult{Answer: b.answer}, nil
}

func (b *fakeBackend) GetSummary(_ context.Context, documentID string, _ domain.SummaryRequest) (*domain.SummaryResult, error) {
	if err := b.record(OpGetSummary, documentID); err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: "summary"}, nil
}

func (b *fakeBackend) SummarizeWholeDocument(_ context.Context, _ domain.Source) (*domain.SummaryResult, error) {
	if err := b.record(OpSummarizeDocument, ""); err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: "whole"}, nil
}

// stubConnectivity reports a fixed state and counts how often it was asked.
type stubConnectivity struct {
	connected bool
	calls     atomic.Int32
}

func (p *stubConnectivity) Connected(context.Context) bool {
	p.calls.Add(1)
	return p.connected
}

// reportingConnectivity is a stubConnectivity that also records reports.
type reportingConnectivity struct {
	stubConnectivity
	mu      sync.Mutex
	reports []bool
}

func (p *reportingConnectivity) Connected(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stubConnectivity.Connected(ctx)
}

func (p *reportingConnectivity) Report(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, connected)
	p.connected = connected
}
