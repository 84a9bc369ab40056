package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// mockExplorer is a mock implementation of driving.Explorer.
type mockExplorer struct {
	mu      sync.Mutex
	online  bool
	process *domain.ProcessResult
	answer  string
	sources []string
	summary string
	err     error

	conversations []string
	questions     []string
	summaries     []domain.SummaryRequest
	sourcesSeen   []domain.Source
}

func (m *mockExplorer) ProcessDocument(_ context.Context, src domain.Source) (*domain.ProcessResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourcesSeen = append(m.sourcesSeen, src)
	if m.err != nil {
		return nil, m.err
	}
	return m.process, nil
}

func (m *mockExplorer) AskQuestion(_ context.Context, conversationID, question string) (*domain.AskResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = append(m.conversations, conversationID)
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AskResult{Answer: m.answer, Sources: m.sources}, nil
}

func (m *mockExplorer) GetSummary(_ context.Context, req domain.SummaryRequest) (*domain.SummaryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SummaryResult{Summary: m.summary}, nil
}

func (m *mockExplorer) SummarizeWholeDocument(_ context.Context, src domain.Source) (*domain.SummaryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourcesSeen = append(m.sourcesSeen, src)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SummaryResult{Summary: m.summary}, nil
}

func (m *mockExplorer) UseDocument(string) {}

func (m *mockExplorer) SetMode(online bool) {
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()
}

func (m *mockExplorer) Mode() domain.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online {
		return domain.ModeOnline
	}
	return domain.ModeOffline
}

func (m *mockExplorer) Route(ctx context.Context) domain.Route {
	if m.Mode().IsOnline() {
		return domain.RouteRemote
	}
	return domain.RouteLocal
}

// mockSettings records SetMode calls.
type mockSettings struct {
	modes []domain.Mode
	err   error
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettings) Save(*domain.AppSettings) error { return nil }

func (m *mockSettings) SetMode(mode domain.Mode) error {
	if m.err != nil {
		return m.err
	}
	m.modes = append(m.modes, mode)
	return nil
}

func (m *mockSettings) SetEmbeddingProvider(domain.AIProvider, string, string) error { return nil }

func (m *mockSettings) SetLLMProvider(domain.AIProvider, string, string) error { return nil }

func (m *mockSettings) Validate() error { return nil }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettings) ValidateLLMConfig() error { return nil }

func leaseResult() *domain.ProcessResult {
	return &domain.ProcessResult{
		DocumentID: "doc-1",
		Title:      "Lease Agreement",
		Status:     domain.ProcessStatusSuccess,
		GraphData: &domain.GraphDescription{
			Nodes: []domain.GraphNode{
				{ID: "payment", Label: "PAYMENT"},
				{ID: "termination", Label: "TERMINATION"},
			},
			Edges: []domain.GraphEdge{{From: "payment", To: "termination"}},
		},
	}
}
