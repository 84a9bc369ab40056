package mcp

import (
	"context"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// mockExplorer is a mock implementation of driving.Explorer.
type mockExplorer struct {
	online  bool
	process *domain.ProcessResult
	ask     *domain.AskResult
	summary *domain.SummaryResult
	err     error

	lastSource   domain.Source
	lastConv     string
	lastQuestion string
	lastSummary  domain.SummaryRequest
}

func (m *mockExplorer) ProcessDocument(_ context.Context, src domain.Source) (*domain.ProcessResult, error) {
	m.lastSource = src
	return m.process, m.err
}

func (m *mockExplorer) AskQuestion(_ context.Context, conversationID, question string) (*domain.AskResult, error) {
	m.lastConv = conversationID
	m.lastQuestion = question
	return m.ask, m.err
}

func (m *mockExplorer) GetSummary(_ context.Context, req domain.SummaryRequest) (*domain.SummaryResult, error) {
	m.lastSummary = req
	return m.summary, m.err
}

func (m *mockExplorer) SummarizeWholeDocument(_ context.Context, src domain.Source) (*domain.SummaryResult, error) {
	m.lastSource = src
	return m.summary, m.err
}

func (m *mockExplorer) UseDocument(string) {}

func (m *mockExplorer) SetMode(online bool) { m.online = online }

func (m *mockExplorer) Mode() domain.Mode {
	if m.online {
		return domain.ModeOnline
	}
	return domain.ModeOffline
}

func (m *mockExplorer) Route(context.Context) domain.Route {
	if m.online {
		return domain.RouteRemote
	}
	return domain.RouteLocal
}

// mockSettings records SetMode calls.
type mockSettings struct {
	mode domain.Mode
	err  error
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, m.err
}

func (m *mockSettings) Save(*domain.AppSettings) error { return m.err }

func (m *mockSettings) SetMode(mode domain.Mode) error {
	if m.err != nil {
		return m.err
	}
	m.mode = mode
	return nil
}

func (m *mockSettings) SetEmbeddingProvider(domain.AIProvider, string, string) error { return m.err }

func (m *mockSettings) SetLLMProvider(domain.AIProvider, string, string) error { return m.err }

func (m *mockSettings) Validate() error { return m.err }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettings) ValidateLLMConfig() error { return m.err }

func sampleGraph() *domain.GraphDescription {
	return &domain.GraphDescription{
		Nodes: []domain.GraphNode{
			{ID: "document", Label: "Lease"},
			{ID: "payment", Label: "PAYMENT"},
		},
		Edges: []domain.GraphEdge{{From: "document", To: "payment"}},
	}
}
