package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// mockExplorer is a mock implementation of driving.Explorer.
type mockExplorer struct {
	online  bool
	process *domain.ProcessResult
	ask     *domain.AskResult
	summary *domain.SummaryResult
	err     error

	processed   []domain.Source
	askedChat   string
	question    string
	summaryReq  domain.SummaryRequest
	usedDoc     string
	summarized  []domain.Source
	setModeCall []bool
}

func (m *mockExplorer) ProcessDocument(_ context.Context, src domain.Source) (*domain.ProcessResult, error) {
	m.processed = append(m.processed, src)
	if m.err != nil {
		return nil, m.err
	}
	return m.process, nil
}

func (m *mockExplorer) AskQuestion(_ context.Context, conversationID, question string) (*domain.AskResult, error) {
	m.askedChat = conversationID
	m.question = question
	if m.err != nil {
		return nil, m.err
	}
	return m.ask, nil
}

func (m *mockExplorer) GetSummary(_ context.Context, req domain.SummaryRequest) (*domain.SummaryResult, error) {
	m.summaryReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockExplorer) SummarizeWholeDocument(_ context.Context, src domain.Source) (*domain.SummaryResult, error) {
	m.summarized = append(m.summarized, src)
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockExplorer) UseDocument(id string) { m.usedDoc = id }

func (m *mockExplorer) SetMode(online bool) {
	m.online = online
	m.setModeCall = append(m.setModeCall, online)
}

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

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	modes       []domain.Mode
	embedding   []string
	llm         []string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) SetMode(mode domain.Mode) error {
	m.modes = append(m.modes, mode)
	m.settings.Mode.Online = mode.IsOnline()
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, key string) error {
	m.embedding = []string{string(p), model, key}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, key string) error {
	m.llm = []string{string(p), model, key}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// testExplorer and testSettings are the mocks installed by setupTestServices.
var (
	testExplorer *mockExplorer
	testSettings *mockSettingsService
)

// setupTestServices installs mock services and returns a cleanup that
// restores globals and flag values.
func setupTestServices() func() {
	testExplorer = &mockExplorer{
		online: true,
		process: &domain.ProcessResult{
			DocumentID: "doc-1",
			Title:      "Lease Agreement",
			Status:     domain.ProcessStatusSuccess,
			GraphData: &domain.GraphDescription{
				Nodes: []domain.GraphNode{{ID: "payment", Label: "PAYMENT"}},
				Edges: []domain.GraphEdge{},
			},
		},
		ask:     &domain.AskResult{Answer: "Thirty days.", Sources: []string{}},
		summary: &domain.SummaryResult{Summary: "Rent is paid monthly."},
	}
	testSettings = &mockSettingsService{settings: domain.DefaultAppSettings()}

	explorer = testExplorer
	settingsService = testSettings
	services = nil
	bootstrap = nil

	return func() {
		explorer = nil
		settingsService = nil
		services = nil
		bootstrap = nil
		flagJSON = false
		flagOffline = false
		flagVerbose = false
		flagConfig = ""
		askChat = "default"
		askFile = ""
		askDoc = ""
		summaryNode = ""
		summaryFile = ""
		summaryDoc = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lease.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
	return path
}
