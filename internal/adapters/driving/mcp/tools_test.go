package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

func newTestServer(t *testing.T, explorer *mockExplorer, settings *mockSettings) *Server {
	t.Helper()
	ports := &Ports{Explorer: explorer}
	if settings != nil {
		ports.Settings = settings
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lease.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
	return path
}

func TestServer_handleProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("returns graph and remembers it", func(t *testing.T) {
		explorer := &mockExplorer{process: &domain.ProcessResult{
			DocumentID: "doc-1",
			Title:      "Lease",
			Status:     domain.ProcessStatusSuccess,
			GraphData:  sampleGraph(),
		}}
		server := newTestServer(t, explorer, nil)

		_, output, err := server.handleProcess(ctx, nil, ProcessInput{Source: writePDF(t)})
		require.NoError(t, err)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, "success", output.Status)
		assert.Equal(t, "lease.pdf", explorer.lastSource.Name)
		assert.Same(t, explorer.process.GraphData, server.lastGraph())
	})

	t.Run("url passes through", func(t *testing.T) {
		explorer := &mockExplorer{process: &domain.ProcessResult{DocumentID: "nerv"}}
		server := newTestServer(t, explorer, nil)

		_, _, err := server.handleProcess(ctx, nil, ProcessInput{Source: "https://youtu.be/abc"})
		require.NoError(t, err)
		assert.True(t, explorer.lastSource.IsURL())
	})

	t.Run("missing file", func(t *testing.T) {
		server := newTestServer(t, &mockExplorer{}, nil)
		_, _, err := server.handleProcess(ctx, nil, ProcessInput{Source: "/nonexistent/x.pdf"})
		require.Error(t, err)
	})

	t.Run("explorer error", func(t *testing.T) {
		explorer := &mockExplorer{err: domain.NewError("process_document", domain.ErrProcessing, domain.ErrExtraction)}
		server := newTestServer(t, explorer, nil)

		_, _, err := server.handleProcess(ctx, nil, ProcessInput{Source: writePDF(t)})
		assert.ErrorIs(t, err, domain.ErrExtraction)
		assert.Nil(t, server.lastGraph())
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	explorer := &mockExplorer{ask: &domain.AskResult{Answer: "30 days"}}
	server := newTestServer(t, explorer, nil)

	_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "notice period?"})
	require.NoError(t, err)
	assert.Equal(t, "30 days", output.Answer)
	assert.Equal(t, []string{}, output.Sources)
	assert.Equal(t, defaultConversation, explorer.lastConv)

	_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "and rent?", ConversationID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", explorer.lastConv)
	assert.Equal(t, "and rent?", explorer.lastQuestion)
}

func TestServer_handleSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("topic", func(t *testing.T) {
		explorer := &mockExplorer{summary: &domain.SummaryResult{Summary: "Rent is due monthly."}}
		server := newTestServer(t, explorer, nil)

		_, output, err := server.handleSummary(ctx, nil, SummaryInput{Topic: "payment", DocumentID: "nerv"})
		require.NoError(t, err)
		assert.Equal(t, "Rent is due monthly.", output.Summary)
		assert.Equal(t, "payment", explorer.lastSummary.Topic)
		assert.Equal(t, "nerv", explorer.lastSummary.DocumentID)
		assert.False(t, explorer.lastSummary.IsContextual())
	})

	t.Run("node uses last graph", func(t *testing.T) {
		explorer := &mockExplorer{
			process: &domain.ProcessResult{GraphData: sampleGraph()},
			summary: &domain.SummaryResult{Summary: "ok"},
		}
		server := newTestServer(t, explorer, nil)
		_, _, err := server.handleProcess(ctx, nil, ProcessInput{Source: writePDF(t)})
		require.NoError(t, err)

		_, _, err = server.handleSummary(ctx, nil, SummaryInput{NodeID: "payment"})
		require.NoError(t, err)
		assert.Equal(t, "payment", explorer.lastSummary.ClickedNodeID)
		assert.Equal(t, "PAYMENT", explorer.lastSummary.EffectiveTopic())
	})
}

func TestServer_handleSummarize(t *testing.T) {
	explorer := &mockExplorer{summary: &domain.SummaryResult{Summary: "A lease."}}
	server := newTestServer(t, explorer, nil)

	_, output, err := server.handleSummarize(context.Background(), nil, SummarizeInput{Source: writePDF(t)})
	require.NoError(t, err)
	assert.Equal(t, "A lease.", output.Summary)
	assert.Equal(t, "lease.pdf", explorer.lastSource.Name)
}

func TestServer_handleSetMode(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and applies", func(t *testing.T) {
		explorer := &mockExplorer{online: true}
		settings := &mockSettings{}
		server := newTestServer(t, explorer, settings)

		_, output, err := server.handleSetMode(ctx, nil, ModeInput{Online: false})
		require.NoError(t, err)
		assert.Equal(t, "offline", output.Mode)
		assert.Equal(t, "local", output.Route)
		assert.Equal(t, domain.ModeOffline, settings.mode)
	})

	t.Run("settings failure leaves mode", func(t *testing.T) {
		explorer := &mockExplorer{online: true}
		server := newTestServer(t, explorer, &mockSettings{err: assert.AnError})

		_, _, err := server.handleSetMode(ctx, nil, ModeInput{Online: false})
		require.Error(t, err)
		assert.True(t, explorer.online)
	})
}
