package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChat_SystemMessagesJoined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rules\n\ncontext", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, domain.RoleUser, req.Messages[0].Role)
		assert.Equal(t, 1024, req.MaxTokens)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Governed by "},{"type":"text","text":"Delaware law."}]}`))
	}))
	defer server.Close()

	s, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: domain.RoleSystem, Content: "rules"},
		{Role: domain.RoleSystem, Content: "context"},
		{Role: domain.RoleUser, Content: "Which law governs?"},
	}, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Governed by Delaware law.", out)
}

func TestGenerate_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer server.Close()

	s, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "500")
}
