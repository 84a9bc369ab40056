package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

func TestProcessCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestProcessCmd_File(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "process", writePDF(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Processed: Lease Agreement")
	assert.Contains(t, out, "Document:  doc-1")
	assert.Contains(t, out, "PAYMENT")

	require.Len(t, testExplorer.processed, 1)
	assert.Equal(t, "lease.pdf", testExplorer.processed[0].Name)
}

func TestProcessCmd_URL(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "process", "https://youtu.be/abc")
	require.NoError(t, err)
	require.Len(t, testExplorer.processed, 1)
	assert.True(t, testExplorer.processed[0].IsURL())
}

func TestProcessCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "process", "--json", writePDF(t))
	require.NoError(t, err)

	var result domain.ProcessResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Equal(t, []string{"PAYMENT"}, result.GraphData.Labels())
}

func TestProcessCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "process", "/nonexistent/lease.pdf")
	require.Error(t, err)
	assert.Empty(t, testExplorer.processed)
}

func TestSummarizeCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "summarize", writePDF(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Rent is paid monthly.")
	assert.Len(t, testExplorer.summarized, 1)
}

func TestSummaryCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		check   func(t *testing.T, req domain.SummaryRequest)
		wantErr bool
	}{
		{
			name: "topic",
			args: func(*testing.T) []string { return []string{"summary", "payment"} },
			check: func(t *testing.T, req domain.SummaryRequest) {
				assert.Equal(t, "payment", req.Topic)
				assert.False(t, req.IsContextual())
			},
		},
		{
			name: "node after processing file",
			args: func(t *testing.T) []string {
				return []string{"summary", "--node", "payment", "--file", writePDF(t)}
			},
			check: func(t *testing.T, req domain.SummaryRequest) {
				assert.Equal(t, "payment", req.ClickedNodeID)
				assert.Equal(t, "PAYMENT", req.EffectiveTopic())
			},
		},
		{
			name: "remote document",
			args: func(*testing.T) []string { return []string{"summary", "termination", "--doc", "nerv"} },
			check: func(t *testing.T, req domain.SummaryRequest) {
				assert.Equal(t, "nerv", req.DocumentID)
				assert.Equal(t, "nerv", testExplorer.usedDoc)
			},
		},
		{
			name:    "neither topic nor node",
			args:    func(*testing.T) []string { return []string{"summary"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()

			out, err := execute(t, tt.args(t)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Rent is paid monthly.")
			tt.check(t, testExplorer.summaryReq)
		})
	}
}
