package keyword

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

func TestDerive_VocabularyOrderAndChain(t *testing.T) {
	// TERMINATION appears before DEFINITIONS in the text; nodes follow
	// vocabulary order regardless.
	text := "1. TERMINATION\nEither party may terminate.\n2. Definitions\nIn this agreement..."

	g := New().Derive(text)

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, []string{"DEFINITIONS", "AGREEMENT", "TERMINATION"}, g.Labels())
	assert.Equal(t, []domain.GraphEdge{
		{From: "definitions", To: "agreement"},
		{From: "agreement", To: "termination"},
	}, g.Edges)
}

func TestDerive_TwoLabels(t *testing.T) {
	g := New().Derive("DEFINITIONS ... TERMINATION")

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "definitions", g.Nodes[0].ID)
	assert.Equal(t, "termination", g.Nodes[1].ID)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, domain.GraphEdge{From: "definitions", To: "termination"}, g.Edges[0])
}

func TestDerive_WholeWordOnly(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matches []string
	}{
		{"prefix not matched", "PREPAYMENTS are due", nil},
		{"suffix not matched", "NOTICESS", nil},
		{"case insensitive", "governing law shall be", []string{"GOVERNING LAW"}},
		{"multi word across spaces", "Intellectual   Property rights", []string{"INTELLECTUAL PROPERTY"}},
		{"punctuation boundary", "(Fees), payable", []string{"FEES"}},
		{"bare term ignored", "The term of this lease", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New().Derive(tc.text)
			if tc.matches == nil {
				require.Len(t, g.Nodes, 1)
				assert.Equal(t, FallbackNodeID, g.Nodes[0].ID)
				return
			}
			assert.Equal(t, tc.matches, g.Labels())
		})
	}
}

func TestDerive_Fallback(t *testing.T) {
	for _, text := range []string{"", "nothing legal here", "   \n  "} {
		g := New().Derive(text)
		require.Len(t, g.Nodes, 1)
		assert.Equal(t, FallbackLabel, g.Nodes[0].Label)
		assert.Equal(t, DefaultColors()[CategoryDefault], g.Nodes[0].Color)
		assert.Empty(t, g.Edges)
		assert.NotNil(t, g.Edges)
	}
}

func TestDerive_Colors(t *testing.T) {
	colors := DefaultColors()
	g := New().Derive("PAYMENT CONFIDENTIALITY LIABILITY ARBITRATION NOTICES")

	byLabel := make(map[string]string)
	for _, n := range g.Nodes {
		byLabel[n.Label] = n.Color
	}
	assert.Equal(t, colors[CategoryPayment], byLabel["PAYMENT"])
	assert.Equal(t, colors[CategoryConfidentiality], byLabel["CONFIDENTIALITY"])
	assert.Equal(t, colors[CategoryLiability], byLabel["LIABILITY"])
	assert.Equal(t, colors[CategoryLaw], byLabel["ARBITRATION"])
	assert.Equal(t, colors[CategoryDefault], byLabel["NOTICES"])
}

func TestDerive_Deterministic(t *testing.T) {
	text := "WARRANTIES. Payment. Force Majeure. Definitions."
	d := New()
	assert.Equal(t, d.Derive(text), d.Derive(text))
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "vocab.yaml")
		content := `labels:
  - label: RECITALS
    category: agreement
  - label: Rent
    category: payment
  - label: Security Deposit
    category: deposit
colors:
  payment: "#000000"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		v, err := LoadVocabulary(path)
		require.NoError(t, err)
		require.Len(t, v.Entries, 3)
		assert.Equal(t, "#000000", v.Colors[CategoryPayment])
		assert.Equal(t, DefaultColors()[CategoryAgreement], v.Colors[CategoryAgreement])

		g := NewWithVocabulary(v).Derive("the security deposit and monthly rent")
		require.Len(t, g.Nodes, 2)
		assert.Equal(t, "rent", g.Nodes[0].ID)
		assert.Equal(t, "#000000", g.Nodes[0].Color)
		assert.Equal(t, "security-deposit", g.Nodes[1].ID)
		// Unknown categories use the default colour.
		assert.Equal(t, DefaultColors()[CategoryDefault], g.Nodes[1].Color)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadVocabulary(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("labels: [unclosed"), 0600))
		_, err := LoadVocabulary(path)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no labels", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("colors: {}\n"), 0600))
		_, err := LoadVocabulary(path)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
