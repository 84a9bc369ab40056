// Package keyword derives a presentational knowledge graph from document
// text by matching a fixed vocabulary of legal section labels.
//
// This is a presentation heuristic, not a semantic graph: nodes are emitted
// in vocabulary order (not order of appearance) and each node is linked to
// the previously emitted node, forming a chain. Edges carry no meaning.
package keyword

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

// Category groups labels that share a colour.
type Category string

// Built-in categories.
const (
	CategoryAgreement       Category = "agreement"
	CategoryPayment         Category = "payment"
	CategoryTerm            Category = "term"
	CategoryConfidentiality Category = "confidentiality"
	CategoryLiability       Category = "liability"
	CategoryLaw             Category = "law"
	CategoryDefault         Category = "default"
)

// FallbackNodeID is the id of the node emitted when nothing matches.
const FallbackNodeID = "document"

// FallbackLabel is the label of the node emitted when nothing matches.
const FallbackLabel = "Entire Document"

// Entry is one vocabulary label and its colour category.
type Entry struct {
	Label    string   `yaml:"label"`
	Category Category `yaml:"category"`
}

// Vocabulary is an ordered label list plus the category colour map.
type Vocabulary struct {
	Entries []Entry             `yaml:"labels"`
	Colors  map[Category]string `yaml:"colors"`
}

// DefaultColors maps each category to its hex colour.
func DefaultColors() map[Category]string {
	return map[Category]string{
		CategoryAgreement:       "#4F46E5",
		CategoryPayment:         "#16A34A",
		CategoryTerm:            "#DC2626",
		CategoryConfidentiality: "#9333EA",
		CategoryLiability:       "#EA580C",
		CategoryLaw:             "#0891B2",
		CategoryDefault:         "#6B7280",
	}
}

// DefaultVocabulary returns the built-in legal section vocabulary.
// "TERM" on its own is left out: it matches almost every contract sentence.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Entries: []Entry{
			{"DEFINITIONS", CategoryAgreement},
			{"PARTIES", CategoryAgreement},
			{"AGREEMENT", CategoryAgreement},
			{"SCOPE OF SERVICES", CategoryAgreement},
			{"PAYMENT", CategoryPayment},
			{"FEES", CategoryPayment},
			{"COMPENSATION", CategoryPayment},
			{"TERMINATION", CategoryTerm},
			{"RENEWAL", CategoryTerm},
			{"CONFIDENTIALITY", CategoryConfidentiality},
			{"INTELLECTUAL PROPERTY", CategoryConfidentiality},
			{"WARRANTIES", CategoryLiability},
			{"INDEMNIFICATION", CategoryLiability},
			{"LIABILITY", CategoryLiability},
			{"FORCE MAJEURE", CategoryDefault},
			{"NOTICES", CategoryDefault},
			{"ASSIGNMENT", CategoryDefault},
			{"GOVERNING LAW", CategoryLaw},
			{"DISPUTE RESOLUTION", CategoryLaw},
			{"ARBITRATION", CategoryLaw},
		},
		Colors: DefaultColors(),
	}
}

// LoadVocabulary reads a YAML vocabulary file. Colours missing from the
// file fall back to the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("%w: parse vocabulary %s: %v", domain.ErrInvalidInput, path, err)
	}
	if len(v.Entries) == 0 {
		return Vocabulary{}, fmt.Errorf("%w: vocabulary %s has no labels", domain.ErrInvalidInput, path)
	}

	colors := DefaultColors()
	for k, c := range v.Colors {
		colors[k] = c
	}
	v.Colors = colors
	return v, nil
}

// Verify interface compliance.
var _ driven.GraphDeriver = (*Deriver)(nil)

type matcher struct {
	entry Entry
	id    string
	re    *regexp.Regexp
}

// Deriver matches vocabulary labels against text.
type Deriver struct {
	matchers []matcher
	colors   map[Category]string
}

// New creates a deriver over the default vocabulary.
func New() *Deriver {
	return NewWithVocabulary(DefaultVocabulary())
}

// NewWithVocabulary creates a deriver over v.
func NewWithVocabulary(v Vocabulary) *Deriver {
	d := &Deriver{
		matchers: make([]matcher, 0, len(v.Entries)),
		colors:   v.Colors,
	}
	if d.colors == nil {
		d.colors = DefaultColors()
	}

	for _, e := range v.Entries {
		words := strings.Fields(e.Label)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		pattern := `(?i)\b` + strings.Join(words, `\s+`) + `\b`
		d.matchers = append(d.matchers, matcher{
			entry: e,
			id:    nodeID(words),
			re:    regexp.MustCompile(pattern),
		})
	}
	return d
}

// Derive returns one node per matched label in vocabulary order, chained
// by edges. When nothing matches it returns a single fallback node.
func (d *Deriver) Derive(text string) *domain.GraphDescription {
	g := &domain.GraphDescription{
		Nodes: []domain.GraphNode{},
		Edges: []domain.GraphEdge{},
	}

	for _, m := range d.matchers {
		if !m.re.MatchString(text) {
			continue
		}
		node := domain.GraphNode{
			ID:    m.id,
			Label: m.entry.Label,
			Color: d.color(m.entry.Category),
		}
		if n := len(g.Nodes); n > 0 {
			g.Edges = append(g.Edges, domain.GraphEdge{From: g.Nodes[n-1].ID, To: node.ID})
		}
		g.Nodes = append(g.Nodes, node)
	}

	if len(g.Nodes) == 0 {
		g.Nodes = append(g.Nodes, domain.GraphNode{
			ID:    FallbackNodeID,
			Label: FallbackLabel,
			Color: d.color(CategoryDefault),
		})
	}
	return g
}

func (d *Deriver) color(c Category) string {
	if col, ok := d.colors[c]; ok {
		return col
	}
	return d.colors[CategoryDefault]
}

// nodeID builds a stable slug from the quoted label words.
func nodeID(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.ToLower(strings.ReplaceAll(w, `\`, ""))
	}
	return strings.Join(parts, "-")
}
