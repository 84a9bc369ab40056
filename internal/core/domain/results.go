package domain

// ProcessStatus reports the outcome of document processing.
type ProcessStatus string

// Available process statuses.
const (
	ProcessStatusSuccess ProcessStatus = "success"
	ProcessStatusError   ProcessStatus = "error"
)

// ProcessResult is the mode-independent outcome of processing a document.
type ProcessResult struct {
	// DocumentID identifies the processed document. For the remote service
	// this is the backend's index name.
	DocumentID string `json:"documentId"`

	// Title is the human-readable document title.
	Title string `json:"title"`

	// Status is success or error.
	Status ProcessStatus `json:"status"`

	// GraphData is the derived graph, when available.
	GraphData *GraphDescription `json:"graphData,omitempty"`
}

// AskResult is the answer to a chat question.
type AskResult struct {
	Answer string `json:"answer"`

	// Sources lists supporting references. The offline pipeline never
	// returns sources.
	Sources []string `json:"sources"`
}

// SummaryResult holds a generated summary.
type SummaryResult struct {
	Summary string `json:"summary"`
}

// SummaryRequest asks for a topic-scoped summary.
// Either Topic is set, or ClickedNodeID together with Graph (the contextual
// variant sent when a graph node is clicked).
type SummaryRequest struct {
	// Topic is the free-text topic to summarise.
	Topic string

	// DocumentID overrides the active document for remote calls.
	DocumentID string

	// ClickedNodeID is the graph node the user selected.
	ClickedNodeID string

	// Graph is the graph the node belongs to.
	Graph *GraphDescription
}

// IsContextual returns true for the clicked-node variant.
func (r SummaryRequest) IsContextual() bool {
	return r.ClickedNodeID != ""
}

// EffectiveTopic returns the topic to retrieve against. For the contextual
// variant this is the clicked node's label, falling back to its id.
func (r SummaryRequest) EffectiveTopic() string {
	if !r.IsContextual() {
		return r.Topic
	}
	if r.Graph != nil {
		if node, ok := r.Graph.Node(r.ClickedNodeID); ok && node.Label != "" {
			return node.Label
		}
	}
	if r.Topic != "" {
		return r.Topic
	}
	return r.ClickedNodeID
}
