package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/loader"
	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// defaultConversation is used when a caller does not name a conversation.
const defaultConversation = "mcp"

// ProcessInput is the input schema for the process_document tool.
type ProcessInput struct {
	Source string `json:"source" jsonschema:"path to a PDF file, or a URL (online mode only)"`
}

// ProcessOutput is the output schema for the process_document tool.
type ProcessOutput struct {
	DocumentID string                   `json:"document_id"`
	Title      string                   `json:"title"`
	Status     string                   `json:"status"`
	Graph      *domain.GraphDescription `json:"graph,omitempty"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question about the processed document"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to continue (default mcp)"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// SummaryInput is the input schema for the get_summary tool.
type SummaryInput struct {
	Topic      string `json:"topic,omitempty" jsonschema:"free-text topic to summarise"`
	NodeID     string `json:"node_id,omitempty" jsonschema:"graph node id from the last processed document"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"remote document id to summarise instead of the active one"`
}

// SummaryOutput is the output schema for the summary tools.
type SummaryOutput struct {
	Summary string `json:"summary"`
}

// SummarizeInput is the input schema for the summarize_document tool.
type SummarizeInput struct {
	Source string `json:"source" jsonschema:"path to a PDF file to summarise as a whole"`
}

// ModeInput is the input schema for the set_mode tool.
type ModeInput struct {
	Online bool `json:"online" jsonschema:"true to prefer the remote service, false to stay local"`
}

// ModeOutput is the output schema for the set_mode tool.
type ModeOutput struct {
	Mode  string `json:"mode"`
	Route string `json:"route"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: "Process a legal document and return its knowledge graph",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question about the processed document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Summarise a topic or graph node of the processed document",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Summarise a whole document",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_mode",
		Description: "Switch between online and offline processing",
	}, s.handleSetMode)
}

func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	src, err := loader.Load(input.Source)
	if err != nil {
		return nil, ProcessOutput{}, err
	}

	result, err := s.ports.Explorer.ProcessDocument(ctx, src)
	if err != nil {
		return nil, ProcessOutput{}, err
	}
	s.setGraph(result.GraphData)

	return nil, ProcessOutput{
		DocumentID: result.DocumentID,
		Title:      result.Title,
		Status:     string(result.Status),
		Graph:      result.GraphData,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	conv := strings.TrimSpace(input.ConversationID)
	if conv == "" {
		conv = defaultConversation
	}

	result, err := s.ports.Explorer.AskQuestion(ctx, conv, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{Answer: result.Answer, Sources: sources}, nil
}

func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	req := domain.SummaryRequest{
		Topic:      input.Topic,
		DocumentID: input.DocumentID,
	}
	if input.NodeID != "" {
		req.ClickedNodeID = input.NodeID
		req.Graph = s.lastGraph()
	}

	result, err := s.ports.Explorer.GetSummary(ctx, req)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, SummaryOutput{Summary: result.Summary}, nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	src, err := loader.Load(input.Source)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	result, err := s.ports.Explorer.SummarizeWholeDocument(ctx, src)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, SummaryOutput{Summary: result.Summary}, nil
}

func (s *Server) handleSetMode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ModeInput,
) (*mcp.CallToolResult, ModeOutput, error) {
	mode := domain.ModeOffline
	if input.Online {
		mode = domain.ModeOnline
	}
	if s.ports.Settings != nil {
		if err := s.ports.Settings.SetMode(mode); err != nil {
			return nil, ModeOutput{}, err
		}
	}
	s.ports.Explorer.SetMode(input.Online)

	return nil, ModeOutput{
		Mode:  s.ports.Explorer.Mode().String(),
		Route: s.ports.Explorer.Route(ctx).String(),
	}, nil
}
