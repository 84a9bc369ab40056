package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lexmap resources.
	uriScheme = "lexmap://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Configured mode and the backend the next call would use",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "graph",
		Name:        "graph",
		Description: "Knowledge graph of the last processed document",
		MIMEType:    "application/json",
	}, s.handleGraphResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "graph/nodes/{nodeId}",
		Name:        "graph-node",
		Description: "A single node of the last processed graph",
		MIMEType:    "application/json",
	}, s.handleNodeResource)
}

func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := struct {
		Mode  string `json:"mode"`
		Route string `json:"route"`
	}{
		Mode:  s.ports.Explorer.Mode().String(),
		Route: s.ports.Explorer.Route(ctx).String(),
	}
	return jsonResult(req.Params.URI, status)
}

func (s *Server) handleGraphResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	graph := s.lastGraph()
	if graph == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, graph)
}

func (s *Server) handleNodeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	node, ok := s.lastGraph().Node(extractNodeID(req.Params.URI))
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, node)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractNodeID extracts the node ID from a URI like lexmap://graph/nodes/{nodeId}.
func extractNodeID(uri string) string {
	const prefix = uriScheme + "graph/nodes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
