// Package remote provides the HTTP client for the remote document service.
//
// The client speaks the service's JSON and multipart contract and maps its
// field names onto domain types: index_name becomes DocumentID and
// ai_response becomes Answer. Requests are never retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// Ensure Client implements the backend interface.
var _ driven.Backend = (*Client)(nil)

// ErrThrottled marks a request that was never sent because the rate
// limiter could not admit it before ctx ended.
var ErrThrottled = errors.New("request throttled")

// Service endpoints.
const (
	EndpointProcessPDF        = "/api/process-pdf"
	EndpointProcessURL        = "/api/process-url"
	EndpointChat              = "/api/chat"
	EndpointGetSummary        = "/api/get-summary"
	EndpointSummarizeDocument = "/api/summarize-legal-document"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 60 * time.Second

	maxErrorBody = 4096
)

// Config holds configuration for the remote client.
type Config struct {
	// BaseURL is the service root (default: http://localhost:5000).
	BaseURL string

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero means unlimited.
	RequestsPerSecond float64

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls the remote document service.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// processResponse is returned by both process endpoints.
type processResponse struct {
	IndexName string                   `json:"index_name"`
	Title     string                   `json:"title,omitempty"`
	GraphData *domain.GraphDescription `json:"graph_data,omitempty"`
}

type processURLRequest struct {
	URL string `json:"url"`
}

type chatRequest struct {
	ChatID      string `json:"chat_id"`
	IndexName   string `json:"index_name"`
	UserMessage string `json:"user_message"`
}

type chatResponse struct {
	AIResponse string   `json:"ai_response"`
	Sources    []string `json:"sources,omitempty"`
}

// summaryRequest covers both the topic and the clicked-node variants.
type summaryRequest struct {
	Topic         string             `json:"topic,omitempty"`
	ClickedNodeID string             `json:"clicked_node_id,omitempty"`
	Nodes         []domain.GraphNode `json:"nodes,omitempty"`
	Edges         []domain.GraphEdge `json:"edges,omitempty"`
	IndexName     string             `json:"index_name"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// New creates a client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: remote base URL %q", domain.ErrInvalidInput, cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessDocument uploads a PDF or submits a URL for ingestion.
func (c *Client) ProcessDocument(ctx context.Context, src domain.Source) (*domain.ProcessResult, error) {
	var (
		resp     processResponse
		endpoint string
		err      error
	)
	if src.IsURL() {
		endpoint = EndpointProcessURL
		err = c.postJSON(ctx, endpoint, processURLRequest{URL: src.URL}, &resp)
	} else {
		endpoint = EndpointProcessPDF
		err = c.postFile(ctx, endpoint, src, &resp)
	}
	if err != nil {
		return nil, err
	}
	if resp.IndexName == "" {
		return nil, &domain.RemoteError{
			Endpoint:   endpoint,
			StatusCode: http.StatusOK,
			Body:       "response has no index_name",
		}
	}

	title := resp.Title
	if title == "" {
		title = src.Name
	}
	return &domain.ProcessResult{
		DocumentID: resp.IndexName,
		Title:      title,
		Status:     domain.ProcessStatusSuccess,
		GraphData:  resp.GraphData,
	}, nil
}

// AskQuestion sends one chat message.
func (c *Client) AskQuestion(
	ctx context.Context, conversationID, documentID, question string,
) (*domain.AskResult, error) {
	var resp chatResponse
	err := c.postJSON(ctx, EndpointChat, chatRequest{
		ChatID:      conversationID,
		IndexName:   documentID,
		UserMessage: question,
	}, &resp)
	if err != nil {
		return nil, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	return &domain.AskResult{Answer: resp.AIResponse, Sources: sources}, nil
}

// GetSummary requests a topic summary, or a contextual one when a graph
// node was clicked.
func (c *Client) GetSummary(
	ctx context.Context, documentID string, req domain.SummaryRequest,
) (*domain.SummaryResult, error) {
	body := summaryRequest{IndexName: documentID}
	if req.IsContextual() {
		body.ClickedNodeID = req.ClickedNodeID
		if req.Graph != nil {
			body.Nodes = req.Graph.Nodes
			body.Edges = req.Graph.Edges
		}
	} else {
		body.Topic = req.Topic
	}

	var resp summaryResponse
	if err := c.postJSON(ctx, EndpointGetSummary, body, &resp); err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: resp.Summary}, nil
}

// SummarizeWholeDocument uploads a PDF for a whole-document summary.
func (c *Client) SummarizeWholeDocument(ctx context.Context, src domain.Source) (*domain.SummaryResult, error) {
	if src.IsURL() {
		return nil, fmt.Errorf("%w: whole-document summaries need a file", domain.ErrUnsupportedSource)
	}

	var resp summaryResponse
	if err := c.postFile(ctx, EndpointSummarizeDocument, src, &resp); err != nil {
		return nil, err
	}
	return &domain.SummaryResult{Summary: resp.Summary}, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}
	return c.do(ctx, endpoint, "application/json", payload, out)
}

func (c *Client) postFile(ctx context.Context, endpoint string, src domain.Source, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := src.Name
	if name == "" {
		name = "document.pdf"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(src.Content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	return c.do(ctx, endpoint, w.FormDataContentType(), buf.Bytes(), out)
}

// do sends one POST and decodes a 2xx JSON body into out. A request held
// back by the limiter fails with ErrThrottled; every other failure is a
// *domain.RemoteError.
func (c *Client) do(ctx context.Context, endpoint, contentType string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w %s: %w", domain.ErrRemote, ErrThrottled, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &domain.RemoteError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logger.Debug("remote POST %s (%d bytes)", endpoint, len(body))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.RemoteError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("remote %s: %d in %s", endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			c.limiter.RecordRateLimited(retryAfter(resp.Header.Get("Retry-After")))
		}
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.RemoteError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &domain.RemoteError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       "invalid JSON response",
			Err:        err,
		}
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
