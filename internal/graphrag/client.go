package graphrag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client provides typed access to the GraphRAG backend REST API. Every
// operation is a single request/response exchange; there is no retry or
// backoff, matching the behaviour the backend expects from its clients.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// uses a 5 minute default, which review generation can need.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// apiError is the backend's generic error envelope.
type apiError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// do performs one exchange: marshals body (when non-nil), decodes the
// response into out, and turns non-2xx statuses into errors carrying the
// backend's message field.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("backend %s (%d): %s", path, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("backend %s returned %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return nil
}

// Status checks whether the backend's query chain is initialized.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Documents lists all documents the backend has processed.
func (c *Client) Documents(ctx context.Context) (*DocumentList, error) {
	var out DocumentList
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Initialize asks the backend to (re)build its chain, optionally
// reprocessing all documents.
func (c *Client) Initialize(ctx context.Context, forceReprocess bool) (*InitializeResponse, error) {
	body := map[string]bool{"force_reprocess": forceReprocess}
	var out InitializeResponse
	if err := c.do(ctx, http.MethodPost, "/api/initialize", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddDocument uploads one document for server-side processing.
func (c *Client) AddDocument(ctx context.Context, req AddDocumentRequest) (*AddDocumentResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("add_document: content is empty")
	}
	if req.FileType == "" {
		req.FileType = FileTypeText
	}
	var out AddDocumentResponse
	if err := c.do(ctx, http.MethodPost, "/api/add_document", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query asks the knowledge base a question.
func (c *Client) Query(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("query: question is empty")
	}
	body := map[string]string{"question": question}
	var out Answer
	if err := c.do(ctx, http.MethodPost, "/api/query", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateReview runs the backend's six-phase literature review pipeline
// for the given topic. reviewType is systematic, narrative, or scoping.
func (c *Client) GenerateReview(ctx context.Context, topic, reviewType string) (*ReviewProcess, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("generate_review: topic is empty")
	}
	if reviewType == "" {
		reviewType = string(ReviewSystematic)
	}
	known := false
	for _, rt := range ValidReviewTypes {
		if ReviewType(reviewType) == rt {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("generate_review: unknown review type %q", reviewType)
	}
	body := map[string]string{"topic": topic, "review_type": reviewType}
	var out ReviewProcess
	if err := c.do(ctx, http.MethodPost, "/api/generate_enhanced_review", body, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return &out, fmt.Errorf("review generation: %s", out.Error)
	}
	return &out, nil
}

// RefineSection asks the backend to revise a review section with the
// given refinement focus and optional free-form feedback.
func (c *Client) RefineSection(ctx context.Context, req RefineRequest) (*RefineResponse, error) {
	if strings.TrimSpace(req.SectionContent) == "" {
		return nil, fmt.Errorf("refine_section: section content is empty")
	}
	valid := false
	for _, rt := range ValidRefinementTypes {
		if req.RefinementType == rt {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("refine_section: unknown refinement type %q", req.RefinementType)
	}
	var out RefineResponse
	if err := c.do(ctx, http.MethodPost, "/api/refine_review_section", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
