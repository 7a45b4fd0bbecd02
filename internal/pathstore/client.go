package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/docwheel/internal/store"
)

// Client keeps documents in the pathstore HTTP API, one node per document.
type Client struct {
	baseURL    string
	apiKey     string
	prefix     string
	httpClient *http.Client
	retryUnit  time.Duration
}

// NewClient returns a client storing documents under prefix.
func NewClient(baseURL, apiKey, prefix string) *Client {
	if prefix == "" {
		prefix = "docwheel/documents"
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		prefix:  strings.Trim(prefix, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryUnit: 500 * time.Millisecond,
	}
}

// NodeRequest is the body for PUT /kv/{key}.
type NodeRequest struct {
	Value      any    `json:"value"`
	MemoryType string `json:"memory_type,omitempty"`
	Source     string `json:"source,omitempty"`
}

// NodeResponse is the response from GET /kv/{key}.
type NodeResponse struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

// document is the node value for one stored document.
type document struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Key returns the node key for a document path.
func (c *Client) Key(path string) string {
	var parts []string
	for _, p := range strings.Split(strings.Trim(path, "/"), "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, url.PathEscape(p))
	}
	return c.prefix + "/" + strings.Join(parts, "/")
}

// PutNode stores or updates a node at the given path. Transient failures
// are retried with backoff.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	return c.withRetry(ctx, func() error {
		return c.putNode(ctx, key, body)
	})
}

func (c *Client) putNode(ctx context.Context, key string, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if retryableStatus(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put node %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return nil
}

// GetNode retrieves a node by key. A missing node returns nil, nil.
func (c *Client) GetNode(ctx context.Context, key string) (*NodeResponse, error) {
	var node *NodeResponse
	err := c.withRetry(ctx, func() error {
		var err error
		node, err = c.getNode(ctx, key)
		return err
	})
	return node, err
}

func (c *Client) getNode(ctx context.Context, key string) (*NodeResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if retryableStatus(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get node %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var node NodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &node, nil
}

// Read implements store.Store.
func (c *Client) Read(ctx context.Context, path string) (string, error) {
	node, err := c.GetNode(ctx, c.Key(path))
	if err != nil {
		return "", err
	}
	if node == nil {
		return "", fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	m, ok := node.Value.(map[string]any)
	if !ok {
		return "", fmt.Errorf("decode %s: unexpected value %T", path, node.Value)
	}
	text, ok := m["text"].(string)
	if !ok {
		return "", fmt.Errorf("decode %s: missing text", path)
	}
	return text, nil
}

// Write implements store.Store.
func (c *Client) Write(ctx context.Context, path, text string) error {
	return c.PutNode(ctx, c.Key(path), NodeRequest{
		Value:      document{Path: path, Text: text},
		MemoryType: "document",
		Source:     "docwheel",
	})
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
