// Package client is a thin typed HTTP client for the Taskdesk API,
// used by the terminal client and handy as a substitute-friendly boundary
// in integration setups.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskdesk/internal/dto"
)

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	StatusCode int
	Message    string
	Details    []dto.FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		parts := make([]string, len(e.Details))
		for i, d := range e.Details {
			parts[i] = d.Field + " " + d.Message
		}
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ListOptions mirrors the query parameters of GET /todos.
type ListOptions struct {
	Filter string
	Search string
	Sort   string
	Order  string
	Limit  int
	Offset int
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL (without the /api/v1 prefix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) List(ctx context.Context, opts ListOptions) ([]dto.TodoResponse, error) {
	q := url.Values{}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/todos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list []dto.TodoResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error) {
	var t dto.TodoResponse
	err := c.do(ctx, http.MethodPost, "/todos", req, &t)
	return t, err
}

func (c *Client) Get(ctx context.Context, id string) (dto.TodoResponse, error) {
	var t dto.TodoResponse
	err := c.do(ctx, http.MethodGet, "/todos/"+url.PathEscape(id), nil, &t)
	return t, err
}

func (c *Client) Update(ctx context.Context, id string, req dto.UpdateTodoRequest) (dto.TodoResponse, error) {
	var t dto.TodoResponse
	err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), req, &t)
	return t, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		var errBody dto.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
