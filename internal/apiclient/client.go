// Package apiclient talks to the shortener backend with bearer authentication.
package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	customerrors "github.com/axellelanca/urlshortener-frontend/internal/errors"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

const (
	ShortenPath = "/api/shorten"
	StatsPath   = "/api/stats"
)

// Client prefixes every path with the backend base URL and authenticates with a bearer token.
// It never retries, caches or imposes a timeout of its own.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes one call. Zero value is a GET without body.
type RequestOptions struct {
	Method string
	// Body is encoded as JSON unless it is already a []byte.
	Body any
	// Headers override the defaults, including Content-Type and Authorization.
	Headers map[string]string
}

// Fetch performs the call and decodes a 2xx JSON body into out (ignored when out is nil).
// A non-2xx answer yields *errors.APIError carrying the status and body text.
func (c *Client) Fetch(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch b := opts.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "build request %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return &customerrors.APIError{Status: resp.StatusCode, Body: string(text)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode response of %s %s", method, path)
	}
	return nil
}

// Shorten submits all items in a single batch.
func (c *Client) Shorten(ctx context.Context, items []models.SubmissionItem) ([]models.Result, error) {
	var resp models.ShortenResponse
	err := c.Fetch(ctx, ShortenPath, RequestOptions{
		Method: http.MethodPost,
		Body:   models.ShortenRequest{Items: items},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Stats lists every shortened link with its clicks. A response without items is an empty list.
func (c *Client) Stats(ctx context.Context) ([]models.StatsItem, error) {
	var resp models.StatsResponse
	if err := c.Fetch(ctx, StatsPath, RequestOptions{}, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []models.StatsItem{}, nil
	}
	return resp.Items, nil
}
