package github

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	_ "embed"

	"go.uber.org/zap"
)

const (
	apiURL          = "https://api.github.com/graphql"
	userAgent       = "spigell/hireability"
	contentType     = "application/json"
	contentEncoding = "gzip"
	errorBodyLimit  = 1024
)

//go:embed user.graphql
var userQuery string

var (
	// ErrNotFound means the account does not exist or is not visible.
	ErrNotFound = errors.New("github user not found")
	// ErrUpstream covers transport failures, bad statuses and GraphQL errors.
	ErrUpstream = errors.New("github upstream failure")
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, token string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	token = strings.TrimSpace(token)
	if token == "" {
		logger.Warn("github token is not set, requests will be rejected or heavily rate limited")
	}

	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// query posts a GraphQL document and returns its data object.
func (c *Client) query(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.request(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(reader, errorBodyLimit))
		return nil, fmt.Errorf("%w: bad status: %s: %s", ErrUpstream, resp.Status, strings.TrimSpace(string(detail)))
	}

	var response graphQLResponse
	if err := json.NewDecoder(reader).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}

	if len(response.Errors) > 0 {
		first := response.Errors[0]
		if first.Type == "NOT_FOUND" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, first.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, first.Message)
	}

	return response.Data, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	// Setting the header by hand disables transparent decompression, so
	// query handles gzip itself.
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
