// ABOUTME: HTTP client for the remote code execution service.
// ABOUTME: Runs code and lists supported languages, caching the list for an hour.

package coderunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lokesh58/lichobi/internal/ttlcache"
)

//go:generate mockgen -destination=../mocks/coderunner.go -package=mocks github.com/lokesh58/lichobi/internal/coderunner Runner

// LanguagesCacheTTL is how long the supported language list is reused.
const LanguagesCacheTTL = time.Hour

const languagesKey = "languages"

// Params is the request body for POST /api/run.
type Params struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Input    string `json:"input"`
}

// Result is the response body of POST /api/run.
type Result struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

// Language is one entry of GET /api/list.
type Language struct {
	Language string `json:"language"`
	Display  string `json:"display"`
}

// Runner executes code remotely.
type Runner interface {
	RunCode(ctx context.Context, params Params) (Result, error)
	SupportedLanguages(ctx context.Context) ([]Language, error)
}

// Client communicates with the code runner HTTP API.
type Client struct {
	baseURL   string
	token     string
	client    *http.Client
	languages *ttlcache.Cache[[]Language]
}

// NewClient creates a client for baseURL authenticating with token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		client:    &http.Client{Timeout: 2 * time.Minute},
		languages: ttlcache.New[[]Language](LanguagesCacheTTL, ttlcache.WithSweepInterval(LanguagesCacheTTL)),
	}
}

// RunCode executes params.Code and returns its output and error streams.
func (c *Client) RunCode(ctx context.Context, params Params) (Result, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	var result Result
	if err := c.do(ctx, http.MethodPost, "/api/run", bytes.NewReader(body), &result); err != nil {
		return Result{}, fmt.Errorf("failed to run code: %w", err)
	}
	return result, nil
}

// SupportedLanguages lists the languages the service can run.
func (c *Client) SupportedLanguages(ctx context.Context) ([]Language, error) {
	if langs, ok := c.languages.Get(languagesKey); ok {
		return langs, nil
	}

	var langs []Language
	if err := c.do(ctx, http.MethodGet, "/api/list", nil, &langs); err != nil {
		return nil, fmt.Errorf("failed to retrieve supported languages: %w", err)
	}
	c.languages.Set(languagesKey, langs)
	return langs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Close releases the language cache.
func (c *Client) Close() error {
	c.languages.Destroy()
	return nil
}
