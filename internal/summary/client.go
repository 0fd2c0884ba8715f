// Package summary generates order-confirmation text through the Gemini
// REST API. The client is best-effort by contract: callers treat any error
// as "use the fallback text", so failures here are reported, never retried.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/service"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 15 * time.Second
)

// Client calls the Gemini generateContent endpoint.
//
// An empty API key is a legal configuration: every call then fails fast
// with ErrUnavailable and the checkout uses its fixed-format confirmation.
// That keeps local development working with zero external credentials.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Compile-time check that Client satisfies the checkout's collaborator
// contract.
var _ service.Summarizer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests to point at a local
// server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Gemini client. apiKey may be empty (see Client docs).
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request/response shapes for the generateContent REST call. Only the
// fields this client reads or writes are declared.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize asks Gemini for an HTML confirmation fragment for the order.
func (c *Client) Summarize(ctx context.Context, order model.Order, user model.User) (string, error) {
	if c.apiKey == "" {
		return "", apperror.Unavailable("summary service is not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(order, user)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("summary: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summary: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Unavailable("summary service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for the log; the caller only needs to
		// know the service is down.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("summary request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)),
		)
		return "", apperror.Unavailable("summary service returned an error")
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperror.Unavailable("summary response was not valid JSON")
	}
	text := extractText(parsed)
	if text == "" {
		return "", apperror.Unavailable("summary response contained no text")
	}
	return text, nil
}

func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}

// buildPrompt describes the order in plain text and pins the output format.
// The model is asked for an HTML fragment because the confirmation page
// renders the result directly; the fallback text uses the same shape.
func buildPrompt(order model.Order, user model.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, warm order confirmation message as an HTML fragment.\n")
	fmt.Fprintf(&b, "Start with an <h1> headline. Do not include <html> or <body> tags.\n\n")
	fmt.Fprintf(&b, "Customer name: %s\n", user.Name)
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Order date: %s\n", order.Date)
	fmt.Fprintf(&b, "Order total: %s\n", order.Total)
	fmt.Fprintf(&b, "Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %d x %s\n", item.Quantity, item.Name)
	}
	return b.String()
}
