// Package llm talks to an OpenAI-compatible chat completion API.
//
// The client is deliberately narrow: one system prompt, one user prompt,
// JSON-object response mode, and the assistant text back. Interpretation of
// that text belongs to the caller.
package llm

import (
	"context"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrUpstream marks transport failures and non-2xx responses.
	ErrUpstream = errors.New("llm upstream failure")
	// ErrEmptyCompletion marks a 2xx response that carried no usable choice.
	ErrEmptyCompletion = errors.New("llm returned no content")
)

// Options configures a Client. Zero values fall back to sensible defaults
// except APIKey, which is sent as-is.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	// HTTPClient overrides the instrumented default client (tests).
	HTTPClient *http.Client
}

// Client issues chat completions. Safe for concurrent use.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// New builds a Client from opts.
func New(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if b := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); b != "" {
		cfg.BaseURL = b
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = newHTTPClient(opts.Timeout)
	}
	cfg.HTTPClient = hc

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	// go-openai drops a zero temperature from the payload (omitempty), which
	// makes the API use its own default of 1.
	temp := float32(opts.Temperature)
	if temp <= 0 {
		temp = math.SmallestNonzeroFloat32
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temp,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends system and user messages and returns the first choice's
// content. Errors are marked with ErrUpstream or ErrEmptyCompletion.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", errors.Mark(describe(err), ErrUpstream)
	}
	if len(resp.Choices) == 0 {
		return "", errors.WithStack(ErrEmptyCompletion)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.WithStack(ErrEmptyCompletion)
	}
	return content, nil
}

// describe adds the HTTP status to API errors so logs say what went wrong.
func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errors.Wrapf(err, "chat completion: status %d", apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errors.Wrapf(err, "chat completion: status %d", reqErr.HTTPStatusCode)
	}
	return errors.Wrap(err, "chat completion")
}

// newHTTPClient returns a pooled, traced client with an overall timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(base),
	}
}
