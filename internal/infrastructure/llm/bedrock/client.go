// Package bedrock classifies document text with a hosted language model
// behind a Bedrock-compatible runtime endpoint. It is the primary classifier
// in the classification cascade; the rule-based classifier covers for it when
// the endpoint is unavailable.
package bedrock

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/infrastructure/resilience"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 300
	temperature      = 0.2
)

type Client struct {
	endpoint   string
	modelID    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(endpoint, modelID string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		modelID:    modelID,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

func (c *Client) Method() domain.ClassificationMethod {
	return domain.ClassificationModel
}

// Classify sends the document text to the model with a few-shot prompt and
// parses the category, confidence and reasoning from the completion. The
// returned classification is raw: category coercion and threshold checks
// belong to the cascade.
func (c *Client) Classify(ctx context.Context, text string) (domain.RawClassification, error) {
	request := invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		Messages: []message{
			{Role: "user", Content: buildClassificationPrompt(text)},
		},
	}

	var response invokeResponse
	if err := c.invoke(ctx, request, &response); err != nil {
		return domain.RawClassification{}, wrapTemporaryIfNeeded("model classify", err)
	}
	return parseClassification(completionText(response)), nil
}

// HealthCheck probes the endpoint with a one-token invoke. A rejected
// request still proves the endpoint is reachable and authorized.
func (c *Client) HealthCheck(ctx context.Context) error {
	request := invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        1,
		Messages: []message{
			{Role: "user", Content: "ping"},
		},
	}
	var response invokeResponse
	err := c.invoke(ctx, request, &response)
	if err == nil {
		return nil
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < 500 && !isRetryableHTTPStatus(statusErr.StatusCode) {
		// An input-shaped rejection still proves the endpoint is up.
		return nil
	}
	return wrapTemporaryIfNeeded("model health check", err)
}

func (c *Client) invoke(ctx context.Context, request invokeRequest, out *invokeResponse) error {
	path := "/model/" + url.PathEscape(c.modelID) + "/invoke"
	do := func(ctx context.Context) error {
		return c.postJSON(ctx, path, request, out, "invoke")
	}
	if c.executor != nil {
		return c.executor.Execute(ctx, "model.invoke", do, classifyModelError)
	}
	return do(ctx)
}
