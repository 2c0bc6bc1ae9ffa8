// Package textract talks to a Textract-compatible OCR endpoint. It is the
// primary text source for the extraction cascade: line-level segments
// filtered by confidence, word-level recovery when lines come back sparse,
// and key/value pairs appended for structured fields.
package textract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/infrastructure/resilience"
)

const (
	targetDetectDocumentText = "Textract.DetectDocumentText"
	targetAnalyzeDocument    = "Textract.AnalyzeDocument"

	// minPrimaryTextLength is the floor under which line output triggers
	// word-level recovery.
	minPrimaryTextLength = 10
)

type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor

	// confidenceThreshold is on the local 0-1 scale; the service reports
	// 0-100 and is rescaled before comparison.
	confidenceThreshold float64
}

type Options struct {
	// RequestsPerSecond caps the call rate to stay under the service's
	// throttling limits. Zero disables the limiter.
	RequestsPerSecond  float64
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(endpoint string, confidenceThreshold float64, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), 1)
	}
	return &Client{
		endpoint:            strings.TrimRight(endpoint, "/"),
		httpClient:          &http.Client{Timeout: timeout},
		limiter:             limiter,
		executor:            options.ResilienceExecutor,
		confidenceThreshold: confidenceThreshold,
	}
}

func (c *Client) Method() domain.ExtractionMethod {
	return domain.ExtractionPrimary
}

// Extract runs text detection and assembles document text from the typed
// blocks. If the service rejects the input as unsupported, one retry is made
// in analysis mode with no extra feature extraction; any other service error
// is returned for the cascade to handle.
func (c *Client) Extract(ctx context.Context, doc domain.Document) (string, error) {
	resp, err := c.detectDocumentText(ctx, doc.Bytes)
	if domain.IsKind(err, domain.ErrUnsupportedDocument) {
		resp, err = c.analyzeDocument(ctx, doc.Bytes)
	}
	if err != nil {
		return "", err
	}
	return c.assembleText(resp), nil
}

// HealthCheck probes the service with a minimal request. An input-shaped
// rejection still proves the endpoint is reachable and authorized.
func (c *Client) HealthCheck(ctx context.Context) error {
	probe := []byte("%PDF-1.4\n%%EOF\n")
	_, err := c.detectDocumentText(ctx, probe)
	if err == nil || domain.IsKind(err, domain.ErrUnsupportedDocument) || domain.IsKind(err, domain.ErrInvalidInput) {
		return nil
	}
	return err
}

func (c *Client) detectDocumentText(ctx context.Context, pdfBytes []byte) (*documentTextResponse, error) {
	var resp documentTextResponse
	err := c.call(ctx, targetDetectDocumentText, detectRequest{
		Document: documentPayload{Bytes: pdfBytes},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) analyzeDocument(ctx context.Context, pdfBytes []byte) (*documentTextResponse, error) {
	var resp documentTextResponse
	err := c.call(ctx, targetAnalyzeDocument, analyzeRequest{
		Document:     documentPayload{Bytes: pdfBytes},
		FeatureTypes: []string{},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) call(ctx context.Context, target string, payload, out any) error {
	do := func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return c.post(ctx, target, payload, out)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ocr."+target, do, classifyOCRError)
	} else {
		err = do(ctx)
	}
	return err
}

func (c *Client) post(ctx context.Context, target string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", target, err)
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ocr %s request: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(target, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", target, err)
	}
	return nil
}

func decodeAPIError(target string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body apiErrorBody
	_ = json.Unmarshal(raw, &body)
	code := body.Type
	if i := strings.LastIndex(code, "#"); i >= 0 {
		code = code[i+1:]
	}
	if code == "" {
		code = resp.Status
	}
	return &APIError{
		Target:     target,
		Code:       code,
		Message:    strings.TrimSpace(body.Message),
		StatusCode: resp.StatusCode,
	}
}
