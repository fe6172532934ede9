package advisor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
)

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
	logger  *log.Logger
}

// NewHTTPClient builds a client against baseURL (for example
// "https://api.openai.com/v1"). timeout bounds each individual call.
func NewHTTPClient(apiKey, baseURL, model string, timeout time.Duration, logger *log.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger.WithComponent(log.ComponentAdvisor),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	ImageURL *imageURLValue `json:"image_url,omitempty"`
}

type imageURLValue struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one chat completion request. Each call gets its own
// timeout derived from the parent context.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var content any = req.Prompt
	if len(req.Image) > 0 {
		content = []contentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &imageURLValue{
				URL: fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.Image)),
			}},
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading inference response: %v", core.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classify(resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrBadResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *HTTPClient) classify(status int, raw []byte) error {
	var parsed chatResponse
	_ = json.Unmarshal(raw, &parsed)
	detail := http.StatusText(status)
	code := ""
	if parsed.Error != nil {
		if parsed.Error.Message != "" {
			detail = parsed.Error.Message
		}
		code = parsed.Error.Code
		if code == "" {
			code = parsed.Error.Type
		}
	}

	c.logger.Warn("inference call failed", log.FieldStatusCode, status, log.FieldError, detail)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, detail)
	case status == http.StatusNotFound || code == "model_not_found":
		return fmt.Errorf("%w: %s", ErrModelNotFound, detail)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", core.ErrQuotaExceeded, detail)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrOverloaded, status, detail)
	default:
		return fmt.Errorf("inference call failed with status %d: %s", status, detail)
	}
}
