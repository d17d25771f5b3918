package generator

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

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/prompt"
	"github.com/vytor/chordflash/internal/quiz"
)

// OpenAIConfig configures an OpenAI compatible chat completions endpoint.
// With Azure set, BaseURL is the resource endpoint and Model the deployment.
type OpenAIConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	APIVersion   string
	Azure        bool
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// OpenAIClient requests quizzes with strict json_schema structured output.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OpenAIClient) Name() string {
	if c.cfg.Azure {
		return "azure:" + c.cfg.Model
	}
	return "openai:" + c.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model,omitempty"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAIClient) endpoint() string {
	if !c.cfg.Azure {
		return c.cfg.BaseURL + "/chat/completions"
	}
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIVersion))
}

func (c *OpenAIClient) buildRequest(p prompt.Prompt) chatRequest {
	req := chatRequest{
		Temperature: 0.2,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   quiz.SchemaName,
				Strict: true,
				Schema: quiz.JSONSchema(),
			},
		},
	}
	// Azure selects the model through the deployment path.
	if !c.cfg.Azure {
		req.Model = c.cfg.Model
	}
	if s := strings.TrimSpace(p.System); s != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: s})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: p.Instructions})
	return req
}

// Generate posts the prompt and returns the message content. Only 429
// responses are retried.
func (c *OpenAIClient) Generate(ctx context.Context, p prompt.Prompt) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithFields(map[string]any{
		"provider": c.Name(),
		"prompt":   p.ID(),
	})

	body, err := json.Marshal(c.buildRequest(p))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.cfg.RetryBackoff * time.Duration(1<<uint(attempt-1))
			log.Warn("rate limited, retrying in %v (attempt %d/%d)", wait, attempt, c.cfg.MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			log.Debug("completion received in %v, %d bytes", time.Since(start), len(content))
			return content, nil
		}
		if !retry {
			log.Error("completion failed: %v", err)
			return nil, err
		}
		lastErr = err
	}

	log.Error("max retries exceeded after %v: %v", time.Since(start), lastErr)
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *OpenAIClient) do(ctx context.Context, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Azure {
		req.Header.Set("api-key", c.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("rate limit exceeded (429)")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return nil, false, fmt.Errorf("api error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, false, ErrEmptyCompletion
	}
	msg := out.Choices[0].Message
	if msg.Refusal != "" {
		return nil, false, fmt.Errorf("model refused: %s", msg.Refusal)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, false, ErrEmptyCompletion
	}
	return []byte(content), false, nil
}
