package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/prompt"
	"github.com/vytor/chordflash/internal/quiz"
)

// GeminiClient requests quizzes from the Gemini API with a response schema.
type GeminiClient struct {
	client *genai.Client
	model  string
	schema *genai.Schema
}

// GeminiConfig configures the Gemini API client. BaseURL overrides the
// public endpoint.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		schema: SchemaFromJSON(quiz.JSONSchema()),
	}, nil
}

func (g *GeminiClient) Name() string {
	return "gemini:" + g.model
}

func (g *GeminiClient) Generate(ctx context.Context, p prompt.Prompt) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithFields(map[string]any{
		"provider": g.Name(),
		"prompt":   p.ID(),
	})
	start := time.Now()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   g.schema,
		Temperature:      genai.Ptr[float32](0.2),
	}
	if s := strings.TrimSpace(p.System); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.Instructions), cfg)
	if err != nil {
		log.Error("generate content failed: %v", err)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.Error("empty completion after %v", time.Since(start))
		return nil, ErrEmptyCompletion
	}

	log.Debug("completion received in %v, %d bytes", time.Since(start), len(text))
	return []byte(text), nil
}

// SchemaFromJSON converts the subset of JSON Schema used by the quiz
// contract (object, array, string, integer, number, boolean, enum,
// required) into a genai.Schema. Property order follows "required".
func SchemaFromJSON(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}

	switch m["type"] {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	}

	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	s.Enum = stringList(m["enum"])
	s.Required = stringList(m["required"])
	if len(s.Required) > 0 {
		s.PropertyOrdering = append([]string(nil), s.Required...)
	}

	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				s.Properties[name] = SchemaFromJSON(sub)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = SchemaFromJSON(items)
	}
	return s
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
