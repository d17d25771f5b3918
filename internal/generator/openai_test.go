package generator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/chordflash/internal/generator"
	"github.com/vytor/chordflash/internal/prompt"
)

const cMajor = `{"chord_name":"C","keys":[{"x":10,"is_black":false,"finger":1,"note":"C"}],"explanation":"root"}`

var testPrompt = prompt.Prompt{
	Name:         "test",
	Version:      "1",
	System:       "You are a piano teacher.",
	Instructions: "Give me one chord.",
}

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestOpenAIClient_RequestShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, completion(cMajor))
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{
		BaseURL: srv.URL + "/v1/",
		APIKey:  "sk-test",
		Model:   "gpt-4o",
	})

	out, err := c.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.JSONEq(t, cMajor, string(out))
	assert.Equal(t, "openai:gpt-4o", c.Name())

	assert.Equal(t, "gpt-4o", got["model"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Give me one chord.", messages[1].(map[string]any)["content"])

	format := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "ChordQuiz", schema["name"])
	assert.Equal(t, true, schema["strict"])
	assert.Equal(t, "object", schema["schema"].(map[string]any)["type"])
}

func TestOpenAIClient_Azure(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-10-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, completion(cMajor))
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "secret",
		Model:      "gpt-4o",
		APIVersion: "2024-10-01-preview",
		Azure:      true,
	})

	_, err := c.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "azure:gpt-4o", c.Name())
	assert.NotContains(t, got, "model")
}

func TestOpenAIClient_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(t, w, completion(cMajor))
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{
		BaseURL:      srv.URL,
		Model:        "gpt-4o",
		RetryBackoff: time.Millisecond,
	})

	out, err := c.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.JSONEq(t, cMajor, string(out))
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{
		BaseURL:      srv.URL,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})

	_, err := c.Generate(context.Background(), testPrompt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIClient_DoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "deployment not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{BaseURL: srv.URL, RetryBackoff: time.Millisecond})

	_, err := c.Generate(context.Background(), testPrompt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "deployment not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIClient_EmptyAndRefusal(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{name: "no choices", body: map[string]any{"choices": []any{}}, wantErr: "empty completion"},
		{name: "blank content", body: completion("  "), wantErr: "empty completion"},
		{
			name: "refusal",
			body: map[string]any{"choices": []any{
				map[string]any{"message": map[string]any{"refusal": "I can't help with that."}},
			}},
			wantErr: "model refused",
		},
		{
			name:    "error object",
			body:    map[string]any{"error": map[string]any{"message": "quota"}},
			wantErr: "api error: quota",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.body)
			}))
			defer srv.Close()

			c := generator.NewOpenAIClient(generator.OpenAIConfig{BaseURL: srv.URL})
			_, err := c.Generate(context.Background(), testPrompt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := generator.NewOpenAIClient(generator.OpenAIConfig{BaseURL: srv.URL, RetryBackoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, testPrompt)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
