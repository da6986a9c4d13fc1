package nl2sql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gen, err := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4"})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator() error = %v", err)
	}
	return gen
}

func toolCallResponse(arguments string) string {
	return `{"choices":[{"message":{"tool_calls":[{"function":{"name":"generate_sql_query","arguments":` + arguments + `}}]}}]}`
}

func TestGenerateForcesToolCall(t *testing.T) {
	var captured map[string]any
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		_, _ = io.WriteString(w, toolCallResponse(`"{\"query\":\"SELECT 1\",\"rationale\":\"smoke\"}"`))
	})

	got, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Query != "SELECT 1" || got.Rationale != "smoke" {
		t.Fatalf("Generate() = %+v", got)
	}

	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", captured["messages"])
	}
	first, _ := messages[0].(map[string]any)
	second, _ := messages[1].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("first message role = %v", first["role"])
	}
	if second["role"] != "user" || second["content"] != "prompt" {
		t.Fatalf("second message = %v", second)
	}

	choice, ok := captured["tool_choice"].(map[string]any)
	if !ok {
		t.Fatalf("tool_choice missing from payload: %v", captured)
	}
	fn, _ := choice["function"].(map[string]any)
	if fn["name"] != "generate_sql_query" {
		t.Fatalf("tool_choice function = %v", fn)
	}
}

func TestGenerateNoToolCalls(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"SELECT 1"}}]}`)
	})
	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrNoToolCall) {
		t.Fatalf("Generate() error = %v, want ErrNoToolCall", err)
	}
}

func TestGenerateMalformedArguments(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, toolCallResponse(`"{not json"`))
	})
	_, err := gen.Generate(context.Background(), "prompt")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Generate() error = %v, want ParseError", err)
	}
}

func TestGenerateIncompleteArguments(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, toolCallResponse(`"{\"query\":\"SELECT 1\",\"rationale\":\"\"}"`))
	})
	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrIncompleteResult) {
		t.Fatalf("Generate() error = %v, want ErrIncompleteResult", err)
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	_, err := gen.Generate(context.Background(), "prompt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate() error = %v, want APIError", err)
	}
}

func TestBuildPromptLayout(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	prompt := BuildPrompt("Top customers by revenue?", now, "CREATE TABLE customers (id INTEGER);", "Business Context:\n- Segments")

	if !strings.HasPrefix(prompt, "You are an SQL expert.") {
		t.Fatalf("unexpected prompt prefix: %q", prompt[:40])
	}
	for _, want := range []string{
		"Current date: 2025-03-14",
		"Database Schema:\nCREATE TABLE customers (id INTEGER);",
		"Business Context:\n- Segments",
		"User Question: Top customers by revenue?",
		"Limit results to 5 rows unless specified otherwise",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
}
