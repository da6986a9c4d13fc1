package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const toolName = "generate_sql_query"

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIGenerator calls any OpenAI-compatible chat completions endpoint and
// forces the model through the generate_sql_query tool.
type OpenAIGenerator struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIGenerator{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (GeneratedQuery, error) {
	body, err := json.Marshal(buildPayload(g.model, g.temperature, prompt))
	if err != nil {
		return GeneratedQuery{}, &APIError{Err: fmt.Errorf("marshal chat payload: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return GeneratedQuery{}, &APIError{Err: fmt.Errorf("build chat request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GeneratedQuery{}, &APIError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return GeneratedQuery{}, &APIError{Err: fmt.Errorf("read chat response body: %w", err)}
	}
	if resp.StatusCode >= 400 {
		return GeneratedQuery{}, &APIError{Err: fmt.Errorf("chat completion failed status=%d body=%s", resp.StatusCode, string(raw))}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return GeneratedQuery{}, &ParseError{Err: fmt.Errorf("decode chat completion response: %w", err)}
	}
	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.ToolCalls) == 0 {
		return GeneratedQuery{}, ErrNoToolCall
	}

	call := parsed.Choices[0].Message.ToolCalls[0].Function
	var out GeneratedQuery
	if err := json.Unmarshal([]byte(call.Arguments), &out); err != nil {
		return GeneratedQuery{}, &ParseError{Err: fmt.Errorf("decode %s arguments: %w", toolName, err)}
	}
	if strings.TrimSpace(out.Query) == "" || strings.TrimSpace(out.Rationale) == "" {
		return GeneratedQuery{}, ErrIncompleteResult
	}
	return out, nil
}

func buildPayload(model string, temperature float64, prompt string) map[string]any {
	return map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are an expert in converting business questions into SQL queries."},
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"tools": []map[string]any{
			{
				"type": "function",
				"function": map[string]any{
					"name":        toolName,
					"description": "Generate a SQL query from a natural language question",
					"parameters": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"query": map[string]any{
								"type":        "string",
								"description": "The SQL query to run",
							},
							"rationale": map[string]any{
								"type":        "string",
								"description": "Short explanation of how the query answers the question",
							},
						},
						"required":             []string{"query", "rationale"},
						"additionalProperties": false,
					},
				},
			},
		},
		"tool_choice": map[string]any{
			"type":     "function",
			"function": map[string]string{"name": toolName},
		},
	}
}
