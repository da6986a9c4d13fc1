// Package nl2sql turns a business question into a SQL query by calling an
// OpenAI-compatible chat completion endpoint with a forced tool call. The
// model must answer through the generate_sql_query function, which pins the
// response shape to a query plus a rationale.
package nl2sql

import (
	"context"
	"errors"
)

// GeneratedQuery is the structured result of a successful generation.
type GeneratedQuery struct {
	Query     string `json:"query"`
	Rationale string `json:"rationale"`
}

// Generator produces a SQL query and rationale for a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (GeneratedQuery, error)
}

// Sentinel failures for the distinct ways a completion can go wrong. Callers
// match on these to build user-facing error envelopes.
var (
	// ErrNoToolCall means the model answered without invoking the forced tool.
	ErrNoToolCall = errors.New("no tool calls in response")

	// ErrIncompleteResult means the tool arguments parsed but query or
	// rationale was empty.
	ErrIncompleteResult = errors.New("missing query or rationale")
)

// APIError wraps transport and HTTP-level failures talking to the provider.
type APIError struct {
	Err error
}

func (e *APIError) Error() string { return "chat completion request failed: " + e.Err.Error() }

func (e *APIError) Unwrap() error { return e.Err }

// ParseError wraps failures decoding the completion body or the tool
// arguments inside it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse chat completion: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
