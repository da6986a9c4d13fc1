// Package engine orchestrates the text-to-SQL pipeline: build the prompt,
// generate a query through the forced tool call, validate it, execute it,
// and fold every failure into the envelope the callers show verbatim.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/windforest/windforest/internal/nl2sql"
	"github.com/windforest/windforest/internal/observability"
	"github.com/windforest/windforest/internal/query"
	"github.com/windforest/windforest/internal/schema"
)

// RowLimit caps how many result rows a single question can return. The
// prompt asks the model for the same limit; the executor enforces it.
const RowLimit = 5

// Envelope is the terminal result of processing one question. Exactly one
// of Error or the Query/Rationale/Results triple is populated.
type Envelope struct {
	Query     string           `json:"query,omitempty"`
	Rationale string           `json:"rationale,omitempty"`
	Columns   []string         `json:"columns,omitempty"`
	Results   []map[string]any `json:"results,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func (e Envelope) Failed() bool { return e.Error != "" }

type Engine struct {
	generator nl2sql.Generator
	executor  query.Engine
	logger    *slog.Logger
	now       func() time.Time
}

func New(generator nl2sql.Generator, executor query.Engine, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		generator: generator,
		executor:  executor,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessQuery runs the full pipeline for one question. It never returns an
// error; every failure is folded into the envelope so callers have a single
// surface to render.
func (e *Engine) ProcessQuery(ctx context.Context, question string) Envelope {
	prompt := nl2sql.BuildPrompt(question, e.now(), schema.DDL(), schema.BusinessContext())

	generated, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return e.generationFailure(ctx, err)
	}

	// The client already rejects empty fields; guard again so a misbehaving
	// Generator implementation cannot push an empty statement to execution.
	if strings.TrimSpace(generated.Query) == "" || strings.TrimSpace(generated.Rationale) == "" {
		observability.IncrementGenerationFailure("incomplete_result")
		return Envelope{Error: "Missing query or rationale in the response"}
	}

	if !isReadOnlyStatement(generated.Query) {
		observability.IncrementSQLExecutionFailure()
		e.logger.WarnContext(ctx, "rejected non-select statement", slog.String("query", generated.Query))
		return Envelope{Error: "SQL execution failed: only SELECT statements are allowed"}
	}

	result, err := e.executor.Execute(ctx, query.Request{SQL: generated.Query, RowLimit: RowLimit})
	if err != nil {
		observability.IncrementSQLExecutionFailure()
		e.logger.WarnContext(ctx, "query execution failed",
			slog.String("query", generated.Query),
			slog.String("error", err.Error()))
		return Envelope{Error: "SQL execution failed: " + err.Error()}
	}

	e.logger.InfoContext(ctx, "query executed",
		slog.Int("rows", len(result.Rows)),
		slog.Duration("duration", result.Duration))

	return Envelope{
		Query:     generated.Query,
		Rationale: generated.Rationale,
		Columns:   result.Columns,
		Results:   rowsToMaps(result.Columns, result.Rows),
	}
}

func (e *Engine) generationFailure(ctx context.Context, err error) Envelope {
	var apiErr *nl2sql.APIError
	var parseErr *nl2sql.ParseError

	switch {
	case errors.Is(err, nl2sql.ErrNoToolCall):
		observability.IncrementGenerationFailure("no_tool_call")
		e.logger.WarnContext(ctx, "model returned no tool call")
		return Envelope{Error: "No tool calls found in the response"}
	case errors.Is(err, nl2sql.ErrIncompleteResult):
		observability.IncrementGenerationFailure("incomplete_result")
		e.logger.WarnContext(ctx, "model returned incomplete tool arguments")
		return Envelope{Error: "Missing query or rationale in the response"}
	case errors.As(err, &parseErr):
		observability.IncrementGenerationFailure("parse_error")
		e.logger.WarnContext(ctx, "failed to parse model response", slog.String("error", parseErr.Err.Error()))
		return Envelope{Error: "Failed to parse OpenAI response: " + parseErr.Err.Error()}
	case errors.As(err, &apiErr):
		observability.IncrementGenerationFailure("api_failure")
		e.logger.WarnContext(ctx, "chat completion call failed", slog.String("error", apiErr.Err.Error()))
		return Envelope{Error: "OpenAI API call failed: " + apiErr.Err.Error()}
	default:
		observability.IncrementGenerationFailure("api_failure")
		e.logger.WarnContext(ctx, "chat completion call failed", slog.String("error", err.Error()))
		return Envelope{Error: "OpenAI API call failed: " + err.Error()}
	}
}

// isReadOnlyStatement admits plain SELECT queries, optionally opened by a
// WITH clause. Everything else is refused before it reaches the database.
func isReadOnlyStatement(sqlText string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(sqlText))
	return strings.HasPrefix(trimmed, "SELECT") || strings.HasPrefix(trimmed, "WITH")
}

func rowsToMaps(columns []string, rows [][]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := make(map[string]any, len(columns))
		for i, column := range columns {
			if i < len(row) {
				entry[column] = row[i]
			}
		}
		out = append(out, entry)
	}
	return out
}
