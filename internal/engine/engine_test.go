package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/windforest/windforest/internal/nl2sql"
	"github.com/windforest/windforest/internal/query"
)

type fakeGenerator struct {
	prompt string
	result nl2sql.GeneratedQuery
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (nl2sql.GeneratedQuery, error) {
	f.prompt = prompt
	return f.result, f.err
}

type fakeExecutor struct {
	request query.Request
	called  bool
	result  query.Result
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, request query.Request) (query.Result, error) {
	f.called = true
	f.request = request
	return f.result, f.err
}

func newTestEngine(gen *fakeGenerator, exec *fakeExecutor) *Engine {
	e := New(gen, exec, slog.New(slog.DiscardHandler))
	e.now = func() time.Time { return time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC) }
	return e
}

func TestProcessQuerySuccess(t *testing.T) {
	gen := &fakeGenerator{result: nl2sql.GeneratedQuery{
		Query:     "SELECT name, clv FROM customers ORDER BY clv DESC LIMIT 5",
		Rationale: "Rank customers by lifetime value.",
	}}
	exec := &fakeExecutor{result: query.Result{
		Columns: []string{"name", "clv"},
		Rows: [][]any{
			{"Ada", float64(15000)},
			{"Grace", float64(12000)},
		},
	}}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "Who are our top customers by lifetime value?")

	if envelope.Failed() {
		t.Fatalf("envelope error = %q", envelope.Error)
	}
	if envelope.Query != gen.result.Query || envelope.Rationale != gen.result.Rationale {
		t.Fatalf("envelope = %+v", envelope)
	}
	if len(envelope.Results) != 2 {
		t.Fatalf("results = %d rows", len(envelope.Results))
	}
	if envelope.Results[0]["name"] != "Ada" || envelope.Results[0]["clv"] != float64(15000) {
		t.Fatalf("first row = %v", envelope.Results[0])
	}
	if exec.request.RowLimit != RowLimit {
		t.Fatalf("RowLimit = %d", exec.request.RowLimit)
	}
	if exec.request.SQL != gen.result.Query {
		t.Fatalf("executor received rewritten SQL: %q", exec.request.SQL)
	}
}

func TestProcessQueryPromptCarriesQuestionAndDate(t *testing.T) {
	gen := &fakeGenerator{err: nl2sql.ErrNoToolCall}
	_ = newTestEngine(gen, &fakeExecutor{}).ProcessQuery(context.Background(), "How many orders shipped in July?")

	if !strings.Contains(gen.prompt, "User Question: How many orders shipped in July?") {
		t.Fatalf("prompt is missing the question: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Current date: 2025-03-14") {
		t.Fatal("prompt is missing the injected date")
	}
	if !strings.Contains(gen.prompt, "CREATE TABLE customers") {
		t.Fatal("prompt is missing the schema")
	}
}

func TestProcessQueryAPIFailure(t *testing.T) {
	gen := &fakeGenerator{err: &nl2sql.APIError{Err: errors.New("context deadline exceeded")}}
	exec := &fakeExecutor{}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if envelope.Error != "OpenAI API call failed: context deadline exceeded" {
		t.Fatalf("error = %q", envelope.Error)
	}
	if exec.called {
		t.Fatal("executor ran after generation failure")
	}
	if envelope.Query != "" || envelope.Results != nil {
		t.Fatalf("failure envelope carries success fields: %+v", envelope)
	}
}

func TestProcessQueryNoToolCall(t *testing.T) {
	gen := &fakeGenerator{err: nl2sql.ErrNoToolCall}

	envelope := newTestEngine(gen, &fakeExecutor{}).ProcessQuery(context.Background(), "q")

	if envelope.Error != "No tool calls found in the response" {
		t.Fatalf("error = %q", envelope.Error)
	}
	if strings.Contains(envelope.Error, "CREATE TABLE") {
		t.Fatal("schema leaked into the error message")
	}
}

func TestProcessQueryParseFailure(t *testing.T) {
	gen := &fakeGenerator{err: &nl2sql.ParseError{Err: errors.New("unexpected end of JSON input")}}

	envelope := newTestEngine(gen, &fakeExecutor{}).ProcessQuery(context.Background(), "q")

	if envelope.Error != "Failed to parse OpenAI response: unexpected end of JSON input" {
		t.Fatalf("error = %q", envelope.Error)
	}
}

func TestProcessQueryIncompleteResult(t *testing.T) {
	gen := &fakeGenerator{err: nl2sql.ErrIncompleteResult}
	exec := &fakeExecutor{}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if envelope.Error != "Missing query or rationale in the response" {
		t.Fatalf("error = %q", envelope.Error)
	}
	if exec.called {
		t.Fatal("executor ran for incomplete generation")
	}
}

func TestProcessQueryGuardsEmptyFields(t *testing.T) {
	gen := &fakeGenerator{result: nl2sql.GeneratedQuery{Query: "SELECT 1", Rationale: "  "}}
	exec := &fakeExecutor{}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if envelope.Error != "Missing query or rationale in the response" {
		t.Fatalf("error = %q", envelope.Error)
	}
	if exec.called {
		t.Fatal("executor ran with incomplete generation result")
	}
}

func TestProcessQueryExecutionFailure(t *testing.T) {
	gen := &fakeGenerator{result: nl2sql.GeneratedQuery{
		Query:     "SELECT * FROM nonexistent_table",
		Rationale: "look it up",
	}}
	exec := &fakeExecutor{err: fmt.Errorf("table nonexistent_table does not exist")}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if envelope.Error != "SQL execution failed: table nonexistent_table does not exist" {
		t.Fatalf("error = %q", envelope.Error)
	}
}

func TestProcessQueryRejectsNonSelect(t *testing.T) {
	gen := &fakeGenerator{result: nl2sql.GeneratedQuery{
		Query:     "DROP TABLE customers",
		Rationale: "remove customers",
	}}
	exec := &fakeExecutor{}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if !strings.HasPrefix(envelope.Error, "SQL execution failed:") {
		t.Fatalf("error = %q", envelope.Error)
	}
	if exec.called {
		t.Fatal("executor ran a non-select statement")
	}
}

func TestProcessQueryAllowsCTE(t *testing.T) {
	gen := &fakeGenerator{result: nl2sql.GeneratedQuery{
		Query:     "WITH top AS (SELECT customer_id FROM orders) SELECT * FROM top",
		Rationale: "cte",
	}}
	exec := &fakeExecutor{result: query.Result{Columns: []string{"customer_id"}}}

	envelope := newTestEngine(gen, exec).ProcessQuery(context.Background(), "q")

	if envelope.Failed() {
		t.Fatalf("envelope error = %q", envelope.Error)
	}
	if !exec.called {
		t.Fatal("executor never ran")
	}
}
