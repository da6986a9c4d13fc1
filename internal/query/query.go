// Package query defines the execution boundary between the chat pipeline and
// the analytical database.
package query

import (
	"context"
	"time"
)

// Request carries a single SQL statement to execute. The statement runs
// exactly as written; RowLimit caps how many rows are read back, it never
// rewrites the SQL.
type Request struct {
	SQL      string
	RowLimit int
}

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

type Engine interface {
	Execute(ctx context.Context, request Request) (Result, error)
}
