package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/windforest/windforest/internal/query"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestExecuteRunsStatementVerbatim(t *testing.T) {
	engine := openTestEngine(t)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT 1 AS one, 'a' AS letter",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "one" || result.Columns[1] != "letter" {
		t.Fatalf("columns = %v", result.Columns)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d", len(result.Rows))
	}
	if result.Rows[0][1] != "a" {
		t.Fatalf("value = %#v", result.Rows[0][1])
	}
}

func TestExecuteRowLimitStopsScanning(t *testing.T) {
	engine := openTestEngine(t)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL:      "SELECT * FROM range(100)",
		RowLimit: 5,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(result.Rows))
	}
}

func TestExecuteRejectsEmptySQL(t *testing.T) {
	engine := openTestEngine(t)

	if _, err := engine.Execute(context.Background(), query.Request{SQL: "   "}); err == nil {
		t.Fatal("Execute() accepted empty SQL")
	}
}

func TestExecuteSurfacesDatabaseErrors(t *testing.T) {
	engine := openTestEngine(t)

	if _, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT * FROM missing_table"}); err == nil {
		t.Fatal("Execute() succeeded against a missing table")
	}
}
