// Package seed builds the synthetic bookstore dataset. Generation is
// deterministic for a given seed so environments can be reproduced.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/windforest/windforest/internal/schema"
)

// Options sizes the generated dataset. The defaults match the reference
// dataset the business context text was written against.
type Options struct {
	Seed         int64
	Customers    int
	Employees    int
	Suppliers    int
	Categories   int
	Authors      int
	Books        int
	Shippers     int
	Orders       int
	OrderItems   int
	Interactions int
}

func DefaultOptions() Options {
	return Options{
		Seed:         42,
		Customers:    1000,
		Employees:    50,
		Suppliers:    100,
		Categories:   20,
		Authors:      500,
		Books:        5000,
		Shippers:     10,
		Orders:       10000,
		OrderItems:   30000,
		Interactions: 2000,
	}
}

// ApplySchema creates all tables. Statements run one at a time so a failure
// points at the table that caused it.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, statement := range strings.Split(schema.DDL(), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
