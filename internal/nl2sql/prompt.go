package nl2sql

import (
	"fmt"
	"strings"
	"time"
)

// BuildPrompt renders the single user message sent to the model. The schema
// and business context are inlined whole so generation never depends on
// database introspection at request time.
func BuildPrompt(question string, now time.Time, ddl, businessContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an SQL expert. Convert the following business question into a precise DuckDB query. Current date: %s\n\n", now.Format("2006-01-02"))
	b.WriteString("Database Schema:\n")
	b.WriteString(ddl)
	b.WriteString("\n\n")
	b.WriteString(businessContext)
	b.WriteString("\n\nUser Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Return only valid DuckDB SQL syntax\n")
	b.WriteString("- Use appropriate JOINs based on the schema relationships\n")
	b.WriteString("- Consider data patterns and business rules\n")
	b.WriteString("- Limit results to 5 rows unless specified otherwise")
	return b.String()
}
