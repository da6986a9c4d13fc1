// Package render turns query results and SQL into the markdown shown in the
// chat surfaces.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

// ResultsTable renders a markdown table under a **Results:** heading.
// Columns fix the display order; rows are keyed by column name. Integers
// and floats get thousands separators, floats always carry two decimals,
// and nil renders as NULL.
func ResultsTable(columns []string, rows []map[string]any) string {
	if len(rows) == 0 {
		return "No results found."
	}

	var b strings.Builder
	b.WriteString("**Results:**\n\n")
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	separators := make([]string, len(columns))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i] = FormatValue(row[column])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatValue renders a single cell.
func FormatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "NULL"
	case float64:
		return groupThousands(strconv.FormatFloat(typed, 'f', 2, 64))
	case float32:
		return groupThousands(strconv.FormatFloat(float64(typed), 'f', 2, 64))
	case int:
		return groupThousands(strconv.FormatInt(int64(typed), 10))
	case int32:
		return groupThousands(strconv.FormatInt(int64(typed), 10))
	case int64:
		return groupThousands(strconv.FormatInt(typed, 10))
	case uint64:
		return groupThousands(strconv.FormatUint(typed, 10))
	case bool:
		return strconv.FormatBool(typed)
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// WrapSQL reflows a SQL statement at word boundaries so long generated
// queries stay readable in chat bubbles.
func WrapSQL(sql string, width int) string {
	if width <= 0 {
		width = 60
	}
	words := strings.Fields(sql)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)
	return strings.Join(lines, "\n")
}

func groupThousands(number string) string {
	sign := ""
	if strings.HasPrefix(number, "-") {
		sign = "-"
		number = number[1:]
	}
	intPart := number
	fracPart := ""
	if dot := strings.IndexByte(number, '.'); dot >= 0 {
		intPart = number[:dot]
		fracPart = number[dot:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	return sign + strings.Join(groups, ",") + fracPart
}
