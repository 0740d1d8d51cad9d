// Package warehouse provides warehouse clients and the SQL they run to
// measure historic data depth of input tables.
package warehouse

import (
	"fmt"
	"regexp"

	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Identifiers are interpolated into SQL, so they carry a strict shape:
// dotted parts of word characters only, nothing an injection could ride on.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// ValidateIdentifier rejects table and column names that could not have come
// from a project configuration.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier is empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier %q contains characters outside [A-Za-z0-9_$.]", name)
	}
	return nil
}

// BuildStatsQuery renders the aggregate query that measures how deep an input
// table's event history goes. The day-difference expression is the only part
// that varies by dialect.
func BuildStatsQuery(dialect values.Dialect, table, column string) (string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return "", fmt.Errorf("invalid table name: %w", err)
	}
	if err := ValidateIdentifier(column); err != nil {
		return "", fmt.Errorf("invalid column name: %w", err)
	}

	var dateDiff string
	switch dialect {
	case values.DialectBigQuery:
		dateDiff = fmt.Sprintf("DATE_DIFF(DATE(MAX(%s)), DATE(MIN(%s)), DAY)", column, column)
	case values.DialectPostgres:
		// Plain Postgres has no DATEDIFF; date subtraction yields days.
		dateDiff = fmt.Sprintf("(MAX(%s)::date - MIN(%s)::date)", column, column)
	default:
		dateDiff = fmt.Sprintf("DATEDIFF(day, MIN(%s), MAX(%s))", column, column)
	}

	query := fmt.Sprintf(`SELECT
    CAST(MIN(%[1]s) AS VARCHAR) AS min_date,
    CAST(MAX(%[1]s) AS VARCHAR) AS max_date,
    %[2]s AS date_range_days,
    COUNT(*) AS total_rows
FROM %[3]s
WHERE %[1]s IS NOT NULL`, column, dateDiff, table)

	return query, nil
}
