package values

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL dialect spoken by a warehouse client. It is used
// only to select the date-difference expression form in verification queries.
type Dialect string

const (
	DialectSnowflake  Dialect = "snowflake"
	DialectBigQuery   Dialect = "bigquery"
	DialectRedshift   Dialect = "redshift"
	DialectDatabricks Dialect = "databricks"
	DialectPostgres   Dialect = "postgres"
)

// ParseDialect converts a string into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snowflake":
		return DialectSnowflake, nil
	case "bigquery":
		return DialectBigQuery, nil
	case "redshift":
		return DialectRedshift, nil
	case "databricks":
		return DialectDatabricks, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("invalid warehouse dialect: %s", s)
	}
}

// String returns the string representation.
func (d Dialect) String() string {
	return string(d)
}
