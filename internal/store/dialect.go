package store

import (
	"fmt"
	"strings"
)

// Dialect abstracts the differences between the supported drivers. Queries
// are written with ? placeholders and rebound for postgres.
type Dialect interface {
	// DriverName is the database/sql driver to open.
	DriverName() string
	// Rebind rewrites ? placeholders into the driver's native form.
	Rebind(query string) string
	// JSONType is the column type used for JSON definitions.
	JSONType() string
	// Now is the SQL expression for the current timestamp.
	Now() string
}

func NewDialect(driver string) Dialect {
	if driver == "sqlite" {
		return sqliteDialect{}
	}
	return postgresDialect{}
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "pgx" }
func (postgresDialect) JSONType() string { return "JSONB" }
func (postgresDialect) Now() string { return "NOW()" }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) JSONType() string { return "TEXT" }
func (sqliteDialect) Now() string { return "CURRENT_TIMESTAMP" }
func (sqliteDialect) Rebind(query string) string { return query }
