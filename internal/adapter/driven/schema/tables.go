// Package schema holds the table naming shared by the SQL adapters and renders
// their embedded migrations for the configured table names.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Default table names used when none are configured.
const (
	DefaultJobsTable     = "print_jobs"
	DefaultSequenceTable = "next_job_id"
	DefaultClientsTable  = "clients"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,47}$`)

// Tables names the three logical tables of the broker.
type Tables struct {
	Jobs     string
	Sequence string
	Clients  string
}

// DefaultTables returns the default table names.
func DefaultTables() Tables {
	return Tables{
		Jobs:     DefaultJobsTable,
		Sequence: DefaultSequenceTable,
		Clients:  DefaultClientsTable,
	}
}

// Validate checks that every name is a plain SQL identifier and that the three
// names are distinct. Names are interpolated into DDL and queries, so anything
// else is rejected.
func (t Tables) Validate() error {
	var errs []error
	for _, f := range []struct{ field, name string }{
		{"jobs", t.Jobs},
		{"sequence", t.Sequence},
		{"clients", t.Clients},
	} {
		if !identPattern.MatchString(f.name) {
			errs = append(errs, fmt.Errorf("%s table name %q is not a valid identifier", f.field, f.name))
		}
	}
	if t.Jobs == t.Sequence || t.Jobs == t.Clients || t.Sequence == t.Clients {
		errs = append(errs, errors.New("table names must be distinct"))
	}
	return errors.Join(errs...)
}

// MigrationsTable names the migration bookkeeping table for this table set, so
// two brokers with different table names can share a database.
func (t Tables) MigrationsTable() string {
	return t.Jobs + "_schema_migrations"
}

// Quote returns name as a double-quoted SQL identifier.
func Quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
