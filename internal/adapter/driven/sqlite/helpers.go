package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

// millisToTime converts a nullable epoch-millis column to a time, zero when NULL.
func millisToTime(ms sql.NullInt64) time.Time {
	if !ms.Valid {
		return time.Time{}
	}
	return time.UnixMilli(ms.Int64).UTC()
}

// timeToMillis converts a job submission time to a nullable epoch-millis value.
func timeToMillis(job model.Job) sql.NullInt64 {
	if job.TimeSubmitted.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: job.TimeSubmittedMillis(), Valid: true}
}
