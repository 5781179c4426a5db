package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"
)

// unixTime stores a time.Time as Unix nanoseconds. The zero time maps to
// NULL and back, and scanned values are in UTC.
type unixTime time.Time

func (t unixTime) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return time.Time(t).UnixNano(), nil
}

func (t *unixTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = unixTime{}
	case int64:
		*t = unixTime(time.Unix(0, v).UTC())
	default:
		return fmt.Errorf("unixTime: cannot scan %T", src)
	}
	return nil
}

// optString stores "" as NULL.
type optString string

func (s optString) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	return string(s), nil
}

func (s *optString) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*s = optString(ns.String)
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](
	ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any,
) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// execCount runs a statement and reports the affected row count.
func execCount(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
