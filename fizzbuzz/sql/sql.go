// Package sql provides batch sources backed by database/sql queries.
// Rows are streamed while the batch is being classified, so a large result
// set is never materialized before dispatch.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// Scanner is a function that scans a row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

type queryBatch[T any] struct {
	db      *sql.DB
	query   string
	scanner Scanner[T]
	args    []any
	hint    int
}

// Query creates a Batch that executes a query and yields one value per row.
// The scanner function is called for each row to convert it to the value
// type. The size is unknown, so the batch is dispatched to the parallel
// path; use QueryHint when the row count can be estimated.
func Query[T any](db *sql.DB, query string, scanner Scanner[T], args ...any) batch.Batch[T] {
	return QueryHint(db, query, batch.UnknownLen, scanner, args...)
}

// QueryHint creates a Query batch with an estimated row count. The estimate
// only steers the dispatch decision.
func QueryHint[T any](db *sql.DB, query string, hint int, scanner Scanner[T], args ...any) batch.Batch[T] {
	if hint < 0 {
		hint = batch.UnknownLen
	}
	return queryBatch[T]{db: db, query: query, scanner: scanner, args: args, hint: hint}
}

func (q queryBatch[T]) Len() int { return q.hint }

// Values executes the query when iteration starts. A query, scan or row
// error ends the batch.
func (q queryBatch[T]) Values(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		rows, err := q.db.QueryContext(ctx, q.query, q.args...)
		if err != nil {
			yield(zero, fmt.Errorf("query: %w", err))
			return
		}
		defer rows.Close()

		row := 0
		for rows.Next() {
			value, err := q.scanner(rows)
			if err != nil {
				yield(zero, fmt.Errorf("scan row %d: %w", row, err))
				return
			}
			if !yield(value, nil) {
				return
			}
			row++
		}
		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("rows: %w", err))
		}
	}
}

// Int64s is a convenience function that reads the first column of each row
// as an int64.
func Int64s(db *sql.DB, query string, args ...any) batch.Batch[int64] {
	return Query(db, query, func(rows *sql.Rows) (int64, error) {
		var n int64
		err := rows.Scan(&n)
		return n, err
	}, args...)
}

// Float64s is a convenience function that reads the first column of each
// row as a float64.
func Float64s(db *sql.DB, query string, args ...any) batch.Batch[float64] {
	return Query(db, query, func(rows *sql.Rows) (float64, error) {
		var x float64
		err := rows.Scan(&x)
		return x, err
	}, args...)
}

// Count runs a query expected to return a single integer, typically
// SELECT COUNT(*), and returns it for use as a QueryHint estimate.
func Count(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
