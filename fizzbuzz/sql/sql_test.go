package sql

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/format"
)

func setupTestDB(t *testing.T, n int) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE readings (
			id INTEGER PRIMARY KEY,
			value INTEGER NOT NULL,
			ratio REAL NOT NULL,
			label TEXT
		)
	`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO readings (id, value, ratio, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		t.Fatalf("failed to prepare: %v", err)
	}
	for i := 1; i <= n; i++ {
		if _, err := stmt.Exec(i, i, float64(i)/2, "x"); err != nil {
			t.Fatalf("failed to insert data: %v", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return db
}

func TestInt64s(t *testing.T) {
	db := setupTestDB(t, 15)
	defer db.Close()

	outcomes, err := batch.Integers(context.Background(), nil, Int64s(db, "SELECT value FROM readings ORDER BY id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1, 2, fizz, 4, buzz, fizz, 7, 8, fizz, buzz, 11, fizz, 13, 14, fizzbuzz"
	if got := format.Joined(outcomes); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQueryWithArgs(t *testing.T) {
	db := setupTestDB(t, 30)
	defer db.Close()

	b := Int64s(db, "SELECT value FROM readings WHERE value > ? AND value <= ? ORDER BY id", 10, 15)
	if b.Len() != batch.UnknownLen {
		t.Errorf("Len() = %d, want UnknownLen", b.Len())
	}

	outcomes, err := batch.Integers(context.Background(), nil, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"11", "fizz", "13", "14", "fizzbuzz"}
	if got := format.Strings(outcomes); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFloat64s(t *testing.T) {
	db := setupTestDB(t, 7)
	defer db.Close()

	outcomes, err := batch.Floats(context.Background(), nil, Float64s(db, "SELECT ratio FROM readings ORDER BY id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"0.5", "1", "1.5", "2", "2.5", "fizz", "3.5"}
	if got := format.Strings(outcomes); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestQueryHint(t *testing.T) {
	db := setupTestDB(t, 2_000)
	defer db.Close()
	ctx := context.Background()

	n, err := Count(ctx, db, "SELECT COUNT(*) FROM readings")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2_000 {
		t.Fatalf("Count = %d, want 2000", n)
	}

	scan := func(rows *sql.Rows) (int, error) {
		var v int
		err := rows.Scan(&v)
		return v, err
	}
	b := QueryHint(db, "SELECT value FROM readings ORDER BY id", n, scan)

	for _, threshold := range []int{n + 1, n} {
		var mode batch.Mode
		ctx := batch.WithHooks(ctx, batch.Hooks{
			OnDispatch: func(d batch.Dispatch) { mode = d.Mode },
		})
		p := batch.New(batch.WithThreshold(threshold), batch.WithChunkSize(128))

		outcomes, err := batch.Integers(ctx, p, b)
		if err != nil {
			t.Fatalf("threshold %d: unexpected error: %v", threshold, err)
		}
		if len(outcomes) != n {
			t.Fatalf("threshold %d: got %d outcomes", threshold, len(outcomes))
		}
		if want := p.ModeFor(n); mode != want {
			t.Errorf("threshold %d: mode = %v, want %v", threshold, mode, want)
		}
		if outcomes[1_499].String() != "fizzbuzz" {
			t.Errorf("row 1500 = %v", outcomes[1_499])
		}
	}

	if QueryHint(db, "SELECT 1", -7, scan).Len() != batch.UnknownLen {
		t.Error("negative hints should be treated as unknown")
	}
}

func TestQueryErrors(t *testing.T) {
	db := setupTestDB(t, 3)
	defer db.Close()
	ctx := context.Background()

	t.Run("bad query", func(t *testing.T) {
		_, err := batch.Integers(ctx, nil, Int64s(db, "SELECT nope FROM missing"))
		if err == nil || !strings.HasPrefix(err.Error(), "query:") {
			t.Errorf("got %v, want a query error", err)
		}
	})

	t.Run("scan error", func(t *testing.T) {
		_, err := batch.Integers(ctx, nil, Int64s(db, "SELECT label FROM readings"))
		if err == nil || !strings.Contains(err.Error(), "scan row 0") {
			t.Errorf("got %v, want a scan error", err)
		}
	})

	t.Run("scanner error", func(t *testing.T) {
		errRejected := errors.New("rejected")
		b := Query(db, "SELECT value FROM readings ORDER BY id", func(rows *sql.Rows) (int, error) {
			var v int
			if err := rows.Scan(&v); err != nil {
				return 0, err
			}
			if v == 2 {
				return 0, errRejected
			}
			return v, nil
		})
		_, err := batch.Integers(ctx, nil, b)
		if !errors.Is(err, errRejected) {
			t.Errorf("got %v, want %v", err, errRejected)
		}
	})

	t.Run("count error", func(t *testing.T) {
		if _, err := Count(ctx, db, "SELECT label FROM readings WHERE id = 1"); err == nil {
			t.Error("expected a scan error for a text count")
		}
	})
}
