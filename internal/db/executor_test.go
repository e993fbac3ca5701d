package db

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/nadc-tools/inquire/internal/query"
)

// fakeRows replays canned row values through the pgx.Rows surface.
type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Scan(dest ...any) error                       { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

// fakeDB records every statement and answers with per-statement row sets.
type fakeDB struct {
	executed []string
	answer   func(sql string) [][]any
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.executed = append(f.executed, sql)
	return &fakeRows{rows: f.answer(sql)}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestStream(t *testing.T) {
	fake := &fakeDB{
		answer: func(sql string) [][]any {
			return [][]any{
				{"SCI_NL__1P_A", "SCIA/8.02"},
				{"SCI_NL__1P_B", "SCIA/8.02"},
			}
		},
	}
	exec := New(fake, zerolog.Nop())

	plan := &query.Plan{
		Projection: []string{"name", "softVersion"},
		From:       "meta__1P",
	}

	var names []string
	err := exec.Stream(context.Background(), plan, func(row []any) error {
		names = append(names, row[0].(string))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.executed) != 1 {
		t.Fatalf("expected one statement, got %d", len(fake.executed))
	}
	if fake.executed[0] != "SELECT name,softVersion FROM meta__1P" {
		t.Errorf("unexpected statement: %q", fake.executed[0])
	}
	if len(names) != 2 || names[0] != "SCI_NL__1P_A" || names[1] != "SCI_NL__1P_B" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestStream_SecondaryPerRow(t *testing.T) {
	fake := &fakeDB{}
	fake.answer = func(sql string) [][]any {
		if strings.Contains(sql, "softVersion='") {
			return [][]any{{"GOME_RESOLVED_NAME"}}
		}
		return [][]any{{int64(4000), "GDP/4.1"}}
	}
	exec := New(fake, zerolog.Nop())

	plan := &query.Plan{
		Projection: []string{"absOrbit", "MAX(softVersion)"},
		From:       "meta__2P",
		GroupBy:    []string{"absOrbit"},
		Secondary:  "SELECT name FROM meta__2P WHERE absOrbit=%d AND softVersion='%s'",
	}

	var names []string
	err := exec.Stream(context.Background(), plan, func(row []any) error {
		names = append(names, row[0].(string))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.executed) != 2 {
		t.Fatalf("expected primary plus one secondary statement, got %d", len(fake.executed))
	}
	want := "SELECT name FROM meta__2P WHERE absOrbit=4000 AND softVersion='GDP/4.1'"
	if fake.executed[1] != want {
		t.Errorf("expected secondary %q, got %q", want, fake.executed[1])
	}
	if len(names) != 1 || names[0] != "GOME_RESOLVED_NAME" {
		t.Errorf("expected the secondary row to reach the callback, got %v", names)
	}
}

func TestStream_SecondaryWithoutMatchSkipsRow(t *testing.T) {
	fake := &fakeDB{}
	fake.answer = func(sql string) [][]any {
		if strings.Contains(sql, "softVersion='") {
			return nil
		}
		return [][]any{{int64(4000), "GDP/4.1"}}
	}
	exec := New(fake, zerolog.Nop())

	plan := &query.Plan{
		Projection: []string{"absOrbit", "MAX(softVersion)"},
		From:       "meta__2P",
		Secondary:  "SELECT name FROM meta__2P WHERE absOrbit=%d AND softVersion='%s'",
	}

	calls := 0
	err := exec.Stream(context.Background(), plan, func(row []any) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected unresolved rows to be skipped, got %d callbacks", calls)
	}
}
