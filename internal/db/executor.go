// Package db is the execution collaborator: it connects to the archive
// database and streams the rows of a composed query plan. Queries are
// read-only; no transaction discipline is needed.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nadc-tools/inquire/internal/config"
	"github.com/nadc-tools/inquire/internal/query"
)

// adminUser owns the archive schema; other users need the schema on their
// search path.
const adminUser = "nadc_admin"

// DBTX is the query surface the executor needs. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a pool against one instrument database.
func Connect(ctx context.Context, cfg *config.DBConfig, database string) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnString(database))
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	if cfg.User != adminUser {
		pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO nadc_admin,public")
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to %s@%s.%s: %w", cfg.User, cfg.Host, database, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to %s@%s.%s: %w", cfg.User, cfg.Host, database, err)
	}
	return pool, nil
}

// Executor runs composed plans and hands each result row to a callback.
type Executor struct {
	db  DBTX
	log zerolog.Logger
}

// New creates an executor over an open connection surface.
func New(db DBTX, log zerolog.Logger) *Executor {
	return &Executor{db: db, log: log}
}

// Stream executes the plan and calls fn once per result row. Plans with a
// secondary query issue one follow-up per primary row, parameterized by that
// row's values, and hand the follow-up's row to fn instead.
func (e *Executor) Stream(ctx context.Context, plan *query.Plan, fn func(row []any) error) error {
	sql := plan.SQL()
	e.log.Debug().Str("query", sql).Msg("executing")

	rows, err := e.db.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if plan.Secondary != "" {
			vals, err = e.secondary(ctx, plan.Secondary, vals)
			if err != nil {
				return err
			}
			if vals == nil {
				continue
			}
		}
		if err := fn(vals); err != nil {
			return err
		}
	}
	return rows.Err()
}

// secondary resolves one primary row through the plan's follow-up query.
func (e *Executor) secondary(ctx context.Context, template string, primary []any) ([]any, error) {
	if len(primary) < 2 {
		return nil, fmt.Errorf("secondary query needs two row values, got %d", len(primary))
	}
	sql := fmt.Sprintf(template, primary[0], primary[1])
	e.log.Debug().Str("query", sql).Msg("executing secondary")

	rows, err := e.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("secondary query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	vals, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("read secondary row: %w", err)
	}
	return vals, rows.Err()
}
