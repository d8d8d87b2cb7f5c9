// Package db wraps database/sql with validation and helpers for the fuzzer.
package db

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql" // MySQL driver.
	"github.com/pkg/errors"
)

// DB wraps a SQL connection. Validate, when set, is consulted before every
// statement; statements it rejects never reach the engine.
type DB struct {
	conn     *sql.DB
	Validate func(sql string) error
}

// Open connects to the target engine.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql connection")
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) validate(sqlText string) error {
	if d.Validate == nil {
		return nil
	}
	if err := d.Validate(sqlText); err != nil {
		return errors.Wrapf(err, "generated SQL failed validation: %s", sqlText)
	}
	return nil
}

// ExecContext executes a statement.
func (d *DB) ExecContext(ctx context.Context, sqlText string, args ...any) (sql.Result, error) {
	if err := d.validate(sqlText); err != nil {
		return nil, err
	}
	return d.conn.ExecContext(ctx, sqlText, args...)
}

// QueryContext runs a query returning rows.
func (d *DB) QueryContext(ctx context.Context, sqlText string, args ...any) (*sql.Rows, error) {
	if err := d.validate(sqlText); err != nil {
		return nil, err
	}
	return d.conn.QueryContext(ctx, sqlText, args...)
}

// QueryRowContext runs a query returning a single row.
func (d *DB) QueryRowContext(ctx context.Context, sqlText string, args ...any) *sql.Row {
	return d.conn.QueryRowContext(ctx, sqlText, args...)
}

// QueryScalar runs a query expected to yield one row with one column and
// returns that cell. A NULL cell yields Valid=false; no rows yields ok=false.
func (d *DB) QueryScalar(ctx context.Context, sqlText string, args ...any) (sql.NullString, bool, error) {
	if err := d.validate(sqlText); err != nil {
		return sql.NullString{}, false, err
	}
	var cell sql.NullString
	err := d.conn.QueryRowContext(ctx, sqlText, args...).Scan(&cell)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullString{}, false, nil
	}
	if err != nil {
		return sql.NullString{}, false, err
	}
	return cell, true, nil
}

// QueryCount runs a COUNT-style query and returns the integer result.
func (d *DB) QueryCount(ctx context.Context, sqlText string, args ...any) (int64, error) {
	if err := d.validate(sqlText); err != nil {
		return 0, err
	}
	var n int64
	if err := d.conn.QueryRowContext(ctx, sqlText, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
