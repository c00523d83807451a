package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"

	"jizhang/internal/core"
	"jizhang/internal/log"
	"jizhang/internal/records"

	_ "modernc.org/sqlite"
)

const recordColumns = `id, kind, amount_cents, category_id, category_name, category_icon, date, timestamp_ms, remark`

const (
	busyAttempts = 5
	busyDelay    = 20 * time.Millisecond
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteRepository opens dbPath and migrates it. A nil logger logs with
// the storage component to stdout.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStorage)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; serialize on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements a readiness probe for the health endpoint.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListRange(ctx context.Context, user string, start, end core.Date) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date DESC, timestamp_ms DESC, id ASC`,
		user, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list records in range: %w", err)
	}
	return scanRecords(rows)
}

func (r *SQLiteRepository) ListAll(ctx context.Context, user string) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = ?
		ORDER BY date DESC, timestamp_ms DESC, id ASC`,
		user)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return scanRecords(rows)
}

func (r *SQLiteRepository) Earliest(ctx context.Context, user string) (*core.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = ?
		ORDER BY date ASC, timestamp_ms ASC, id ASC
		LIMIT 1`,
		user)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("earliest record: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, user, id string) (core.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = ? AND id = ?`,
		user, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, fmt.Errorf("get %s: %w", id, records.ErrNotFound)
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// Create implements records.Writer.
func (r *SQLiteRepository) Create(ctx context.Context, user string, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	res, err := r.exec(ctx, `
		INSERT INTO records (user_id, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO NOTHING`,
		user, rec.ID, string(rec.Kind), rec.Amount.Cents, rec.CategoryID, rec.CategoryName,
		rec.CategoryIcon, rec.Date.String(), rec.Timestamp.UnixMilli(), rec.Remark)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", fmt.Errorf("create %s: %w", rec.ID, records.ErrConflict)
	}

	r.logger.InfoContext(ctx, "Record saved to SQLite",
		"id", rec.ID,
		"kind", rec.Kind,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.String())

	return rec.ID, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, user string, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	res, err := r.exec(ctx, `
		UPDATE records
		SET kind = ?, amount_cents = ?, category_id = ?, category_name = ?, category_icon = ?,
		    date = ?, timestamp_ms = ?, remark = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?`,
		string(rec.Kind), rec.Amount.Cents, rec.CategoryID, rec.CategoryName, rec.CategoryIcon,
		rec.Date.String(), rec.Timestamp.UnixMilli(), rec.Remark, user, rec.ID)
	if err != nil {
		return fmt.Errorf("update record %s: %w", rec.ID, err)
	}
	return expectOne(res, "update", rec.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, user, id string) error {
	res, err := r.exec(ctx, `DELETE FROM records WHERE user_id = ? AND id = ?`, user, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if err := expectOne(res, "delete", id); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Record deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) CategoryOrder(ctx context.Context, user string, kind core.Kind) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category_id
		FROM category_orders
		WHERE user_id = ? AND kind = ?
		ORDER BY position ASC`,
		user, string(kind))
	if err != nil {
		return nil, fmt.Errorf("get category order: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category order: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetCategoryOrder replaces the stored order in one transaction.
func (r *SQLiteRepository) SetCategoryOrder(ctx context.Context, user string, kind core.Kind, ids []string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	err := withBusyRetry(ctx, func() error {
		return r.replaceCategoryOrder(ctx, user, kind, ids)
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "Category order saved", "kind", kind, "count", len(ids))
	return nil
}

func (r *SQLiteRepository) replaceCategoryOrder(ctx context.Context, user string, kind core.Kind, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_orders WHERE user_id = ? AND kind = ?`, user, string(kind)); err != nil {
		return fmt.Errorf("clear category order: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_orders (user_id, kind, position, category_id)
			VALUES (?, ?, ?, ?)`,
			user, string(kind), i, id); err != nil {
			return fmt.Errorf("insert category order: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category order: %w", err)
	}
	return nil
}

// exec runs a write statement, retrying while the database is locked by
// another connection.
func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := withBusyRetry(ctx, func() error {
		var err error
		res, err = r.db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func withBusyRetry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.RetryIf(isBusy),
		retry.Attempts(busyAttempts),
		retry.Delay(busyDelay),
		retry.LastErrorOnly(true),
	)
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.Record, error) {
	var (
		rec         core.Record
		kind, date  string
		cents, tsMs int64
	)
	if err := s.Scan(&rec.ID, &kind, &cents, &rec.CategoryID, &rec.CategoryName,
		&rec.CategoryIcon, &date, &tsMs, &rec.Remark); err != nil {
		return core.Record{}, err
	}
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Record{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Record{}, err
	}
	rec.Kind = k
	rec.Date = d
	rec.Amount = core.Money{Cents: cents}
	rec.Timestamp = time.UnixMilli(tsMs).UTC()
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]core.Record, error) {
	defer rows.Close()
	out := make([]core.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func expectOne(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, records.ErrNotFound)
	}
	return nil
}

var _ records.Store = (*SQLiteRepository)(nil)
