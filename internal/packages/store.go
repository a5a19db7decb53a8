package packages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"aquarius/internal/config"
)

// Store manages package persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

var packageColumns = []string{
	"id", "bag_identifier", "type", "origin", "fedora_uri",
	"process_status", "data_json", "accession_json", "created_at", "updated_at",
}

func selectPackages() sq.SelectBuilder {
	return sq.Select(packageColumns...).From("packages")
}

// Open initializes or connects to the package database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "packages.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing database file path.
func (s *Store) Path() string {
	return s.path
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a new package, assigning its ID and timestamps.
func (s *Store) Create(ctx context.Context, pkg *Package) error {
	if pkg == nil {
		return errors.New("package is nil")
	}
	if strings.TrimSpace(pkg.BagIdentifier) == "" {
		return errors.New("bag identifier is required")
	}
	if pkg.Origin == "" {
		pkg.Origin = OriginAurora
	}
	if pkg.ProcessStatus == 0 {
		pkg.ProcessStatus = StatusSaved
	}

	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	dataJSON, err := marshalNullable(pkg.Data)
	if err != nil {
		return fmt.Errorf("marshal transfer data: %w", err)
	}
	accessionJSON, err := marshalNullable(pkg.AccessionData)
	if err != nil {
		return fmt.Errorf("marshal accession data: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO packages (
            bag_identifier, type, origin, fedora_uri, process_status,
            data_json, accession_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pkg.BagIdentifier,
		pkg.Type,
		pkg.Origin,
		pkg.FedoraURI,
		int(pkg.ProcessStatus),
		dataJSON,
		accessionJSON,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	pkg.ID = id
	return nil
}

// Update persists changes to an existing package.
func (s *Store) Update(ctx context.Context, pkg *Package) error {
	if pkg == nil {
		return errors.New("package is nil")
	}
	pkg.UpdatedAt = time.Now().UTC()

	dataJSON, err := marshalNullable(pkg.Data)
	if err != nil {
		return fmt.Errorf("marshal transfer data: %w", err)
	}
	accessionJSON, err := marshalNullable(pkg.AccessionData)
	if err != nil {
		return fmt.Errorf("marshal accession data: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE packages SET
            bag_identifier = ?, type = ?, origin = ?, fedora_uri = ?,
            process_status = ?, data_json = ?, accession_json = ?, updated_at = ?
        WHERE id = ?`,
		pkg.BagIdentifier,
		pkg.Type,
		pkg.Origin,
		pkg.FedoraURI,
		int(pkg.ProcessStatus),
		dataJSON,
		accessionJSON,
		pkg.UpdatedAt.Format(time.RFC3339Nano),
		pkg.ID,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("package %d not found", pkg.ID)
	}
	return nil
}

// GetByID fetches a package by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Package, error) {
	query, args, err := selectPackages().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	pkg, err := scanPackage(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return pkg, nil
}

// ListByStatus returns packages at the given process status, oldest first so
// batches drain in ingestion order.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Package, error) {
	return s.queryPackages(ctx, selectPackages().
		Where(sq.Eq{"process_status": int(status)}).
		OrderBy("id ASC"))
}

// ListByGroupKey returns packages whose transfer record references the given
// accession-group key.
func (s *Store) ListByGroupKey(ctx context.Context, key string) ([]*Package, error) {
	return s.queryPackages(ctx, selectPackages().
		Where(sq.Expr("json_extract(data_json, '$.accession') = ?", key)).
		OrderBy("id ASC"))
}

// FindSiblingWithAccessionData returns the first package in the group that
// already carries accession data, excluding the given package ID. Returns nil
// when the group has no such member yet.
func (s *Store) FindSiblingWithAccessionData(ctx context.Context, key string, excludeID int64) (*Package, error) {
	query, args, err := selectPackages().
		Where(sq.Expr("json_extract(data_json, '$.accession') = ?", key)).
		Where(sq.NotEq{"accession_json": nil}).
		Where(sq.NotEq{"id": excludeID}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	pkg, err := scanPackage(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sibling: %w", err)
	}
	return pkg, nil
}

// ListByBagIdentifier returns every package row sharing a bag identifier.
func (s *Store) ListByBagIdentifier(ctx context.Context, bagID string) ([]*Package, error) {
	return s.queryPackages(ctx, selectPackages().
		Where(sq.Eq{"bag_identifier": bagID}).
		OrderBy("id ASC"))
}

// List returns all packages, most recently modified first. When since is
// non-zero only packages modified at or after it are returned; when status is
// non-zero the list is further filtered.
func (s *Store) List(ctx context.Context, since time.Time, status Status) ([]*Package, error) {
	builder := selectPackages().OrderBy("updated_at DESC")
	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"updated_at": since.UTC().Format(time.RFC3339Nano)})
	}
	if status != 0 {
		builder = builder.Where(sq.Eq{"process_status": int(status)})
	}
	return s.queryPackages(ctx, builder)
}

// Summary returns package counts per process status.
func (s *Store) Summary(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT process_status, COUNT(1) FROM packages GROUP BY process_status")
	if err != nil {
		return nil, fmt.Errorf("summarize packages: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func (s *Store) queryPackages(ctx context.Context, builder sq.SelectBuilder) ([]*Package, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	var result []*Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		result = append(result, pkg)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (*Package, error) {
	var (
		pkg           Package
		status        int
		dataJSON      sql.NullString
		accessionJSON sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(
		&pkg.ID,
		&pkg.BagIdentifier,
		&pkg.Type,
		&pkg.Origin,
		&pkg.FedoraURI,
		&status,
		&dataJSON,
		&accessionJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	pkg.ProcessStatus = Status(status)

	if dataJSON.Valid && dataJSON.String != "" {
		var record TransferRecord
		if err := json.Unmarshal([]byte(dataJSON.String), &record); err != nil {
			return nil, fmt.Errorf("decode transfer data: %w", err)
		}
		pkg.Data = &record
	}
	if accessionJSON.Valid && accessionJSON.String != "" {
		var record AccessionRecord
		if err := json.Unmarshal([]byte(accessionJSON.String), &record); err != nil {
			return nil, fmt.Errorf("decode accession data: %w", err)
		}
		pkg.AccessionData = &record
	}
	if pkg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if pkg.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &pkg, nil
}

func marshalNullable(v any) (any, error) {
	switch value := v.(type) {
	case *TransferRecord:
		if value == nil {
			return nil, nil
		}
	case *AccessionRecord:
		if value == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
