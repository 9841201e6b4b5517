package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/kerbaras/yomu/pkg/cache"
)

var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS cache_seq`,
	`CREATE SEQUENCE IF NOT EXISTS entry_seq`,
	`CREATE TABLE IF NOT EXISTS caches (
		name VARCHAR PRIMARY KEY,
		seq BIGINT DEFAULT nextval('cache_seq'),
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cache_entries (
		cache_name VARCHAR NOT NULL,
		url VARCHAR NOT NULL,
		status INTEGER NOT NULL,
		header VARCHAR,
		body BLOB,
		seq BIGINT DEFAULT nextval('entry_seq'),
		stored_at TIMESTAMP,
		PRIMARY KEY (cache_name, url)
	)`,
}

// InitDuckDB opens the database at path, creating parent directories and
// the cache schema when missing.
func InitDuckDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return db, nil
}

// CacheRepository is a cache.Storage backed by DuckDB, so shell assets and
// pages stay available across runs.
type CacheRepository struct {
	db *sql.DB
}

var _ cache.Storage = (*CacheRepository)(nil)

func NewCacheRepository(path string) (*CacheRepository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &CacheRepository{db: db}, nil
}

func (r *CacheRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *CacheRepository) ensure(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO caches (name, created_at) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create cache %s: %w", name, err)
	}
	return nil
}

func (r *CacheRepository) Open(ctx context.Context, name string) (cache.Cache, error) {
	if err := r.ensure(ctx, name); err != nil {
		return nil, err
	}
	return &duckCache{repo: r, name: name}, nil
}

func (r *CacheRepository) Keys(ctx context.Context) ([]string, error) {
	return r.strings(ctx, `SELECT name FROM caches ORDER BY seq`)
}

func (r *CacheRepository) Delete(ctx context.Context, name string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_name = ?`, name); err != nil {
		return false, fmt.Errorf("failed to delete entries of %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM caches WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete cache %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return n > 0, nil
}

func (r *CacheRepository) Match(ctx context.Context, key string) (*cache.Response, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT e.url, e.status, e.header, e.body
		FROM cache_entries e
		JOIN caches c ON c.name = e.cache_name
		WHERE e.url = ?
		ORDER BY c.seq
		LIMIT 1`, key)
	return scanResponse(row)
}

func (r *CacheRepository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func scanResponse(row *sql.Row) (*cache.Response, bool, error) {
	var (
		resp   cache.Response
		header sql.NullString
	)
	err := row.Scan(&resp.URL, &resp.Status, &header, &resp.Body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan cache entry: %w", err)
	}
	resp.Header = make(http.Header)
	if header.Valid && header.String != "" {
		if err := json.Unmarshal([]byte(header.String), &resp.Header); err != nil {
			return nil, false, fmt.Errorf("failed to decode cached header: %w", err)
		}
	}
	return &resp, true, nil
}

type duckCache struct {
	repo *CacheRepository
	name string
}

func (c *duckCache) Match(ctx context.Context, key string) (*cache.Response, bool, error) {
	row := c.repo.db.QueryRowContext(ctx,
		`SELECT url, status, header, body FROM cache_entries WHERE cache_name = ? AND url = ?`,
		c.name, key)
	return scanResponse(row)
}

func (c *duckCache) Put(ctx context.Context, key string, resp *cache.Response) error {
	if resp == nil {
		return fmt.Errorf("response cannot be nil")
	}
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if err := c.repo.ensure(ctx, c.name); err != nil {
		return err
	}
	_, err = c.repo.db.ExecContext(ctx, `
		INSERT INTO cache_entries (cache_name, url, status, header, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_name, url) DO UPDATE SET
			status = excluded.status,
			header = excluded.header,
			body = excluded.body,
			stored_at = excluded.stored_at`,
		c.name, key, resp.Status, string(header), resp.Body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (c *duckCache) Delete(ctx context.Context, key string) (bool, error) {
	res, err := c.repo.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE cache_name = ? AND url = ?`, c.name, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (c *duckCache) Keys(ctx context.Context) ([]string, error) {
	return c.repo.strings(ctx,
		`SELECT url FROM cache_entries WHERE cache_name = ? ORDER BY seq`, c.name)
}
