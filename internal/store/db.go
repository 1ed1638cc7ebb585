package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlite pool plus the data-dir lock that keeps a second
// engine process from scraping into the same file.
type DB struct {
	Pool *sql.DB
	lock *flock.Flock
}

func Open(dataDir string) (*DB, error) {
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("data dir lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("data dir %s is in use by another engine process", dataDir)
	}

	path := filepath.Join(dataDir, "jobsearch.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite wants a single writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	if err := Migrate(pool); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &DB{Pool: pool, lock: lock}, nil
}

// OpenMemory opens an unlocked in-memory database, for tests.
func OpenMemory() (*DB, error) {
	pool, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)
	if err := Migrate(pool); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	var err error
	if d.Pool != nil {
		err = d.Pool.Close()
	}
	if d.lock != nil {
		_ = d.lock.Unlock()
	}
	return err
}
