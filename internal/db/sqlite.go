// Package db provides connectivity helpers and migration support for the
// SQLite audit store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// Connection hardening applied to every pool. busy_timeout keeps concurrent
// writers queueing instead of failing with SQLITE_BUSY; WAL lets readers run
// alongside the single writer.
const (
	busyTimeoutMillis = "5000"
	journalMode       = "WAL"
	syncMode          = "NORMAL"
)

// OpenSQLite opens one pool against the audit database file.
//
// A "write" pool is pinned to a single connection with _txlock=immediate, so
// write transactions take the lock up front and never deadlock each other. A
// "read" pool allows maxOpen concurrent connections (0 means 4).
func OpenSQLite(path string, mode string, maxOpen int) (*sql.DB, error) {
	if mode != "read" && mode != "write" {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be \"read\" or \"write\"", mode)
	}

	pool, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == "write" {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = 4
	}
	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxOpen)
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return pool, nil
}

// OpenSQLitePair opens the write and read pools the audit store runs on. The
// trail is appended on every pipeline run and scanned by the listing endpoint,
// so writers stay serialized while reads fan out across readMaxOpen
// connections (0 means 4).
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenSQLite(path, "write", 0)
	if err != nil {
		return nil, nil, err
	}
	readDB, err = OpenSQLite(path, "read", readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}

func buildDSN(path string, mode string) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMillis)
	params.Set("_synchronous", syncMode)
	params.Set("_foreign_keys", "on")
	if mode == "write" {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
