package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/faultline-io/faultline/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &RunStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global store manager. The backend can be
// NoneBackend to disable run tracking entirely.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.runs = store
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearStore clears persisted run data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropRunTables("mysql", connStr, schema.MySQLBackend)

	case schema.PostgreSQLBackend:
		return dropRunTables("pgx", connStr, schema.PostgreSQLBackend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropRunTables connects to the SQL database and drops the run tables.
func dropRunTables(driverName, connStr string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{patternScoresTable, detectionRunsTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
