package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// RunStoreImpl implements the RunStore interface on database/sql.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // PostgreSQL and SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{detectionRunsTable, getCreateDetectionRunsQuery(backend)},
		{patternScoresTable, getCreatePatternScoresQuery(backend)},
	}

	for _, table := range tables {
		if err := validateTableName(table.name); err != nil {
			return err
		}
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateDetectionRunsQuery returns the CREATE TABLE query for faultline_detection_runs.
func getCreateDetectionRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(detectionRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_points INT,
				patterns_detected INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_points INT,
				patterns_detected INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_points INTEGER,
				patterns_detected INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreatePatternScoresQuery returns the CREATE TABLE query for faultline_pattern_scores.
func getCreatePatternScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(patternScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				pattern_id VARCHAR(128) NOT NULL,
				sensor_id VARCHAR(128) NOT NULL,
				equipment_type VARCHAR(50) NOT NULL,
				detected_at DATETIME(6) NOT NULL,
				pattern_type VARCHAR(50) NOT NULL,
				classified_type VARCHAR(50) NOT NULL,
				severity VARCHAR(20) NOT NULL,
				confidence_score DOUBLE NOT NULL,
				risk_score DOUBLE NOT NULL,
				failure_probability DOUBLE NOT NULL,
				urgency_level VARCHAR(20) NOT NULL,
				PRIMARY KEY (run_id, pattern_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				pattern_id TEXT NOT NULL,
				sensor_id TEXT NOT NULL,
				equipment_type TEXT NOT NULL,
				detected_at TIMESTAMPTZ NOT NULL,
				pattern_type TEXT NOT NULL,
				classified_type TEXT NOT NULL,
				severity TEXT NOT NULL,
				confidence_score DOUBLE PRECISION NOT NULL,
				risk_score DOUBLE PRECISION NOT NULL,
				failure_probability DOUBLE PRECISION NOT NULL,
				urgency_level TEXT NOT NULL,
				PRIMARY KEY (run_id, pattern_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				pattern_id TEXT NOT NULL,
				sensor_id TEXT NOT NULL,
				equipment_type TEXT NOT NULL,
				detected_at TEXT NOT NULL,
				pattern_type TEXT NOT NULL,
				classified_type TEXT NOT NULL,
				severity TEXT NOT NULL,
				confidence_score REAL NOT NULL,
				risk_score REAL NOT NULL,
				failure_probability REAL NOT NULL,
				urgency_level TEXT NOT NULL,
				PRIMARY KEY (run_id, pattern_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new detection run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(detectionRunsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert detection run: %w", err)
	}

	return runID, nil
}

// EndRun updates the detection run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalPoints, patternsDetected int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(detectionRunsTable, rs.backend)

	// First, get the start_time to calculate duration
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	startTime, err := scanTime(rs.db.QueryRow(query, runID), rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	var args []any

	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_points = $3, patterns_detected = $4 WHERE run_id = $5`, quotedTableName)
		args = []any{endTime, durationMs, totalPoints, patternsDetected, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_points = ?, patterns_detected = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), durationMs, totalPoints, patternsDetected, runID}
	}

	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update detection run: %w", err)
	}

	return nil
}

// RecordPattern stores one detected pattern with its classification scores.
func (rs *RunStoreImpl) RecordPattern(runID int64, pattern schema.DetectedPattern, classified schema.ClassificationResult) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(patternScoresTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, pattern_id, sensor_id, equipment_type, detected_at,
			                pattern_type, classified_type, severity, confidence_score,
			                risk_score, failure_probability, urgency_level)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, pattern_id, sensor_id, equipment_type, detected_at,
			                pattern_type, classified_type, severity, confidence_score,
			                risk_score, failure_probability, urgency_level)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	args := []any{
		runID, pattern.ID, pattern.SensorID, string(pattern.EquipmentType),
		formatTime(pattern.Timestamp, rs.backend), string(pattern.PatternType),
		string(classified.ClassifiedType), string(classified.Severity),
		classified.ConfidenceScore, classified.RiskScore,
		classified.FailureProbability, string(classified.UrgencyLevel),
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert pattern score: %w", err)
	}

	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(detectionRunsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(detectionRunsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunTimeStr string
			if err := row.Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		// Get oldest run time
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(detectionRunsTable, rs.backend))
		oldestRunTime, err := scanTime(rs.db.QueryRow(oldestRunQuery), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		// Get total patterns recorded across all runs
		patternsQuery := fmt.Sprintf("SELECT COALESCE(SUM(patterns_detected), 0) FROM %s", quoteTableName(detectionRunsTable, rs.backend))
		if err := rs.db.QueryRow(patternsQuery).Scan(&status.TotalPatterns); err != nil {
			return status, fmt.Errorf("failed to get total patterns: %w", err)
		}
	}

	// Get table sizes
	tables := []string{detectionRunsTable, patternScoresTable}
	for _, table := range tables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetRuns retrieves the most recent detection runs, newest first. A limit
// of 0 or less returns every run.
func (rs *RunStoreImpl) GetRuns(limit int) ([]schema.DetectionRunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(detectionRunsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, COALESCE(total_points, 0), COALESCE(patterns_detected, 0), config_params FROM %s ORDER BY run_id DESC", quotedTableName)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query detection runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DetectionRunRecord

	for rows.Next() {
		var record schema.DetectionRunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalPoints, &record.PatternsDetected, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan detection run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalPoints, &record.PatternsDetected, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan detection run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detection runs: %w", err)
	}

	return results, nil
}

// GetPatternScores retrieves pattern rows for a run, or for all runs when
// runID is 0.
func (rs *RunStoreImpl) GetPatternScores(runID int64) ([]schema.PatternScoreRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(patternScoresTable, rs.backend)
	baseQuery := fmt.Sprintf(`SELECT run_id, pattern_id, sensor_id, equipment_type, detected_at,
    pattern_type, classified_type, severity, confidence_score,
    risk_score, failure_probability, urgency_level
    FROM %s`, quotedTableName)

	var rows *sql.Rows
	var err error
	if runID > 0 {
		switch rs.backend {
		case schema.PostgreSQLBackend:
			rows, err = rs.db.Query(baseQuery+" WHERE run_id = $1 ORDER BY run_id, pattern_id", runID)
		default:
			rows, err = rs.db.Query(baseQuery+" WHERE run_id = ? ORDER BY run_id, pattern_id", runID)
		}
	} else {
		rows, err = rs.db.Query(baseQuery + " ORDER BY run_id, pattern_id")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PatternScoreRecord

	for rows.Next() {
		var record schema.PatternScoreRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var detectedAtStr string
			if err := rows.Scan(&record.RunID, &record.PatternID, &record.SensorID, &record.EquipmentType,
				&detectedAtStr, &record.PatternType, &record.ClassifiedType, &record.Severity,
				&record.ConfidenceScore, &record.RiskScore, &record.FailureProbability,
				&record.UrgencyLevel); err != nil {
				return nil, fmt.Errorf("failed to scan pattern score: %w", err)
			}
			detectedAt, err := time.Parse(time.RFC3339Nano, detectedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse detected_at: %w", err)
			}
			record.DetectedAt = detectedAt
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.PatternID, &record.SensorID, &record.EquipmentType,
				&record.DetectedAt, &record.PatternType, &record.ClassifiedType, &record.Severity,
				&record.ConfidenceScore, &record.RiskScore, &record.FailureProbability,
				&record.UrgencyLevel); err != nil {
				return nil, fmt.Errorf("failed to scan pattern score: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pattern scores: %w", err)
	}

	return results, nil
}

// Clear removes all persisted runs and pattern scores.
func (rs *RunStoreImpl) Clear() error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	tables := []string{patternScoresTable, detectionRunsTable}
	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// scanTime reads a single time column, handling SQLite's string storage.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	switch backend {
	case schema.SQLiteBackend:
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	default:
		var t time.Time
		if err := row.Scan(&t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
}
