// Package db pkg/db/db.go provides heartbeat storage for beatradar.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/models"
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	-- Latest heartbeat per device
	CREATE TABLE IF NOT EXISTS heart_beat (
		mac_address TEXT PRIMARY KEY,
		ip_address  TEXT NOT NULL DEFAULT '',
		sn          TEXT NOT NULL DEFAULT '',
		beat_time   TIMESTAMP NOT NULL,
		status      TEXT NOT NULL DEFAULT 'online',
		create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_heart_beat_beat_time
		ON heart_beat(beat_time);
	`

	upsertSQL = `
	INSERT INTO heart_beat (mac_address, ip_address, sn, beat_time, status, create_time)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(mac_address) DO UPDATE SET
		ip_address = excluded.ip_address,
		sn = excluded.sn,
		beat_time = excluded.beat_time,
		status = excluded.status
	`

	selectColumns = `SELECT mac_address, ip_address, sn, beat_time, status, create_time FROM heart_beat`

	busyTimeoutMillis = 5000
)

// DB is the SQLite implementation of Store.
type DB struct {
	*sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// New opens (or creates) the SQLite database at dbPath and initializes the schema.
func New(dbPath string, logger zerolog.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", dbPath, busyTimeoutMillis)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedOpenDB, err)
	}

	// SQLite allows a single writer; one connection keeps upserts strictly serialized.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		closeQuietly(sqlDB, logger)

		return nil, fmt.Errorf("%w: %w", errFailedToEnableWAL, err)
	}

	db := &DB{DB: sqlDB, logger: logger, now: time.Now}
	if err := db.initSchema(); err != nil {
		closeQuietly(sqlDB, logger)

		return nil, fmt.Errorf("%w: %w", errFailedToInit, err)
	}

	logger.Info().Str("path", dbPath).Msg("Heartbeat database ready")

	return db, nil
}

func closeQuietly(sqlDB *sql.DB, logger zerolog.Logger) {
	if err := sqlDB.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close database")
	}
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

func (db *DB) Upsert(ctx context.Context, mac, ip, serial string, beatTime time.Time) (*models.HeartbeatRecord, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrDatabaseError, errFailedToBeginTx, err)
	}
	defer db.rollbackOnError(tx, &err)

	_, err = tx.ExecContext(ctx, upsertSQL,
		mac, ip, serial, beatTime.UTC(), string(models.StatusOnline), db.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w %s: %w", ErrDatabaseError, errFailedToUpsert, mac, err)
	}

	var record *models.HeartbeatRecord

	record, err = scanRecord(tx.QueryRowContext(ctx, selectColumns+` WHERE mac_address = ?`, mac))
	if err != nil {
		return nil, fmt.Errorf("%w: %w %s: %w", ErrDatabaseError, errFailedToUpsert, mac, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrDatabaseError, err)
	}

	return record, nil
}

func (db *DB) Get(ctx context.Context, mac string) (*models.HeartbeatRecord, error) {
	record, err := scanRecord(db.QueryRowContext(ctx, selectColumns+` WHERE mac_address = ?`, mac))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, mac)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w heartbeat: %w", ErrDatabaseError, errFailedToQuery, err)
	}

	return record, nil
}

func (db *DB) List(ctx context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error) {
	query := selectColumns + ` ORDER BY beat_time DESC, mac_address ASC`
	args := make([]any, 0, 2)

	// SQLite only accepts OFFSET after LIMIT; -1 means unbounded.
	if filter != nil && (filter.Limit > 0 || filter.Offset > 0) {
		limit := -1
		if filter.Limit > 0 {
			limit = filter.Limit
		}

		query += ` LIMIT ? OFFSET ?`

		args = append(args, limit, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w heartbeats: %w", ErrDatabaseError, errFailedToQuery, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			db.logger.Error().Err(err).Msg("Failed to close rows")
		}
	}(rows)

	records := make([]models.HeartbeatRecord, 0)

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w heartbeat row: %w", ErrDatabaseError, errFailedToScan, err)
		}

		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w heartbeats: %w", ErrDatabaseError, errFailedToQuery, err)
	}

	return records, nil
}

func (db *DB) SetStatus(ctx context.Context, mac string, status models.DeviceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %w %q", ErrDatabaseError, errInvalidStatus, status)
	}

	result, err := db.ExecContext(ctx, `UPDATE heart_beat SET status = ? WHERE mac_address = ?`, string(status), mac)
	if err != nil {
		return fmt.Errorf("%w: %w status %s: %w", ErrDatabaseError, errFailedToUpdate, mac, err)
	}

	return checkAffected(result, mac)
}

func (db *DB) Update(ctx context.Context, mac string, fields *models.HeartbeatFields) (*models.HeartbeatRecord, error) {
	if fields.Empty() {
		return db.Get(ctx, mac)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if fields.IPAddress != nil {
		sets = append(sets, "ip_address = ?")
		args = append(args, *fields.IPAddress)
	}

	if fields.Serial != nil {
		sets = append(sets, "sn = ?")
		args = append(args, *fields.Serial)
	}

	if fields.BeatTime != nil {
		sets = append(sets, "beat_time = ?")
		args = append(args, fields.BeatTime.UTC())
	}

	args = append(args, mac)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrDatabaseError, errFailedToBeginTx, err)
	}
	defer db.rollbackOnError(tx, &err)

	var result sql.Result

	result, err = tx.ExecContext(ctx, `UPDATE heart_beat SET `+strings.Join(sets, ", ")+` WHERE mac_address = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w %s: %w", ErrDatabaseError, errFailedToUpdate, mac, err)
	}

	if err = checkAffected(result, mac); err != nil {
		return nil, err
	}

	var record *models.HeartbeatRecord

	record, err = scanRecord(tx.QueryRowContext(ctx, selectColumns+` WHERE mac_address = ?`, mac))
	if err != nil {
		return nil, fmt.Errorf("%w: %w %s: %w", ErrDatabaseError, errFailedToUpdate, mac, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrDatabaseError, err)
	}

	return record, nil
}

func (db *DB) Delete(ctx context.Context, mac string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM heart_beat WHERE mac_address = ?`, mac)
	if err != nil {
		return fmt.Errorf("%w: %w %s: %w", ErrDatabaseError, errFailedToDelete, mac, err)
	}

	return checkAffected(result, mac)
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrDatabaseError, err)
	}

	return nil
}

// rollbackOnError rolls tx back when the surrounding operation failed.
func (db *DB) rollbackOnError(tx *sql.Tx, err *error) {
	if *err == nil {
		return
	}

	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		db.logger.Error().Err(rbErr).Msg("Error rolling back transaction")
	}
}

func checkAffected(result sql.Result, mac string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, mac)
	}

	return nil
}

func scanRecord(row rowScanner) (*models.HeartbeatRecord, error) {
	var (
		record models.HeartbeatRecord
		status string
	)

	if err := row.Scan(
		&record.MACAddress,
		&record.IPAddress,
		&record.Serial,
		&record.BeatTime,
		&status,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	record.Status = models.DeviceStatus(status)

	return &record, nil
}
