package telemetry

import (
	"database/sql"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
	    version     INTEGER PRIMARY KEY,
	    applied_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshots (
	    id               INTEGER PRIMARY KEY AUTOINCREMENT,
	    timestamp        INTEGER NOT NULL,
	    scene_id         TEXT NOT NULL,
	    quality_level    TEXT NOT NULL,
	    frame_time_us    INTEGER NOT NULL,
	    avg_frame_us     INTEGER NOT NULL,
	    allocated_bytes  INTEGER NOT NULL,
	    battery_level    REAL NOT NULL,
	    is_charging      INTEGER NOT NULL CHECK (is_charging IN (0, 1)),
	    device_temp_c    REAL NOT NULL,
	    throttle_factor  REAL NOT NULL,
	    emergency        INTEGER NOT NULL CHECK (emergency IN (0, 1))
	);
	CREATE TABLE IF NOT EXISTS events (
	    id         INTEGER PRIMARY KEY AUTOINCREMENT,
	    timestamp  INTEGER NOT NULL,
	    name       TEXT NOT NULL,
	    value      REAL,
	    fields     TEXT
	);`

	insertSnapshotSQL = `
	INSERT INTO snapshots (
	    timestamp, scene_id, quality_level,
	    frame_time_us, avg_frame_us, allocated_bytes,
	    battery_level, is_charging,
	    device_temp_c, throttle_factor, emergency
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertEventSQL = `
	INSERT INTO events (timestamp, name, value, fields)
	VALUES (?, ?, ?, ?)`

	summarySQL = `
	SELECT
	    COUNT(*),
	    COALESCE(AVG(frame_time_us), 0),
	    COALESCE(MAX(frame_time_us), 0),
	    COALESCE(AVG(allocated_bytes), 0),
	    COALESCE(MAX(allocated_bytes), 0),
	    COALESCE(MIN(battery_level), 1.0),
	    COALESCE(AVG(throttle_factor), 1.0),
	    COALESCE(MAX(device_temp_c), 0)
	FROM (SELECT * FROM snapshots ORDER BY id DESC LIMIT ?)`
)

// InitSchema creates the schema and records the current version.
func InitSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	logger.Debug().Int("version", SchemaVersion).Msg("Telemetry schema initialized")

	return nil
}
