package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/profiler"
)

type repository struct {
	db  *sql.DB
	cfg Config

	mu            sync.Mutex
	buffer        []*profiler.Snapshot
	flushTicker   *time.Ticker
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	// WAL keeps snapshot inserts off the frame path's critical section.
	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	repo := &repository{
		db:            db,
		cfg:           cfg,
		buffer:        make([]*profiler.Snapshot, 0, cfg.BatchSize),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}

	if cfg.BatchSize > 0 && cfg.BatchTimeout > 0 {
		repo.flushTicker = time.NewTicker(time.Duration(cfg.BatchTimeout) * time.Second)
		go repo.flusher()
	} else {
		close(repo.flushDoneChan)
	}

	logger.Debug().
		Str("path", cfg.DBPath).
		Int("batch_size", cfg.BatchSize).
		Int("batch_timeout", cfg.BatchTimeout).
		Msg("Telemetry repository initialized")

	return repo, nil
}

func (r *repository) Store(snap *profiler.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, snap)

	if len(r.buffer) >= r.cfg.BatchSize {
		return r.flush()
	}

	return nil
}

func (r *repository) StoreEvent(name string, value float64, fields map[string]any) error {
	errFactory := errors.New()

	var encoded []byte
	if fields != nil {
		var err error
		if encoded, err = json.Marshal(fields); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if _, err := r.db.Exec(insertEventSQL, time.Now().Unix(), name, value, string(encoded)); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *repository) Summary(ctx context.Context, lastN int) (*Summary, error) {
	errFactory := errors.New()

	// Pending snapshots must be visible to the aggregate query.
	r.mu.Lock()
	flushErr := r.flush()
	r.mu.Unlock()
	if flushErr != nil {
		return nil, flushErr
	}

	if lastN <= 0 {
		lastN = -1 // LIMIT -1 means no limit in sqlite
	}

	summary := &Summary{}
	err := r.db.QueryRowContext(ctx, summarySQL, lastN).Scan(
		&summary.Snapshots,
		&summary.AvgFrameTimeUs,
		&summary.PeakFrameTimeUs,
		&summary.AvgAllocated,
		&summary.PeakAllocated,
		&summary.MinBattery,
		&summary.AvgThrottle,
		&summary.PeakTempC,
	)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&summary.Events); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return summary, nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	if r.flushTicker != nil {
		close(r.shutdownChan)
		r.flushTicker.Stop()
		<-r.flushDoneChan
	} else {
		r.mu.Lock()
		_ = r.flush()
		r.mu.Unlock()
	}

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	logger.Debug().Msg("Telemetry repository closed")

	return nil
}

func (r *repository) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushTicker.C:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				logger.Debug().Err(err).Msg("Periodic telemetry flush failed")
			}
			r.mu.Unlock()
		case <-r.shutdownChan:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				logger.Debug().Err(err).Msg("Final telemetry flush failed")
			}
			r.mu.Unlock()
			return
		}
	}
}

// flush writes the buffered snapshots in one transaction. Caller holds r.mu.
func (r *repository) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	errFactory := errors.New()

	tx, err := r.db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	stmt, err := tx.Prepare(insertSnapshotSQL)
	if err != nil {
		if err := tx.Rollback(); err != nil {
			logger.Debug().Err(err).Msg("Failed to roll back transaction")
		}
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	defer stmt.Close()

	for _, snap := range r.buffer {
		_, err := stmt.Exec(
			snap.Timestamp.Unix(),
			snap.SceneID,
			snap.QualityLevel.String(),
			snap.FrameTime.Microseconds(),
			snap.AvgFrameTime.Microseconds(),
			int64(snap.AllocatedBytes),
			snap.BatteryLevel,
			boolToInt(snap.IsCharging),
			snap.DeviceTempC,
			snap.ThrottleFactor,
			boolToInt(snap.EmergencyActive),
		)
		if err != nil {
			if err := tx.Rollback(); err != nil {
				logger.Debug().Err(err).Msg("Failed to roll back transaction")
			}
			return errFactory.Wrap(ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	logger.Debug().Int("records", len(r.buffer)).Msg("Flushed snapshots to database")
	r.buffer = r.buffer[:0]

	return nil
}
