package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"sigscan/internal/config"
	"sigscan/internal/dataset"
)

// Store manages the scan catalog backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the catalog database and verifies its schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CatalogDir, "catalog.db")
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

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
	}
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

// SaveDataset persists one scan run with its rows, failures, and annotation
// details. Writes are serialized across processes by a file lock.
func (s *Store) SaveDataset(ctx context.Context, ds *dataset.Dataset) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_runs (
            run_id, root, started_at, finished_at,
            discovered, row_count, failure_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.RunID,
		ds.Root,
		ds.StartedAt.UTC().Format(time.RFC3339Nano),
		ds.FinishedAt.UTC().Format(time.RFC3339Nano),
		ds.Discovered,
		len(ds.Rows),
		len(ds.Failures),
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	rowStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_rows (
            run_id, meta_filename, data_filename, sample_rate_hz, center_freq_hz,
            datatype, sigmf_version, author, hardware, gain, agc, sdr_handle,
            latitude, longitude, num_samples, duration_s, capture_datetime,
            freq_lower_edge_hz, freq_upper_edge_hz, ml_wifi_prob, ml_cell_prob,
            ml_radar_prob, ml_ask_prob, ml_psk_prob, ml_fsk_prob, snr_db,
            power_dbm, power_dbfs, ml_no_sig, sig_uuid
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer rowStmt.Close()

	for _, row := range ds.Rows {
		_, err = rowStmt.ExecContext(ctx,
			ds.RunID, row.MetaFilename, row.DataFilename, row.SampleRateHz,
			row.CenterFreqHz, row.Datatype, row.SigMFVersion, row.Author,
			row.Hardware, row.Gain, row.AGC, row.SDRHandle, row.Latitude,
			row.Longitude, row.NumSamples, row.DurationS, row.CaptureDatetime,
			row.FreqLowerEdgeHz, row.FreqUpperEdgeHz, row.MLWifiProb,
			row.MLCellProb, row.MLRadarProb, row.MLAskProb, row.MLPskProb,
			row.MLFskProb, row.SNRDB, row.PowerDBm, row.PowerDBFS, row.MLNoSig,
			row.SigUUID,
		)
		if err != nil {
			return fmt.Errorf("insert row %s: %w", row.MetaFilename, err)
		}
	}

	for _, failure := range ds.Failures {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scan_failures (run_id, path, kind, message) VALUES (?, ?, ?, ?)`,
			ds.RunID, failure.Path, failure.Kind, failure.Message,
		)
		if err != nil {
			return fmt.Errorf("insert failure %s: %w", failure.Path, err)
		}
	}

	for _, detail := range ds.Annotations {
		signalJSON, err := probsJSON(detail.SignalClass)
		if err != nil {
			return fmt.Errorf("marshal signal classes: %w", err)
		}
		modulationJSON, err := probsJSON(detail.ModulationClass)
		if err != nil {
			return fmt.Errorf("marshal modulation classes: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO annotation_details (
                run_id, meta_filename, ann_index, vendor_key, sample_start,
                sample_count, signal_class_json, modulation_class_json,
                snr_db, power_dbm
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ds.RunID, detail.MetaFilename, detail.Index, detail.VendorKey,
			uintArg(detail.SampleStart), uintArg(detail.SampleCount),
			signalJSON, modulationJSON, detail.SNRDB, detail.PowerDBm,
		)
		if err != nil {
			return fmt.Errorf("insert annotation detail: %w", err)
		}
	}

	return tx.Commit()
}

func probsJSON(m map[string]float64) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func uintArg(v *uint64) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
