package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sigscan/internal/dataset"
	"sigscan/internal/flatten"
)

// ErrRunNotFound indicates the requested run id is not in the catalog.
var ErrRunNotFound = errors.New("scan run not found")

// RunSummary is one catalog entry for a completed scan.
type RunSummary struct {
	RunID        string
	Root         string
	StartedAt    time.Time
	FinishedAt   time.Time
	Discovered   int
	RowCount     int
	FailureCount int
}

// ListRuns returns catalog entries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, root, started_at, finished_at, discovered, row_count, failure_count
         FROM scan_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one catalog entry by run id.
func (s *Store) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, root, started_at, finished_at, discovered, row_count, failure_count
         FROM scan_runs WHERE run_id = ?`, runID)
	run, err := scanRunSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(sc rowScanner) (RunSummary, error) {
	var run RunSummary
	var started, finished string
	if err := sc.Scan(&run.RunID, &run.Root, &started, &finished,
		&run.Discovered, &run.RowCount, &run.FailureCount); err != nil {
		return run, err
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return run, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return run, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

// LoadRows returns the dataset rows saved for a run, with nulls intact.
func (s *Store) LoadRows(ctx context.Context, runID string) ([]flatten.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT meta_filename, data_filename, sample_rate_hz, center_freq_hz,
            datatype, sigmf_version, author, hardware, gain, agc, sdr_handle,
            latitude, longitude, num_samples, duration_s, capture_datetime,
            freq_lower_edge_hz, freq_upper_edge_hz, ml_wifi_prob, ml_cell_prob,
            ml_radar_prob, ml_ask_prob, ml_psk_prob, ml_fsk_prob, snr_db,
            power_dbm, power_dbfs, ml_no_sig, sig_uuid
         FROM dataset_rows WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query dataset rows: %w", err)
	}
	defer rows.Close()

	var out []flatten.Row
	for rows.Next() {
		var r flatten.Row
		var (
			sampleRate, centerFreq, gain, latitude, longitude    sql.NullFloat64
			duration, freqLower, freqUpper                       sql.NullFloat64
			wifi, cell, radar, ask, psk, fsk, snr, dbm, dbfs     sql.NullFloat64
			datatype, version, author, hardware, handle          sql.NullString
			captureDatetime, sigUUID                             sql.NullString
			numSamples                                           sql.NullInt64
			agc, noSig                                           sql.NullBool
		)
		err := rows.Scan(&r.MetaFilename, &r.DataFilename, &sampleRate,
			&centerFreq, &datatype, &version, &author, &hardware, &gain, &agc,
			&handle, &latitude, &longitude, &numSamples, &duration,
			&captureDatetime, &freqLower, &freqUpper, &wifi, &cell, &radar,
			&ask, &psk, &fsk, &snr, &dbm, &dbfs, &noSig, &sigUUID)
		if err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		r.SampleRateHz = floatPtr(sampleRate)
		r.CenterFreqHz = floatPtr(centerFreq)
		r.Datatype = stringPtr(datatype)
		r.SigMFVersion = stringPtr(version)
		r.Author = stringPtr(author)
		r.Hardware = stringPtr(hardware)
		r.Gain = floatPtr(gain)
		r.AGC = boolPtr(agc)
		r.SDRHandle = stringPtr(handle)
		r.Latitude = floatPtr(latitude)
		r.Longitude = floatPtr(longitude)
		r.NumSamples = intPtr(numSamples)
		r.DurationS = floatPtr(duration)
		r.CaptureDatetime = stringPtr(captureDatetime)
		r.FreqLowerEdgeHz = floatPtr(freqLower)
		r.FreqUpperEdgeHz = floatPtr(freqUpper)
		r.MLWifiProb = floatPtr(wifi)
		r.MLCellProb = floatPtr(cell)
		r.MLRadarProb = floatPtr(radar)
		r.MLAskProb = floatPtr(ask)
		r.MLPskProb = floatPtr(psk)
		r.MLFskProb = floatPtr(fsk)
		r.SNRDB = floatPtr(snr)
		r.PowerDBm = floatPtr(dbm)
		r.PowerDBFS = floatPtr(dbfs)
		r.MLNoSig = boolPtr(noSig)
		r.SigUUID = stringPtr(sigUUID)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadFailures returns the failure list saved for a run.
func (s *Store) LoadFailures(ctx context.Context, runID string) ([]dataset.Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, kind, message FROM scan_failures WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scan failures: %w", err)
	}
	defer rows.Close()

	var out []dataset.Failure
	for rows.Next() {
		var f dataset.Failure
		if err := rows.Scan(&f.Path, &f.Kind, &f.Message); err != nil {
			return nil, fmt.Errorf("scan failure record: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
