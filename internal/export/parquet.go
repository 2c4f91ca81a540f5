package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"sigscan/internal/dataset"
	"sigscan/internal/flatten"
)

// parquetRow mirrors the flatten schema; pointer fields become optional
// parquet columns so nulls survive the export.
type parquetRow struct {
	MetaFilename    string   `parquet:"meta_filename"`
	DataFilename    string   `parquet:"data_filename"`
	SampleRateHz    *float64 `parquet:"sample_rate_hz,optional"`
	CenterFreqHz    *float64 `parquet:"center_freq_hz,optional"`
	Datatype        *string  `parquet:"datatype,optional"`
	SigMFVersion    *string  `parquet:"sigmf_version,optional"`
	Author          *string  `parquet:"author,optional"`
	Hardware        *string  `parquet:"hardware,optional"`
	Gain            *float64 `parquet:"gain,optional"`
	AGC             *bool    `parquet:"agc,optional"`
	SDRHandle       *string  `parquet:"sdr_handle,optional"`
	Latitude        *float64 `parquet:"latitude,optional"`
	Longitude       *float64 `parquet:"longitude,optional"`
	NumSamples      *int64   `parquet:"num_samples,optional"`
	DurationS       *float64 `parquet:"duration_s,optional"`
	CaptureDatetime *string  `parquet:"capture_datetime,optional"`
	FreqLowerEdgeHz *float64 `parquet:"freq_lower_edge_hz,optional"`
	FreqUpperEdgeHz *float64 `parquet:"freq_upper_edge_hz,optional"`
	MLWifiProb      *float64 `parquet:"ml_wifi_prob,optional"`
	MLCellProb      *float64 `parquet:"ml_cell_prob,optional"`
	MLRadarProb     *float64 `parquet:"ml_radar_prob,optional"`
	MLAskProb       *float64 `parquet:"ml_ask_prob,optional"`
	MLPskProb       *float64 `parquet:"ml_psk_prob,optional"`
	MLFskProb       *float64 `parquet:"ml_fsk_prob,optional"`
	SNRDB           *float64 `parquet:"snr_db,optional"`
	PowerDBm        *float64 `parquet:"power_dbm,optional"`
	PowerDBFS       *float64 `parquet:"power_dbfs,optional"`
	MLNoSig         *bool    `parquet:"ml_no_sig,optional"`
	SigUUID         *string  `parquet:"sig_uuid,optional"`
}

func toParquetRow(r flatten.Row) parquetRow {
	return parquetRow{
		MetaFilename:    r.MetaFilename,
		DataFilename:    r.DataFilename,
		SampleRateHz:    r.SampleRateHz,
		CenterFreqHz:    r.CenterFreqHz,
		Datatype:        r.Datatype,
		SigMFVersion:    r.SigMFVersion,
		Author:          r.Author,
		Hardware:        r.Hardware,
		Gain:            r.Gain,
		AGC:             r.AGC,
		SDRHandle:       r.SDRHandle,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		NumSamples:      r.NumSamples,
		DurationS:       r.DurationS,
		CaptureDatetime: r.CaptureDatetime,
		FreqLowerEdgeHz: r.FreqLowerEdgeHz,
		FreqUpperEdgeHz: r.FreqUpperEdgeHz,
		MLWifiProb:      r.MLWifiProb,
		MLCellProb:      r.MLCellProb,
		MLRadarProb:     r.MLRadarProb,
		MLAskProb:       r.MLAskProb,
		MLPskProb:       r.MLPskProb,
		MLFskProb:       r.MLFskProb,
		SNRDB:           r.SNRDB,
		PowerDBm:        r.PowerDBm,
		PowerDBFS:       r.PowerDBFS,
		MLNoSig:         r.MLNoSig,
		SigUUID:         r.SigUUID,
	}
}

// WriteParquet serializes the dataset's rows as one parquet row group.
func WriteParquet(w io.Writer, ds *dataset.Dataset) error {
	writer := parquet.NewGenericWriter[parquetRow](w)

	records := make([]parquetRow, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		records = append(records, toParquetRow(row))
	}
	if len(records) > 0 {
		if _, err := writer.Write(records); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
