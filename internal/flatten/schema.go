package flatten

import "strconv"

// Column names in output order. The order is part of the export contract:
// CSV headers, parquet fields, and the catalog schema all follow it.
var columns = []string{
	"meta_filename",
	"data_filename",
	"sample_rate_hz",
	"center_freq_hz",
	"datatype",
	"sigmf_version",
	"author",
	"hardware",
	"gain",
	"agc",
	"sdr_handle",
	"latitude",
	"longitude",
	"num_samples",
	"duration_s",
	"capture_datetime",
	"freq_lower_edge_hz",
	"freq_upper_edge_hz",
	"ml_wifi_prob",
	"ml_cell_prob",
	"ml_radar_prob",
	"ml_ask_prob",
	"ml_psk_prob",
	"ml_fsk_prob",
	"snr_db",
	"power_dbm",
	"power_dbfs",
	"ml_no_sig",
	"sig_uuid",
}

// Columns returns the fixed column order shared by every row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Row is one flattened metadata file. Pointer fields are nullable columns;
// nil means the source document did not state a value.
type Row struct {
	MetaFilename string
	DataFilename string

	SampleRateHz *float64
	CenterFreqHz *float64
	Datatype     *string
	SigMFVersion *string
	Author       *string
	Hardware     *string
	Gain         *float64
	AGC          *bool
	SDRHandle    *string
	Latitude     *float64
	Longitude    *float64

	NumSamples      *int64
	DurationS       *float64
	CaptureDatetime *string

	FreqLowerEdgeHz *float64
	FreqUpperEdgeHz *float64

	MLWifiProb  *float64
	MLCellProb  *float64
	MLRadarProb *float64
	MLAskProb   *float64
	MLPskProb   *float64
	MLFskProb   *float64

	SNRDB     *float64
	PowerDBm  *float64
	PowerDBFS *float64

	MLNoSig *bool
	SigUUID *string
}

// Values returns the row's cells in Columns order. Null cells are nil.
func (r Row) Values() []any {
	return []any{
		r.MetaFilename,
		r.DataFilename,
		floatCell(r.SampleRateHz),
		floatCell(r.CenterFreqHz),
		stringCell(r.Datatype),
		stringCell(r.SigMFVersion),
		stringCell(r.Author),
		stringCell(r.Hardware),
		floatCell(r.Gain),
		boolCell(r.AGC),
		stringCell(r.SDRHandle),
		floatCell(r.Latitude),
		floatCell(r.Longitude),
		intCell(r.NumSamples),
		floatCell(r.DurationS),
		stringCell(r.CaptureDatetime),
		floatCell(r.FreqLowerEdgeHz),
		floatCell(r.FreqUpperEdgeHz),
		floatCell(r.MLWifiProb),
		floatCell(r.MLCellProb),
		floatCell(r.MLRadarProb),
		floatCell(r.MLAskProb),
		floatCell(r.MLPskProb),
		floatCell(r.MLFskProb),
		floatCell(r.SNRDB),
		floatCell(r.PowerDBm),
		floatCell(r.PowerDBFS),
		boolCell(r.MLNoSig),
		stringCell(r.SigUUID),
	}
}

// Map returns the row keyed by column name, for JSON output. Null cells map
// to nil values.
func (r Row) Map() map[string]any {
	values := r.Values()
	m := make(map[string]any, len(columns))
	for i, col := range columns {
		m[col] = values[i]
	}
	return m
}

// CellString renders one cell for delimited or tabular output. Null renders
// as the empty string.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringCell(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intCell(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolCell(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}
