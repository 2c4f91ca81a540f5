package flatten_test

import (
	"reflect"
	"testing"

	"sigscan/internal/flatten"
	"sigscan/internal/sigmf"
)

func mustDecode(t *testing.T, doc string) *sigmf.Metadata {
	t.Helper()
	meta, err := sigmf.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return meta
}

func TestSchemaInvariance(t *testing.T) {
	sparse := mustDecode(t, `{"global": {}, "captures": []}`)
	full := mustDecode(t, `{
	  "global": {"core:sample_rate": 1e6, "core:hw": "rtlsdr", "ds:gain": 20},
	  "captures": [{"core:sample_start": 0}],
	  "annotations": [{"ds:c": {"signal_class": {"wifi": 0.5}, "snr_db": 10}}]
	}`)

	for _, meta := range []*sigmf.Metadata{sparse, full} {
		row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})
		if len(row.Values()) != len(flatten.Columns()) {
			t.Fatalf("row has %d cells, schema has %d columns", len(row.Values()), len(flatten.Columns()))
		}
	}
}

func TestNullVersusZero(t *testing.T) {
	omitted := mustDecode(t, `{"global": {}, "captures": []}`)
	row, _, _ := flatten.Flatten(omitted, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})
	if row.CenterFreqHz != nil {
		t.Fatalf("omitted center frequency should be null, got %v", *row.CenterFreqHz)
	}

	zero := mustDecode(t, `{"global": {"core:frequency": 0.0}, "captures": []}`)
	row, _, _ = flatten.Flatten(zero, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})
	if row.CenterFreqHz == nil || *row.CenterFreqHz != 0 {
		t.Fatalf("explicit 0.0 should survive as 0.0, got %v", row.CenterFreqHz)
	}
}

func TestFirstClassifiedAnnotationWins(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {},
	  "captures": [],
	  "annotations": [
	    {"core:sample_start": 0},
	    {"ds:c": {"signal_class": {"wifi": 0.25}, "snr_db": 5}},
	    {"ds:c": {"signal_class": {"wifi": 0.99}, "snr_db": 30}}
	  ]
	}`)
	row, _, details := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})

	if row.MLWifiProb == nil || *row.MLWifiProb != 0.25 {
		t.Fatalf("expected first classified annotation to win, got %v", row.MLWifiProb)
	}
	if row.SNRDB == nil || *row.SNRDB != 5 {
		t.Fatalf("unexpected snr: %v", row.SNRDB)
	}
	// Both classified annotations survive in the detail records.
	if len(details) != 2 {
		t.Fatalf("expected 2 annotation details, got %d", len(details))
	}
	if details[0].Index != 1 || details[1].Index != 2 {
		t.Fatalf("unexpected detail indices: %d, %d", details[0].Index, details[1].Index)
	}
	if details[1].SignalClass["wifi"] != 0.99 {
		t.Fatalf("later annotation values lost: %v", details[1].SignalClass)
	}
}

func TestProbabilityOutOfBoundsNullsColumn(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {},
	  "captures": [],
	  "annotations": [{"ds:c": {"signal_class": {"wifi": 1.3, "radar": 0.2}}}]
	}`)
	row, diags, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})

	if row.MLWifiProb != nil {
		t.Fatalf("out-of-bounds probability must be nulled, got %v", *row.MLWifiProb)
	}
	if row.MLRadarProb == nil || *row.MLRadarProb != 0.2 {
		t.Fatalf("in-bounds sibling column affected: %v", row.MLRadarProb)
	}
	if len(diags) != 1 || diags[0].Column != "ml_wifi_prob" {
		t.Fatalf("expected one diagnostic for ml_wifi_prob, got %v", diags)
	}
}

func TestDerivedDataFilename(t *testing.T) {
	meta := mustDecode(t, `{"global": {}, "captures": []}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "/tmp/capture_001.sigmf-meta", DataFileSize: -1})
	if row.DataFilename != "capture_001.sigmf-data" {
		t.Fatalf("unexpected derived data filename: %q", row.DataFilename)
	}
	if row.MetaFilename != "capture_001.sigmf-meta" {
		t.Fatalf("unexpected meta filename: %q", row.MetaFilename)
	}
}

func TestExplicitDatasetOverridesDerivedName(t *testing.T) {
	meta := mustDecode(t, `{"global": {"core:dataset": "shared.sigmf-data"}, "captures": []}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "/tmp/capture_001.sigmf-meta", DataFileSize: -1})
	if row.DataFilename != "shared.sigmf-data" {
		t.Fatalf("explicit dataset name should win, got %q", row.DataFilename)
	}
}

func TestSampleCountAndDuration(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {"core:datatype": "cf32_le", "core:sample_rate": 1000000},
	  "captures": []
	}`)
	// 8 bytes per cf32 sample.
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: 8 * 2500000})

	if row.NumSamples == nil || *row.NumSamples != 2500000 {
		t.Fatalf("unexpected num_samples: %v", row.NumSamples)
	}
	if row.DurationS == nil || *row.DurationS != 2.5 {
		t.Fatalf("unexpected duration: %v", row.DurationS)
	}
}

func TestUnknownDatatypeKeepsRawStringAndNullCounts(t *testing.T) {
	meta := mustDecode(t, `{"global": {"core:datatype": "qf128_xx"}, "captures": []}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: 1024})

	if row.Datatype == nil || *row.Datatype != "qf128_xx" {
		t.Fatalf("raw datatype string lost: %v", row.Datatype)
	}
	if row.NumSamples != nil {
		t.Fatalf("num_samples should be null for unknown encoding, got %v", *row.NumSamples)
	}
}

func TestCellularAliasAccepted(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {},
	  "captures": [],
	  "annotations": [{"ds:c": {"signal_class": {"cellular": 0.6}}}]
	}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})
	if row.MLCellProb == nil || *row.MLCellProb != 0.6 {
		t.Fatalf("cellular alias not mapped to ml_cell_prob: %v", row.MLCellProb)
	}
}

func TestLegacyFlatAnnotationFlattens(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {},
	  "captures": [],
	  "annotations": [{
	    "ds:customClassifierProbs": [{"className": "cell", "classProb": 0.4}],
	    "ds:fskProb": 0.3,
	    "ds:snr": 7
	  }]
	}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})

	if row.MLCellProb == nil || *row.MLCellProb != 0.4 {
		t.Fatalf("legacy custom prob not flattened: %v", row.MLCellProb)
	}
	if row.MLFskProb == nil || *row.MLFskProb != 0.3 {
		t.Fatalf("legacy fsk prob not flattened: %v", row.MLFskProb)
	}
	if row.SNRDB == nil || *row.SNRDB != 7 {
		t.Fatalf("legacy snr not flattened: %v", row.SNRDB)
	}
}

func TestGlobalValuesAuthoritativeOverCaptureOverrides(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {"core:frequency": 100000000},
	  "captures": [{"core:frequency": 200000000, "ds:gain": 40}]
	}`)
	row, _, _ := flatten.Flatten(meta, flatten.Input{MetaPath: "x.sigmf-meta", DataFileSize: -1})

	if row.CenterFreqHz == nil || *row.CenterFreqHz != 100000000 {
		t.Fatalf("capture override promoted: %v", row.CenterFreqHz)
	}
	if row.Gain != nil {
		t.Fatalf("capture-level gain promoted to global column: %v", *row.Gain)
	}
}

func TestRepeatedFlattenIsStable(t *testing.T) {
	meta := mustDecode(t, `{
	  "global": {"core:sample_rate": 48000, "ds:agc": true},
	  "captures": [{"core:datetime": "2026-03-01T00:00:00Z"}],
	  "annotations": [{"ds:c": {"modulation_class": {"psk": 0.7}, "power_dbm": -30}}]
	}`)
	in := flatten.Input{MetaPath: "y.sigmf-meta", DataFileSize: -1}

	first, _, _ := flatten.Flatten(meta, in)
	second, _, _ := flatten.Flatten(meta, in)
	if !reflect.DeepEqual(first.Values(), second.Values()) {
		t.Fatal("repeated flattening produced different rows")
	}
}
