package dataset_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"sigscan/internal/dataset"
	"sigscan/internal/sigmf"
	"sigscan/internal/testsupport"
)

func TestScanPartialFailureIsolation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		testsupport.WriteMetaFile(t, root, fmt.Sprintf("ok_%d.sigmf-meta", i), testsupport.ValidDoc)
	}
	testsupport.WriteMetaFile(t, root, "bad_0.sigmf-meta", testsupport.MalformedDoc)
	testsupport.WriteMetaFile(t, root, "bad_1.sigmf-meta", `not json`)

	ds, err := dataset.NewAggregator(2, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(ds.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ds.Rows))
	}
	if len(ds.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(ds.Failures))
	}
	if ds.Discovered != len(ds.Rows)+len(ds.Failures) {
		t.Fatalf("count invariant broken: discovered %d, rows %d, failures %d",
			ds.Discovered, len(ds.Rows), len(ds.Failures))
	}
	for _, failure := range ds.Failures {
		if failure.Kind != sigmf.KindMalformed {
			t.Fatalf("unexpected failure kind: %+v", failure)
		}
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	ds, err := dataset.NewAggregator(0, nil).Scan(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(ds.Rows) != 0 || len(ds.Failures) != 0 {
		t.Fatalf("expected empty dataset, got %d rows, %d failures", len(ds.Rows), len(ds.Failures))
	}
	if ds.RunID == "" {
		t.Fatal("expected run id")
	}
}

func TestScanMissingRootFails(t *testing.T) {
	_, err := dataset.NewAggregator(0, nil).Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanRootNotADirectoryFails(t *testing.T) {
	root := t.TempDir()
	path := testsupport.WriteMetaFile(t, root, "file.sigmf-meta", testsupport.ValidDoc)

	_, err := dataset.NewAggregator(0, nil).Scan(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestScanCollectsNestedFilesUnderWorkers(t *testing.T) {
	root := t.TempDir()
	want := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		name := filepath.Join(fmt.Sprintf("sub_%d", i%3), fmt.Sprintf("cap_%d.sigmf-meta", i))
		testsupport.WriteMetaFile(t, root, name, testsupport.ValidDoc)
		want = append(want, fmt.Sprintf("cap_%d.sigmf-meta", i))
	}

	ds, err := dataset.NewAggregator(4, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	got := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		got = append(got, row.MetaFilename)
	}
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("rows %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows %v, want %v", got, want)
		}
	}
}

func TestScanRecordsDiagnosticsWithPath(t *testing.T) {
	root := t.TempDir()
	doc := `{
	  "global": {},
	  "captures": [],
	  "annotations": [{"ds:c": {"signal_class": {"radar": 2.0}}}]
	}`
	path := testsupport.WriteMetaFile(t, root, "hot.sigmf-meta", doc)

	ds, err := dataset.NewAggregator(1, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("row should still be emitted, got %d rows", len(ds.Rows))
	}
	if len(ds.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", ds.Diagnostics)
	}
	if ds.Diagnostics[0].Path != path || ds.Diagnostics[0].Column != "ml_radar_prob" {
		t.Fatalf("unexpected diagnostic: %+v", ds.Diagnostics[0])
	}
}
