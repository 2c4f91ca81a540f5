package flatten

import (
	"fmt"
	"math"
	"path/filepath"

	"sigscan/internal/fileutil"
	"sigscan/internal/sigmf"
)

// Input carries per-file context the metadata document cannot supply itself.
type Input struct {
	// MetaPath is the metadata file's own path, used to derive filenames.
	MetaPath string
	// DataFileSize is the companion data file's size in bytes, or -1 when the
	// file is missing or was not checked. Only the size is ever consulted;
	// sample contents are never read.
	DataFileSize int64
}

// Diagnostic records a semantic validation issue found while flattening. The
// offending column is nulled in the emitted row; the row itself survives.
type Diagnostic struct {
	Column  string
	Message string
}

// AnnotationDetail preserves one classified annotation in full. The flat row
// only carries the first classified annotation; details carry the rest.
type AnnotationDetail struct {
	MetaFilename string
	Index        int
	VendorKey    string

	SampleStart *uint64
	SampleCount *uint64

	SignalClass     map[string]float64
	ModulationClass map[string]float64

	SNRDB    *float64
	PowerDBm *float64
}

// Signal-class labels recognized in classification blocks. "cellular" is
// accepted as an alias for "cell".
var (
	wifiLabels  = []string{"wifi"}
	cellLabels  = []string{"cell", "cellular"}
	radarLabels = []string{"radar"}
	askLabels   = []string{"ask"}
	pskLabels   = []string{"psk"}
	fskLabels   = []string{"fsk"}
)

// Flatten projects one metadata document into one row. It never fails: out-of
// domain values are reported as diagnostics and nulled instead of aborting.
func Flatten(meta *sigmf.Metadata, in Input) (Row, []Diagnostic, []AnnotationDetail) {
	f := &flattener{}

	row := Row{
		MetaFilename: metaFilename(in.MetaPath),
	}
	row.DataFilename = meta.Global.Dataset
	if row.DataFilename == "" {
		row.DataFilename = fileutil.DataFilenameFor(in.MetaPath)
	}

	g := meta.Global
	row.SampleRateHz = g.SampleRate
	row.CenterFreqHz = g.Frequency
	row.Datatype = optString(g.Datatype)
	row.SigMFVersion = optString(g.Version)
	row.Author = optString(g.Author)
	row.Hardware = optString(g.Hardware)
	row.Gain = g.Gain
	row.AGC = g.AGC
	row.SDRHandle = optString(g.SDRHandle)
	row.Latitude = g.Geolocation.Latitude()
	row.Longitude = g.Geolocation.Longitude()

	f.fillSampleCounts(&row, g, in.DataFileSize)
	f.fillCaptureDatetime(&row, meta.Captures)
	f.fillAnnotationEdges(&row, meta.Annotations)
	f.fillClassification(&row, meta.Annotations)

	return row, f.diagnostics, annotationDetails(row.MetaFilename, meta.Annotations)
}

type flattener struct {
	diagnostics []Diagnostic
}

func (f *flattener) diagf(column, format string, args ...any) {
	f.diagnostics = append(f.diagnostics, Diagnostic{
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

// fillSampleCounts derives num_samples and duration_s from the data file size
// and the sample encoding. Both stay null when either input is unknown.
func (f *flattener) fillSampleCounts(row *Row, g sigmf.Global, dataSize int64) {
	if dataSize < 0 || g.Datatype == "" {
		return
	}
	dt, err := sigmf.ParseDatatype(g.Datatype)
	if err != nil {
		// Unknown encodings are tolerated; the datatype column keeps the raw
		// string and the derived columns stay null.
		return
	}
	n := dataSize / int64(dt.SampleBytes())
	row.NumSamples = &n

	if g.SampleRate != nil && *g.SampleRate > 0 {
		d := float64(n) / *g.SampleRate
		row.DurationS = &d
	}
}

// fillCaptureDatetime takes the timestamp of the first capture segment that
// states one. Capture-level frequency/gain overrides are deliberately not
// promoted; global values are authoritative for the flat row.
func (f *flattener) fillCaptureDatetime(row *Row, captures []sigmf.Capture) {
	for _, capture := range captures {
		if capture.Datetime != "" {
			v := capture.Datetime
			row.CaptureDatetime = &v
			return
		}
	}
}

func (f *flattener) fillAnnotationEdges(row *Row, annotations []sigmf.Annotation) {
	if len(annotations) == 0 {
		return
	}
	row.FreqLowerEdgeHz = annotations[0].FreqLowerEdge
	row.FreqUpperEdgeHz = annotations[0].FreqUpperEdge
}

// fillClassification populates the ml_* and signal-quality columns from the
// first annotation carrying a classification block. First wins even when a
// later annotation carries different values.
func (f *flattener) fillClassification(row *Row, annotations []sigmf.Annotation) {
	var cls *sigmf.Classification
	for i := range annotations {
		if annotations[i].Classification != nil {
			cls = annotations[i].Classification
			break
		}
	}
	if cls == nil {
		return
	}

	row.MLWifiProb = f.prob(cls.SignalClass, "ml_wifi_prob", wifiLabels)
	row.MLCellProb = f.prob(cls.SignalClass, "ml_cell_prob", cellLabels)
	row.MLRadarProb = f.prob(cls.SignalClass, "ml_radar_prob", radarLabels)
	row.MLAskProb = f.prob(cls.ModulationClass, "ml_ask_prob", askLabels)
	row.MLPskProb = f.prob(cls.ModulationClass, "ml_psk_prob", pskLabels)
	row.MLFskProb = f.prob(cls.ModulationClass, "ml_fsk_prob", fskLabels)

	row.SNRDB = cls.SNRDB
	row.PowerDBm = cls.PowerDBm
	row.PowerDBFS = cls.PowerDBFS
	row.MLNoSig = cls.NoSignal
	row.SigUUID = optString(cls.UUID)
}

// prob looks up the first matching label and bounds-checks it. Out-of-range
// (or non-finite) probabilities null the column and record a diagnostic.
func (f *flattener) prob(m map[string]float64, column string, labels []string) *float64 {
	for _, label := range labels {
		v, ok := m[label]
		if !ok {
			continue
		}
		if v < 0 || v > 1 || math.IsNaN(v) || math.IsInf(v, 0) {
			f.diagf(column, "probability %v for label %q outside [0,1]", v, label)
			return nil
		}
		return &v
	}
	return nil
}

func annotationDetails(metaFilename string, annotations []sigmf.Annotation) []AnnotationDetail {
	var details []AnnotationDetail
	for i := range annotations {
		cls := annotations[i].Classification
		if cls == nil {
			continue
		}
		details = append(details, AnnotationDetail{
			MetaFilename:    metaFilename,
			Index:           i,
			VendorKey:       cls.VendorKey,
			SampleStart:     annotations[i].SampleStart,
			SampleCount:     annotations[i].SampleCount,
			SignalClass:     copyProbs(cls.SignalClass),
			ModulationClass: copyProbs(cls.ModulationClass),
			SNRDB:           cls.SNRDB,
			PowerDBm:        cls.PowerDBm,
		})
	}
	return details
}

func copyProbs(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func metaFilename(metaPath string) string {
	return filepath.Base(metaPath)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
