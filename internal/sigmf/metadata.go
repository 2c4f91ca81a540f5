package sigmf

import "encoding/json"

// Key names recognized by the decoder. SigMF namespaces core fields with
// "core:" and vendor fields with the vendor's prefix; the capture hardware
// this tool ingests uses "ds:".
const (
	keyGlobal      = "global"
	keyCaptures    = "captures"
	keyAnnotations = "annotations"

	keyDatatype    = "core:datatype"
	keySampleRate  = "core:sample_rate"
	keyVersion     = "core:version"
	keyDescription = "core:description"
	keyAuthor      = "core:author"
	keyLicense     = "core:license"
	keyHardware    = "core:hw"
	keyDataset     = "core:dataset"
	keyFrequency   = "core:frequency"
	keyGeolocation = "core:geolocation"
	keySampleStart = "core:sample_start"
	keySampleCount = "core:sample_count"
	keyDatetime    = "core:datetime"
	keyFreqLower   = "core:freq_lower_edge"
	keyFreqUpper   = "core:freq_upper_edge"

	keyGain        = "ds:gain"
	keyAGC         = "ds:agc"
	keySDRHandle   = "ds:sdr_handle"
	keySequenceNum = "ds:sequence_num"
)

// Keys inside a classification extension block. The block itself may live
// under any vendor key; the decoder recognizes it by these contents.
const (
	keySignalClass     = "signal_class"
	keyModulationClass = "modulation_class"
	keySNR             = "snr_db"
	keyPowerDBm        = "power_dbm"
	keyPowerDBFS       = "power_dbfs"
	keySigBandwidth    = "sig_bandwidth_hz"
	keySigCenterFreq   = "sig_center_freq_hz"
	keyNoSignal        = "no_signal"
	keyUUID            = "uuid"
)

// Flat annotation keys written by older capture firmware, before the
// classification block existed. Custom classifier results arrive as a list of
// {className, classProb} objects.
const (
	keyLegacyCustomProbs = "ds:customClassifierProbs"
	keyLegacyAskProb     = "ds:askProb"
	keyLegacyPskProb     = "ds:pskProb"
	keyLegacyFskProb     = "ds:fskProb"
	keyLegacySNR         = "ds:snr"
	keyLegacyPowerDBm    = "ds:sig_power_dbm"
	keyLegacyPowerDBFS   = "ds:sig_power_dbfs"
	keyLegacyBandwidth   = "ds:sigBandwidth"
	keyLegacyCenterFreq  = "ds:sigCenterFreq"
	keyLegacyNoSignal    = "ds:ml_no_sig"
	keyLegacyUUID        = "ds:uuid"
)

// Metadata is one parsed signal metadata document.
type Metadata struct {
	Global      Global
	Captures    []Capture
	Annotations []Annotation

	// Extra holds unrecognized top-level keys verbatim.
	Extra map[string]json.RawMessage
}

// Global holds capture-level parameters shared by the whole recording.
type Global struct {
	Datatype    string
	SampleRate  *float64
	Version     string
	Description string
	Author      string
	License     string
	Hardware    string
	// Dataset is the explicit companion data-file name, overriding the name
	// derived from the metadata filename.
	Dataset     string
	Frequency   *float64
	Geolocation *Geolocation

	Gain      *float64
	AGC       *bool
	SDRHandle string

	Extra map[string]json.RawMessage
}

// Geolocation is a GeoJSON point. Coordinates follow the upstream capture
// convention: index 0 is latitude, index 1 is longitude.
type Geolocation struct {
	Type        string
	Coordinates []float64
}

// Latitude returns the first coordinate, if present.
func (g *Geolocation) Latitude() *float64 {
	if g == nil || len(g.Coordinates) < 1 {
		return nil
	}
	v := g.Coordinates[0]
	return &v
}

// Longitude returns the second coordinate, if present.
func (g *Geolocation) Longitude() *float64 {
	if g == nil || len(g.Coordinates) < 2 {
		return nil
	}
	v := g.Coordinates[1]
	return &v
}

// Capture is one capture segment: a sample offset plus optional per-segment
// overrides. Overrides are modeled but never promoted into the flat row.
type Capture struct {
	SampleStart *uint64
	Frequency   *float64
	Datetime    string
	Gain        *float64
	AGC         *bool
	SequenceNum *uint64

	Extra map[string]json.RawMessage
}

// Annotation is a labeled sample range, optionally carrying a vendor
// classification extension block.
type Annotation struct {
	SampleStart   *uint64
	SampleCount   *uint64
	FreqLowerEdge *float64
	FreqUpperEdge *float64

	// Classification is nil when the annotation carries no extension block.
	// A nil block is distinct from a block with zero probabilities.
	Classification *Classification

	Extra map[string]json.RawMessage
}

// Classification is a vendor machine-learning extension block: label to
// probability maps plus signal-quality scalars.
type Classification struct {
	// VendorKey is the annotation key the block was found under (for example
	// "ds:classification").
	VendorKey string

	SignalClass     map[string]float64
	ModulationClass map[string]float64

	SNRDB         *float64
	PowerDBm      *float64
	PowerDBFS     *float64
	SigBandwidth  *float64
	SigCenterFreq *float64
	NoSignal      *bool
	UUID          string

	Extra map[string]json.RawMessage
}
