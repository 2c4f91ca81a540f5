package sigmf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Decode parses one metadata document. Top-level "global" and "captures" keys
// are required; "annotations" and everything unrecognized are optional.
// Wrong-typed values fail with the offending field path; unknown keys are
// preserved in Extra maps at every level.
func Decode(data []byte) (*Metadata, error) {
	top, err := decodeObject(json.RawMessage(data), "")
	if err != nil {
		return nil, err
	}

	meta := &Metadata{}

	globalRaw, ok := top[keyGlobal]
	if !ok || isNull(globalRaw) {
		return nil, Malformedf(keyGlobal, "missing required key")
	}
	if meta.Global, err = decodeGlobal(globalRaw, keyGlobal); err != nil {
		return nil, err
	}

	capturesRaw, ok := top[keyCaptures]
	if !ok || isNull(capturesRaw) {
		return nil, Malformedf(keyCaptures, "missing required key")
	}
	if meta.Captures, err = decodeCaptures(capturesRaw, keyCaptures); err != nil {
		return nil, err
	}

	if annRaw, ok := top[keyAnnotations]; ok && !isNull(annRaw) {
		if meta.Annotations, err = decodeAnnotations(annRaw, keyAnnotations); err != nil {
			return nil, err
		}
	}

	for key, val := range top {
		switch key {
		case keyGlobal, keyCaptures, keyAnnotations:
		default:
			if meta.Extra == nil {
				meta.Extra = make(map[string]json.RawMessage)
			}
			meta.Extra[key] = val
		}
	}

	return meta, nil
}

func decodeGlobal(raw json.RawMessage, path string) (Global, error) {
	var g Global
	obj, err := decodeObject(raw, path)
	if err != nil {
		return g, err
	}

	for key, val := range obj {
		if isNull(val) {
			continue
		}
		fieldPath := path + "." + key
		var err error
		switch key {
		case keyDatatype:
			g.Datatype, err = decodeString(val, fieldPath)
		case keySampleRate:
			g.SampleRate, err = decodeFloatPtr(val, fieldPath)
		case keyVersion:
			g.Version, err = decodeString(val, fieldPath)
		case keyDescription:
			g.Description, err = decodeString(val, fieldPath)
		case keyAuthor:
			g.Author, err = decodeString(val, fieldPath)
		case keyLicense:
			g.License, err = decodeString(val, fieldPath)
		case keyHardware:
			g.Hardware, err = decodeString(val, fieldPath)
		case keyDataset:
			g.Dataset, err = decodeString(val, fieldPath)
		case keyFrequency:
			g.Frequency, err = decodeFloatPtr(val, fieldPath)
		case keyGeolocation:
			g.Geolocation, err = decodeGeolocation(val, fieldPath)
		case keyGain:
			g.Gain, err = decodeFloatPtr(val, fieldPath)
		case keyAGC:
			g.AGC, err = decodeBoolPtr(val, fieldPath)
		case keySDRHandle:
			g.SDRHandle, err = decodeString(val, fieldPath)
		default:
			if g.Extra == nil {
				g.Extra = make(map[string]json.RawMessage)
			}
			g.Extra[key] = val
		}
		if err != nil {
			return g, err
		}
	}

	return g, nil
}

func decodeGeolocation(raw json.RawMessage, path string) (*Geolocation, error) {
	obj, err := decodeObject(raw, path)
	if err != nil {
		return nil, err
	}
	geo := &Geolocation{}
	if val, ok := obj["type"]; ok && !isNull(val) {
		if geo.Type, err = decodeString(val, path+".type"); err != nil {
			return nil, err
		}
	}
	if val, ok := obj["coordinates"]; ok && !isNull(val) {
		elems, err := decodeArray(val, path+".coordinates")
		if err != nil {
			return nil, err
		}
		geo.Coordinates = make([]float64, 0, len(elems))
		for i, elem := range elems {
			f, err := decodeFloat(elem, fmt.Sprintf("%s.coordinates[%d]", path, i))
			if err != nil {
				return nil, err
			}
			geo.Coordinates = append(geo.Coordinates, f)
		}
	}
	return geo, nil
}

func decodeCaptures(raw json.RawMessage, path string) ([]Capture, error) {
	elems, err := decodeArray(raw, path)
	if err != nil {
		return nil, err
	}
	captures := make([]Capture, 0, len(elems))
	for i, elem := range elems {
		capture, err := decodeCapture(elem, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		captures = append(captures, capture)
	}
	return captures, nil
}

func decodeCapture(raw json.RawMessage, path string) (Capture, error) {
	var c Capture
	obj, err := decodeObject(raw, path)
	if err != nil {
		return c, err
	}

	for key, val := range obj {
		if isNull(val) {
			continue
		}
		fieldPath := path + "." + key
		var err error
		switch key {
		case keySampleStart:
			c.SampleStart, err = decodeUintPtr(val, fieldPath)
		case keyFrequency:
			c.Frequency, err = decodeFloatPtr(val, fieldPath)
		case keyDatetime:
			c.Datetime, err = decodeString(val, fieldPath)
		case keyGain:
			c.Gain, err = decodeFloatPtr(val, fieldPath)
		case keyAGC:
			c.AGC, err = decodeBoolPtr(val, fieldPath)
		case keySequenceNum:
			c.SequenceNum, err = decodeUintPtr(val, fieldPath)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = val
		}
		if err != nil {
			return c, err
		}
	}

	return c, nil
}

func decodeAnnotations(raw json.RawMessage, path string) ([]Annotation, error) {
	elems, err := decodeArray(raw, path)
	if err != nil {
		return nil, err
	}
	annotations := make([]Annotation, 0, len(elems))
	for i, elem := range elems {
		annotation, err := decodeAnnotation(elem, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, annotation)
	}
	return annotations, nil
}

func decodeAnnotation(raw json.RawMessage, path string) (Annotation, error) {
	var a Annotation
	obj, err := decodeObject(raw, path)
	if err != nil {
		return a, err
	}

	for key, val := range obj {
		if isNull(val) {
			continue
		}
		fieldPath := path + "." + key
		var err error
		switch key {
		case keySampleStart:
			a.SampleStart, err = decodeUintPtr(val, fieldPath)
		case keySampleCount:
			a.SampleCount, err = decodeUintPtr(val, fieldPath)
		case keyFreqLower:
			a.FreqLowerEdge, err = decodeFloatPtr(val, fieldPath)
		case keyFreqUpper:
			a.FreqUpperEdge, err = decodeFloatPtr(val, fieldPath)
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[key] = val
		}
		if err != nil {
			return a, err
		}
	}

	// A classification extension block lives under a vendor key whose exact
	// name is not fixed; recognize it by its contents. Keys are visited in
	// sorted order so repeated parses of one document agree on the block.
	for _, key := range sortedKeys(a.Extra) {
		obj, ok := asObject(a.Extra[key])
		if !ok {
			continue
		}
		if !looksLikeClassification(obj) {
			continue
		}
		cls, err := decodeClassification(obj, path+"."+key)
		if err != nil {
			return a, err
		}
		cls.VendorKey = key
		a.Classification = cls
		delete(a.Extra, key)
		break
	}

	if a.Classification == nil && hasLegacyClassification(a.Extra) {
		cls, err := decodeLegacyClassification(a.Extra, path)
		if err != nil {
			return a, err
		}
		a.Classification = cls
	}

	return a, nil
}

// hasLegacyClassification mirrors the original ml-annotation test: any of the
// flat custom-probs, ask/psk, or center-frequency keys marks the annotation as
// classified.
func hasLegacyClassification(extra map[string]json.RawMessage) bool {
	for _, key := range []string{keyLegacyCustomProbs, keyLegacyAskProb, keyLegacyPskProb, keyLegacyCenterFreq} {
		if _, ok := extra[key]; ok {
			return true
		}
	}
	return false
}

var legacyClassificationKeys = []string{
	keyLegacyCustomProbs, keyLegacyAskProb, keyLegacyPskProb, keyLegacyFskProb,
	keyLegacySNR, keyLegacyPowerDBm, keyLegacyPowerDBFS, keyLegacyBandwidth,
	keyLegacyCenterFreq, keyLegacyNoSignal, keyLegacyUUID,
}

// decodeLegacyClassification lifts flat "ds:" annotation keys into a
// Classification. Recognized keys are consumed from extra; anything else stays.
func decodeLegacyClassification(extra map[string]json.RawMessage, path string) (*Classification, error) {
	cls := &Classification{VendorKey: "ds"}

	modulation := func(label string, raw json.RawMessage, fieldPath string) error {
		f, err := decodeFloat(raw, fieldPath)
		if err != nil {
			return err
		}
		if cls.ModulationClass == nil {
			cls.ModulationClass = make(map[string]float64)
		}
		cls.ModulationClass[label] = f
		return nil
	}

	for _, key := range legacyClassificationKeys {
		raw, ok := extra[key]
		if !ok {
			continue
		}
		fieldPath := path + "." + key
		var err error
		switch key {
		case keyLegacyCustomProbs:
			cls.SignalClass, err = decodeCustomProbs(raw, fieldPath)
		case keyLegacyAskProb:
			err = modulation("ask", raw, fieldPath)
		case keyLegacyPskProb:
			err = modulation("psk", raw, fieldPath)
		case keyLegacyFskProb:
			err = modulation("fsk", raw, fieldPath)
		case keyLegacySNR:
			cls.SNRDB, err = decodeFloatPtr(raw, fieldPath)
		case keyLegacyPowerDBm:
			cls.PowerDBm, err = decodeFloatPtr(raw, fieldPath)
		case keyLegacyPowerDBFS:
			cls.PowerDBFS, err = decodeFloatPtr(raw, fieldPath)
		case keyLegacyBandwidth:
			cls.SigBandwidth, err = decodeFloatPtr(raw, fieldPath)
		case keyLegacyCenterFreq:
			cls.SigCenterFreq, err = decodeFloatPtr(raw, fieldPath)
		case keyLegacyNoSignal:
			cls.NoSignal, err = decodeBoolPtr(raw, fieldPath)
		case keyLegacyUUID:
			cls.UUID, err = decodeString(raw, fieldPath)
		}
		if err != nil {
			return nil, err
		}
		delete(extra, key)
	}

	return cls, nil
}

func decodeCustomProbs(raw json.RawMessage, path string) (map[string]float64, error) {
	elems, err := decodeArray(raw, path)
	if err != nil {
		return nil, err
	}
	probs := make(map[string]float64, len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, err := decodeObject(elem, elemPath)
		if err != nil {
			return nil, err
		}
		nameRaw, ok := obj["className"]
		if !ok || isNull(nameRaw) {
			return nil, Malformedf(elemPath, "missing className")
		}
		name, err := decodeString(nameRaw, elemPath+".className")
		if err != nil {
			return nil, err
		}
		probRaw, ok := obj["classProb"]
		if !ok || isNull(probRaw) {
			return nil, Malformedf(elemPath, "missing classProb")
		}
		prob, err := decodeFloat(probRaw, elemPath+".classProb")
		if err != nil {
			return nil, err
		}
		probs[name] = prob
	}
	return probs, nil
}

func looksLikeClassification(obj map[string]json.RawMessage) bool {
	for _, key := range []string{keySignalClass, keyModulationClass, keySNR, keyPowerDBm} {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

func decodeClassification(obj map[string]json.RawMessage, path string) (*Classification, error) {
	cls := &Classification{}

	for key, val := range obj {
		if isNull(val) {
			continue
		}
		fieldPath := path + "." + key
		var err error
		switch key {
		case keySignalClass:
			cls.SignalClass, err = decodeProbMap(val, fieldPath)
		case keyModulationClass:
			cls.ModulationClass, err = decodeProbMap(val, fieldPath)
		case keySNR:
			cls.SNRDB, err = decodeFloatPtr(val, fieldPath)
		case keyPowerDBm:
			cls.PowerDBm, err = decodeFloatPtr(val, fieldPath)
		case keyPowerDBFS:
			cls.PowerDBFS, err = decodeFloatPtr(val, fieldPath)
		case keySigBandwidth:
			cls.SigBandwidth, err = decodeFloatPtr(val, fieldPath)
		case keySigCenterFreq:
			cls.SigCenterFreq, err = decodeFloatPtr(val, fieldPath)
		case keyNoSignal:
			cls.NoSignal, err = decodeBoolPtr(val, fieldPath)
		case keyUUID:
			cls.UUID, err = decodeString(val, fieldPath)
		default:
			if cls.Extra == nil {
				cls.Extra = make(map[string]json.RawMessage)
			}
			cls.Extra[key] = val
		}
		if err != nil {
			return nil, err
		}
	}

	return cls, nil
}

func decodeProbMap(raw json.RawMessage, path string) (map[string]float64, error) {
	obj, err := decodeObject(raw, path)
	if err != nil {
		return nil, err
	}
	probs := make(map[string]float64, len(obj))
	for label, val := range obj {
		if isNull(val) {
			continue
		}
		f, err := decodeFloat(val, path+"."+label)
		if err != nil {
			return nil, err
		}
		probs[label] = f
	}
	return probs, nil
}

// Raw-value helpers. All type mismatches surface as malformed-metadata errors
// naming the field path; numbers accept both integer and float literals.

func decodeObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, Malformedf(path, "expected object, got %s", jsonTypeName(raw))
	}
	return obj, nil
}

func decodeArray(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, Malformedf(path, "expected array, got %s", jsonTypeName(raw))
	}
	return elems, nil
}

func decodeString(raw json.RawMessage, path string) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", Malformedf(path, "expected string, got %s", jsonTypeName(raw))
	}
	return s, nil
}

func decodeFloat(raw json.RawMessage, path string) (float64, error) {
	num, err := decodeNumber(raw, path)
	if err != nil {
		return 0, err
	}
	f, err := num.Float64()
	if err != nil {
		return 0, Malformedf(path, "invalid number %q", num.String())
	}
	return f, nil
}

func decodeFloatPtr(raw json.RawMessage, path string) (*float64, error) {
	f, err := decodeFloat(raw, path)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeUint(raw json.RawMessage, path string) (uint64, error) {
	num, err := decodeNumber(raw, path)
	if err != nil {
		return 0, err
	}
	if u, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
		return u, nil
	}
	// Tolerate a float literal that carries an integral value (e.g. 4096.0).
	f, err := num.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxUint64 {
		return 0, Malformedf(path, "expected non-negative integer, got %s", num.String())
	}
	return uint64(f), nil
}

func decodeUintPtr(raw json.RawMessage, path string) (*uint64, error) {
	u, err := decodeUint(raw, path)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func decodeBool(raw json.RawMessage, path string) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, Malformedf(path, "expected boolean, got %s", jsonTypeName(raw))
	}
	return b, nil
}

func decodeBoolPtr(raw json.RawMessage, path string) (*bool, error) {
	b, err := decodeBool(raw, path)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func decodeNumber(raw json.RawMessage, path string) (json.Number, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !isNumberStart(trimmed[0]) {
		return "", Malformedf(path, "expected number, got %s", jsonTypeName(raw))
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return "", Malformedf(path, "expected number, got %s", jsonTypeName(raw))
	}
	return num, nil
}

func isNumberStart(b byte) bool {
	return b == '-' || (b >= '0' && b <= '9')
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func jsonTypeName(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty value"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
