package sigmf

import (
	"fmt"
	"strings"
)

// Datatype describes the sample encoding of the companion data file, parsed
// from a SigMF datatype string such as "cf32_le" or "ri16_be".
type Datatype struct {
	Complex bool
	// Kind is 'f' (float), 'i' (signed int) or 'u' (unsigned int).
	Kind byte
	Bits int
	// BigEndian is meaningful only for multi-byte components.
	BigEndian bool
}

// ParseDatatype parses a SigMF datatype string. Unknown strings return an
// error; callers that tolerate unknown encodings keep the raw string and skip
// size-derived fields.
func ParseDatatype(s string) (Datatype, error) {
	var dt Datatype

	body, endian, hasEndian := strings.Cut(s, "_")
	if hasEndian {
		switch endian {
		case "le":
		case "be":
			dt.BigEndian = true
		default:
			return dt, fmt.Errorf("datatype %q: unknown byte order %q", s, endian)
		}
	}

	if len(body) < 3 {
		return dt, fmt.Errorf("datatype %q: too short", s)
	}
	switch body[0] {
	case 'c':
		dt.Complex = true
	case 'r':
	default:
		return dt, fmt.Errorf("datatype %q: expected complex/real prefix", s)
	}

	kind := body[1]
	switch kind {
	case 'f', 'i', 'u':
		dt.Kind = kind
	default:
		return dt, fmt.Errorf("datatype %q: unknown component type %q", s, string(kind))
	}

	switch body[2:] {
	case "8":
		dt.Bits = 8
	case "16":
		dt.Bits = 16
	case "32":
		dt.Bits = 32
	case "64":
		dt.Bits = 64
	default:
		return dt, fmt.Errorf("datatype %q: unsupported width %q", s, body[2:])
	}

	if dt.Kind == 'f' && dt.Bits < 32 {
		return dt, fmt.Errorf("datatype %q: float samples must be 32 or 64 bit", s)
	}
	if dt.Bits > 8 && !hasEndian {
		return dt, fmt.Errorf("datatype %q: multi-byte samples need a byte order suffix", s)
	}

	return dt, nil
}

// SampleBytes returns the size of one sample, counting both components of a
// complex pair.
func (d Datatype) SampleBytes() int {
	bytes := d.Bits / 8
	if d.Complex {
		bytes *= 2
	}
	return bytes
}

func (d Datatype) String() string {
	prefix := "r"
	if d.Complex {
		prefix = "c"
	}
	s := fmt.Sprintf("%s%c%d", prefix, d.Kind, d.Bits)
	if d.Bits > 8 {
		if d.BigEndian {
			s += "_be"
		} else {
			s += "_le"
		}
	}
	return s
}
