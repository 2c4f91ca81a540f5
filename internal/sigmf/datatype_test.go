package sigmf_test

import (
	"testing"

	"sigscan/internal/sigmf"
)

func TestParseDatatype(t *testing.T) {
	cases := []struct {
		in      string
		bytes   int
		complex bool
	}{
		{"cf32_le", 8, true},
		{"ci16_le", 4, true},
		{"cf64_be", 16, true},
		{"ri16_be", 2, false},
		{"rf32_le", 4, false},
		{"ru8", 1, false},
		{"cu8", 2, true},
	}
	for _, tc := range cases {
		dt, err := sigmf.ParseDatatype(tc.in)
		if err != nil {
			t.Fatalf("ParseDatatype(%q) returned error: %v", tc.in, err)
		}
		if dt.SampleBytes() != tc.bytes {
			t.Fatalf("ParseDatatype(%q): sample bytes %d, want %d", tc.in, dt.SampleBytes(), tc.bytes)
		}
		if dt.Complex != tc.complex {
			t.Fatalf("ParseDatatype(%q): complex %v, want %v", tc.in, dt.Complex, tc.complex)
		}
		if dt.String() != tc.in {
			t.Fatalf("ParseDatatype(%q): round-trip %q", tc.in, dt.String())
		}
	}
}

func TestParseDatatypeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "x", "cf32", "cf8_le", "ci16_pdp", "qf32_le", "cf128_le"} {
		if _, err := sigmf.ParseDatatype(in); err == nil {
			t.Fatalf("ParseDatatype(%q) should fail", in)
		}
	}
}
