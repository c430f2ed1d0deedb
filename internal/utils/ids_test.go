package utils

import "testing"

func TestParseID(t *testing.T) {
	cases := []struct {
		s    string
		want uint64
		ok   bool
	}{
		// valid ids
		{"1", 1, true},
		{"42", 42, true},
		{"0012", 12, true},
		{"9223372036854775807", 9223372036854775807, true},
		// invalid
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"+3", 0, false},
		{" 42", 0, false},
		{"4x", 0, false},
		{"9223372036854775808", 0, false}, // above int64
		{"18446744073709551615", 0, false},
		{"18446744073709551616", 0, false}, // overflow
	}

	for _, tc := range cases {
		got, err := ParseID(tc.s)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseID(%q) = %d, %v; want %d", tc.s, got, err, tc.want)
		}
		if !tc.ok && (err != ErrInvalidID || got != 0) {
			t.Fatalf("ParseID(%q) = %d, %v; want ErrInvalidID", tc.s, got, err)
		}
	}
}
