package utils

import "testing"

func TestNormalizeMSISDN(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"254712345678", "254712345678", false},
		{"0712345678", "254712345678", false},
		{"712345678", "254712345678", false},
		{"+254 712 345-678", "254712345678", false},
		{"0112345678", "254112345678", false},
		{"", "", true},
		{"abc", "", true},
		{"2547123", "", true},
		{"0812345678", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeMSISDN(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeMSISDN(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeMSISDN(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeMSISDN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
