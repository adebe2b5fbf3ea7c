package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ABC1234", "ABC1234"},
		{"abc1234", "ABC1234"},
		{"ABC-1234", "ABC1234"},
		{" abc 1d23 ", "ABC1D23"},
		{"abc.1234", "ABC1234"},
		{"", ""},
		{"???", ""},
		{"ABC@1234", ""},
	}

	for _, c := range cases {
		if got := NormalizePlate(c.in); got != c.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidPlate(t *testing.T) {
	valid := []string{"ABC1234", "ABC1D23", "XYZ9999"}
	for _, p := range valid {
		if !ValidPlate(p) {
			t.Errorf("ValidPlate(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "1234ABC", "AB12345", "ABCD123", "ABC12345"}
	for _, p := range invalid {
		if ValidPlate(p) {
			t.Errorf("ValidPlate(%q) = true, want false", p)
		}
	}
}
