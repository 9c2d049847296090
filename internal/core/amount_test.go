package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"-300", "-300", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestParseCeiling(t *testing.T) {
	if _, err := ParseCeiling("-100"); err != ErrNegativeBudget {
		t.Fatalf("negative ceiling: got %v, want %v", err, ErrNegativeBudget)
	}
	got, err := ParseCeiling("150.50")
	if err != nil || got.String() != "150.5" {
		t.Fatalf("ParseCeiling(150.50) = %s, %v", got, err)
	}
	// Zero is a valid (if harsh) ceiling: an unset budget behaves the same.
	if _, err := ParseCeiling("0"); err != nil {
		t.Fatalf("zero ceiling should be valid: %v", err)
	}
}

func TestRound2(t *testing.T) {
	d, _ := ParseAmount("2199.999")
	if Round2(d).String() != "2200" {
		t.Fatalf("Round2(2199.999) = %s", Round2(d))
	}
}
