package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 3 * time.Second},
		{"750ms", 750 * time.Millisecond},
		{"12", 12 * time.Second},
		{"garbage", 3 * time.Second},
	}
	for _, tc := range cases {
		t.Setenv("APPRENDE_TEST_DURATION", tc.raw)
		if got := Duration("APPRENDE_TEST_DURATION", 3*time.Second); got != tc.want {
			t.Fatalf("Duration(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestIntAndBool(t *testing.T) {
	t.Setenv("APPRENDE_TEST_INT", "42")
	t.Setenv("APPRENDE_TEST_BOOL", "yes")
	if got := Int("APPRENDE_TEST_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if !Bool("APPRENDE_TEST_BOOL", false) {
		t.Fatalf("Bool should parse yes")
	}
	if got := String("APPRENDE_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("String default = %q", got)
	}
}
