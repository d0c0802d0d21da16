package domain

import (
	"testing"
	"time"
)

func TestOTPCode_ExpiredAt(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := OTPCode{ID: "c1", UserID: "u1", Code: "482913", CreatedAt: issued}
	ttl := 20 * time.Minute

	cases := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{"immediately", issued, false},
		{"mid window", issued.Add(10 * time.Minute), false},
		{"exact boundary", issued.Add(20 * time.Minute), false},
		{"one ns past", issued.Add(20*time.Minute + time.Nanosecond), true},
		{"one second past", issued.Add(20*time.Minute + time.Second), true},
		{"long past", issued.Add(24 * time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := code.ExpiredAt(tc.now, ttl); got != tc.expired {
				t.Fatalf("ExpiredAt(%v) = %v, want %v", tc.now, got, tc.expired)
			}
		})
	}
}

func TestParsePlan(t *testing.T) {
	for _, valid := range []string{"free", "light", "standard", "pro"} {
		if _, ok := ParsePlan(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "Free", "platinum", "light "} {
		if _, ok := ParsePlan(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"monthly", "yearly"} {
		if _, ok := ParseFrequency(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "weekly", "Monthly"} {
		if _, ok := ParseFrequency(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}
