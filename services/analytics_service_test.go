package services

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   string
		expected time.Time
	}{
		{name: "daily", period: "daily", expected: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
		{name: "weekly", period: "weekly", expected: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)},
		{name: "monthly", period: "monthly", expected: time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)},
		{name: "semester", period: "semester", expected: time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "yearly", period: "yearly", expected: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		{name: "unknown falls back to thirty days", period: "fortnight", expected: time.Date(2025, 2, 13, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := PeriodStart(tc.period, now)
			if !got.Equal(tc.expected) {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
