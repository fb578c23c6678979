package services

import (
	"math"
	"testing"
)

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name     string
		grades   []WeightedGrade
		expected float64
	}{
		{
			name: "two weighted grades",
			grades: []WeightedGrade{
				{Percentage: 80, Weight: 40},
				{Percentage: 90, Weight: 60},
			},
			expected: 86.0,
		},
		{
			name: "ungraded assignment excluded not zero-scored",
			// A third assignment exists in the class but has no grade for
			// this student, so it appears nowhere in the input.
			grades: []WeightedGrade{
				{Percentage: 80, Weight: 40},
				{Percentage: 90, Weight: 60},
			},
			expected: 86.0,
		},
		{
			name:     "no graded assignments yields sentinel zero",
			grades:   nil,
			expected: 0,
		},
		{
			name: "single grade",
			grades: []WeightedGrade{
				{Percentage: 72.5, Weight: 25},
			},
			expected: 72.5,
		},
		{
			name: "equal weights reduce to plain mean",
			grades: []WeightedGrade{
				{Percentage: 60, Weight: 10},
				{Percentage: 100, Weight: 10},
			},
			expected: 80,
		},
		{
			name: "zero total weight",
			grades: []WeightedGrade{
				{Percentage: 95, Weight: 0},
			},
			expected: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedAverage(tc.grades)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("expected %.4f, got %.4f", tc.expected, got)
			}
		})
	}
}

func TestSummarizeAverages(t *testing.T) {
	stats := SummarizeAverages([]float64{86, 0, 72, 91})

	if stats.TotalStudents != 4 {
		t.Fatalf("expected 4 students, got %d", stats.TotalStudents)
	}
	// 0 is the "no grades yet" sentinel and must not drag the mean down.
	if math.Abs(stats.AverageGrade-83.0) > 1e-9 {
		t.Fatalf("expected class average 83.0, got %.4f", stats.AverageGrade)
	}
	if stats.HighestGrade != 91 {
		t.Fatalf("expected highest 91, got %.4f", stats.HighestGrade)
	}
	if stats.LowestGrade != 72 {
		t.Fatalf("expected lowest 72, got %.4f", stats.LowestGrade)
	}
}

func TestSummarizeAveragesEmpty(t *testing.T) {
	stats := SummarizeAverages(nil)
	if stats.TotalStudents != 0 || stats.AverageGrade != 0 || stats.HighestGrade != 0 || stats.LowestGrade != 0 {
		t.Fatalf("expected zero stats for empty class, got %+v", stats)
	}

	stats = SummarizeAverages([]float64{0, 0})
	if stats.TotalStudents != 2 || stats.AverageGrade != 0 {
		t.Fatalf("expected zero average for ungraded class, got %+v", stats)
	}
}

func TestBehaviorScore(t *testing.T) {
	tests := []struct {
		name     string
		positive int
		negative int
		expected float64
	}{
		{name: "three positive one negative", positive: 3, negative: 1, expected: 50},
		{name: "all positive", positive: 5, negative: 0, expected: 100},
		{name: "all negative", positive: 0, negative: 4, expected: -100},
		{name: "balanced", positive: 2, negative: 2, expected: 0},
		{name: "no incidents", positive: 0, negative: 0, expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := BehaviorScore(tc.positive, tc.negative)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestDailyAttendanceRate(t *testing.T) {
	tests := []struct {
		name     string
		present  int
		late     int
		roster   int
		expected float64
	}{
		// 10 active students, 7 present + 2 late + 1 absent
		{name: "late counts toward the rate", present: 7, late: 2, roster: 10, expected: 90},
		{name: "absentees by omission stay in the denominator", present: 5, late: 0, roster: 10, expected: 50},
		{name: "empty roster", present: 0, late: 0, roster: 0, expected: 0},
		{name: "full house", present: 10, late: 0, roster: 10, expected: 100},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := DailyAttendanceRate(tc.present, tc.late, tc.roster)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestRangeAttendanceRate(t *testing.T) {
	// The date-range formula counts only recorded days; late days do not
	// count as present here, unlike the single-day formula.
	if got := RangeAttendanceRate(18, 20); math.Abs(got-90) > 1e-9 {
		t.Fatalf("expected 90, got %.2f", got)
	}
	if got := RangeAttendanceRate(0, 0); got != 0 {
		t.Fatalf("expected 0 for no records, got %.2f", got)
	}
}
