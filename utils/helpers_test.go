package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Errorf("CheckPassword rejected the correct password: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("GenerateRandomString returned error: %v", err)
	}
	if len(s1) != 16 {
		t.Errorf("expected length 16, got %d", len(s1))
	}

	s2, _ := GenerateRandomString(16)
	if s1 == s2 {
		t.Error("two generated strings should not collide")
	}
}

func TestIsValidAttendanceStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"present", true},
		{"absent", true},
		{"late", true},
		{"excused", true},
		{"Present", false},
		{"sick", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidAttendanceStatus(tt.status); got != tt.want {
			t.Errorf("IsValidAttendanceStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsValidReportType(t *testing.T) {
	tests := []struct {
		reportType string
		want       bool
	}{
		{"attendance", true},
		{"grades", true},
		{"behavior", true},
		{"comprehensive", true},
		{"summary", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidReportType(tt.reportType); got != tt.want {
			t.Errorf("IsValidReportType(%q) = %v, want %v", tt.reportType, got, tt.want)
		}
	}
}

func TestIsValidAnalyticsType(t *testing.T) {
	tests := []struct {
		analyticsType string
		want          bool
	}{
		{"attendance", true},
		{"grades", true},
		{"behavior", true},
		{"comprehensive", true},
		{"overview", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidAnalyticsType(tt.analyticsType); got != tt.want {
			t.Errorf("IsValidAnalyticsType(%q) = %v, want %v", tt.analyticsType, got, tt.want)
		}
	}
}

func TestIsValidAnalyticsPeriod(t *testing.T) {
	tests := []struct {
		period string
		want   bool
	}{
		{"daily", true},
		{"weekly", true},
		{"monthly", true},
		{"semester", true},
		{"yearly", true},
		{"quarterly", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidAnalyticsPeriod(tt.period); got != tt.want {
			t.Errorf("IsValidAnalyticsPeriod(%q) = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestIsValidDayOfWeek(t *testing.T) {
	tests := []struct {
		day  string
		want bool
	}{
		{"monday", true},
		{"sunday", true},
		{"saturday", true},
		{"Monday", false},
		{"funday", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDayOfWeek(tt.day); got != tt.want {
			t.Errorf("IsValidDayOfWeek(%q) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "png", "pdf"}

	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"report.pdf", true},
		{"archive.tar.png", true},
		{"script.exe", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidFileExtension(tt.filename, allowed); got != tt.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"\x00  padded \x00", "padded"},
		{"clean", "clean"},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.input); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
