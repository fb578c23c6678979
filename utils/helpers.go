package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidAttendanceStatus checks if an attendance status is valid
func IsValidAttendanceStatus(status string) bool {
	validStatuses := []string{"present", "absent", "late", "excused"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

// IsValidReportType checks if a report type is valid
func IsValidReportType(reportType string) bool {
	validTypes := []string{"attendance", "grades", "behavior", "comprehensive"}
	for _, validType := range validTypes {
		if reportType == validType {
			return true
		}
	}
	return false
}

// IsValidAnalyticsType checks if an analytics type is valid
func IsValidAnalyticsType(analyticsType string) bool {
	validTypes := []string{"attendance", "grades", "behavior", "comprehensive"}
	for _, validType := range validTypes {
		if analyticsType == validType {
			return true
		}
	}
	return false
}

// IsValidAnalyticsPeriod checks if an analytics period is valid
func IsValidAnalyticsPeriod(period string) bool {
	validPeriods := []string{"daily", "weekly", "monthly", "semester", "yearly"}
	for _, validPeriod := range validPeriods {
		if period == validPeriod {
			return true
		}
	}
	return false
}

// IsValidDayOfWeek checks if a weekday name is valid
func IsValidDayOfWeek(day string) bool {
	validDays := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	for _, validDay := range validDays {
		if day == validDay {
			return true
		}
	}
	return false
}

// IsValidFileExtension checks if file extension is allowed
func IsValidFileExtension(filename string, allowedExtensions []string) bool {
	if filename == "" {
		return false
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return false
	}

	ext := strings.ToLower(parts[len(parts)-1])

	for _, allowedExt := range allowedExtensions {
		if ext == strings.ToLower(allowedExt) {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}
