package utils

import (
	"strings"
	"testing"
)

type validateFixture struct {
	Name   string  `validate:"required,min=2"`
	Email  string  `validate:"required,email"`
	Score  float64 `validate:"gt=0"`
	Status string  `validate:"oneof=draft published"`
}

func TestValidateStruct(t *testing.T) {
	valid := validateFixture{Name: "Math Quiz", Email: "teacher@school.edu", Score: 10, Status: "draft"}
	if err := ValidateStruct(valid); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	tests := []struct {
		name    string
		fixture validateFixture
		wantMsg string
	}{
		{
			name:    "missing required field",
			fixture: validateFixture{Email: "teacher@school.edu", Score: 10, Status: "draft"},
			wantMsg: "name is required",
		},
		{
			name:    "bad email",
			fixture: validateFixture{Name: "Quiz", Email: "not-an-email", Score: 10, Status: "draft"},
			wantMsg: "valid email",
		},
		{
			name:    "min violation",
			fixture: validateFixture{Name: "Q", Email: "teacher@school.edu", Score: 10, Status: "draft"},
			wantMsg: "at least 2",
		},
		{
			name:    "gt violation",
			fixture: validateFixture{Name: "Quiz", Email: "teacher@school.edu", Score: 0, Status: "draft"},
			wantMsg: "greater than 0",
		},
		{
			name:    "oneof violation",
			fixture: validateFixture{Name: "Quiz", Email: "teacher@school.edu", Score: 10, Status: "pending"},
			wantMsg: "must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.fixture)
			if err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
