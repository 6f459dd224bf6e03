package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestValidateStudentID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"S12345", true},
		{"S1234567", true},
		{"S1234", false},
		{"12345", false},
		{"s12345", false},
		{"S12a45", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateStudentID(tt.id))
		})
	}
}

func TestValidateCourseCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"CSC101", true},
		{"MA201", false},
		{"csc101", false},
		{"CSCI101", false},
		{"CSC1011", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCourseCode(tt.code))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ada@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@uni.edu.au"))
	assert.False(t, ValidateEmail("ada@example"))
	assert.False(t, ValidateEmail("ada@example.c"))
	assert.False(t, ValidateEmail("ada.example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateGrade(t *testing.T) {
	assert.True(t, ValidateGrade(ptr(0)))
	assert.True(t, ValidateGrade(ptr(100)))
	assert.True(t, ValidateGrade(ptr(87.5)))
	assert.False(t, ValidateGrade(ptr(87.55)))
	assert.False(t, ValidateGrade(ptr(-1)))
	assert.False(t, ValidateGrade(ptr(100.1)))
	assert.False(t, ValidateGrade(nil))
}

func TestValidateCredits(t *testing.T) {
	for c := 1; c <= 6; c++ {
		assert.True(t, ValidateCredits(c))
	}
	assert.False(t, ValidateCredits(0))
	assert.False(t, ValidateCredits(7))
}

func TestValidateRequired(t *testing.T) {
	var nilGrade *float64
	record := map[string]any{
		"name":     "Calculus",
		"credits":  0,
		"code":     "",
		"active":   false,
		"grade":    nilGrade,
		"semester": "Fall 2024",
	}
	ok, errs := ValidateRequired(record, []string{"name", "credits", "code", "active", "grade", "semester", "missing"})
	assert.False(t, ok)
	assert.Equal(t, map[string]string{
		"credits": "credits is required",
		"code":    "code is required",
		"active":  "active is required",
		"grade":   "grade is required",
		"missing": "missing is required",
	}, errs)

	ok, errs = ValidateRequired(record, []string{"name", "semester"})
	assert.True(t, ok)
	assert.Empty(t, errs)
}
