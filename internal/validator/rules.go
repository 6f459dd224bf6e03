package validator

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
)

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	studentIDPattern  = regexp.MustCompile(`^S\d{5,}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{3}\d{3}$`)
)

// Grade bounds. Grades carry at most one decimal place.
const (
	MinGrade = 0
	MaxGrade = 100

	MinCredits = 1
	MaxCredits = 6
)

// ValidateEmail reports whether s looks like local@domain.tld with a TLD of 2+ letters.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateStudentID reports whether s is an S followed by at least five digits.
func ValidateStudentID(s string) bool {
	if s == "" {
		return false
	}
	return studentIDPattern.MatchString(s)
}

// ValidateCourseCode reports whether s is three capital letters followed by three digits.
func ValidateCourseCode(s string) bool {
	if s == "" {
		return false
	}
	return courseCodePattern.MatchString(s)
}

// ValidateGrade reports whether g is present, within [0, 100] and has at most
// one decimal place.
func ValidateGrade(g *float64) bool {
	if g == nil {
		return false
	}
	v := *g
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinGrade || v > MaxGrade {
		return false
	}
	return hasOneDecimal(v)
}

// ValidateCredits reports whether c is a whole number of credits in [1, 6].
func ValidateCredits(c int) bool {
	return c >= MinCredits && c <= MaxCredits
}

func hasOneDecimal(v float64) bool {
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// ValidateRequired checks that every named field of record is truthy.
// Missing keys, nil, "", numeric zero, false and nil pointers all count as
// missing, so a credit count of 0 is reported as "credits is required".
func ValidateRequired(record map[string]any, fields []string) (bool, map[string]string) {
	errs := make(map[string]string)
	for _, field := range fields {
		if isFalsy(record[field]) {
			errs[field] = fmt.Sprintf("%s is required", field)
		}
	}
	return len(errs) == 0, errs
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isFalsy(rv.Elem().Interface())
	}
	return false
}
