// Package format holds the display formatters shared by the pages, the PDF
// transcript and the terminal printer.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted by Date.
const (
	LayoutUS  = "MM/DD/YYYY"
	LayoutISO = "YYYY-MM-DD"
)

// InvalidDate is shown for values that cannot be parsed as a date.
const InvalidDate = "Invalid date"

var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses the date shapes the backend and the forms produce.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders value in the given layout. Unknown layouts fall back to
// MM/DD/YYYY.
func Date(value, layout string) string {
	if value == "" {
		return ""
	}
	t, ok := ParseDate(value)
	if !ok {
		return InvalidDate
	}
	if layout == LayoutISO {
		return t.Format("2006-01-02")
	}
	return t.Format("01/02/2006")
}

// Grade returns the letter band for a numeric grade, or N/A when ungraded.
func Grade(g *float64) string {
	if g == nil {
		return "N/A"
	}
	switch v := *g; {
	case v >= 90:
		return "A"
	case v >= 80:
		return "B"
	case v >= 70:
		return "C"
	case v >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradePoints maps a numeric grade onto the 4.0 scale using the letter bands.
func GradePoints(g float64) float64 {
	switch {
	case g >= 90:
		return 4.0
	case g >= 80:
		return 3.0
	case g >= 70:
		return 2.0
	case g >= 60:
		return 1.0
	default:
		return 0.0
	}
}

// PhoneNumber renders ten-digit numbers as (XXX) XXX-XXXX. Anything else is
// returned unchanged.
func PhoneNumber(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 10 {
		return raw
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// FullName joins first and last name with a single space.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Score renders a numeric grade with at most one decimal place.
func Score(g *float64) string {
	if g == nil {
		return "Not graded"
	}
	return strconv.FormatFloat(math.Round(*g*10)/10, 'f', -1, 64)
}

// GPA renders a grade point average with two decimals, or N/A when there is
// nothing to average.
func GPA(gpa float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}
