package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/records-admin/internal/model"
)

func keysOf[T Keyed](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func TestCourseFilterByName(t *testing.T) {
	got := Filter(sampleCourses, CourseFields, "name", "calc")
	assert.Equal(t, []string{"MA201"}, keysOf(got))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		field string
		query string
		want  []string
	}{
		{"empty query matches all", "name", "", []string{"S10001", "S10002", "S10003"}},
		{"case insensitive name", "name", "TURING", []string{"S10002"}},
		{"first name", "name", "gra", []string{"S10003"}},
		{"id", "id", "s1000", []string{"S10001", "S10002", "S10003"}},
		{"email", "email", "navy", []string{"S10003"}},
		{"all fields", FieldAll, "al", []string{"S10002"}},
		{"unknown field behaves as all", "shoe_size", "navy", []string{"S10003"}},
		{"no match", "email", "nobody", []string{}},
		{"whitespace is literal", "name", "  ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleStudents, StudentFields, tt.field, tt.query)
			assert.Equal(t, tt.want, keysOf(got))
		})
	}
}

func TestGradeFields(t *testing.T) {
	grades := sampleGrades()

	assert.Equal(t, []string{"1", "2", "3"}, keysOf(Filter(grades, GradeFields, "student", "lovelace")))
	assert.Equal(t, []string{"2"}, keysOf(Filter(grades, GradeFields, "course", "calculus")))
	assert.Equal(t, []string{"4"}, keysOf(Filter(grades, GradeFields, FieldAll, "fall 2023")))
	assert.Empty(t, Filter(grades, GradeFields, "course", "fall 2023"), "semester is only searched by all")

	bare := []model.Grade{{ID: "9", StudentID: "S20000", CourseCode: "XY100"}}
	assert.Equal(t, []string{"9"}, keysOf(Filter(bare, GradeFields, "student", "s20000")))
}

func TestSemesters(t *testing.T) {
	assert.Equal(t, []string{"Fall 2023", "Fall 2024", "Spring 2024"}, Semesters(sampleGrades()))
	assert.Empty(t, Semesters(nil))
}

func TestBySemester(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, keysOf(BySemester(sampleGrades(), "Fall 2024")))
	assert.Len(t, BySemester(sampleGrades(), ""), 4)
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, []string{"all", "code", "name", "description"}, CourseFields.Names())
	assert.True(t, GradeFields.Has("student"))
	assert.False(t, GradeFields.Has("semester"))
}
