package view

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/records-admin/internal/catalog"
	"github.com/stemsi/records-admin/internal/model"
)

func newDetails(students *fakeRecords[model.Student], courses *fakeRecords[model.Course], grades *fakeGrades) *Details {
	return NewDetails(students, courses, grades, zerolog.Nop())
}

func TestStudentDetailOptionalGrades(t *testing.T) {
	grades := &fakeGrades{byStudentErr: errBackend}
	d := newDetails(&fakeRecords[model.Student]{items: sampleStudents}, &fakeRecords[model.Course]{}, grades)

	got, err := d.Student(context.Background(), "S10001", "")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, got.Status)
	assert.Equal(t, "Ada", got.Student.FirstName)
	assert.Empty(t, got.Grades)
}

func TestStudentDetailSemesterFilter(t *testing.T) {
	grades := &fakeGrades{fakeRecords: fakeRecords[model.Grade]{items: sampleGrades()}}
	d := newDetails(&fakeRecords[model.Student]{items: sampleStudents}, &fakeRecords[model.Course]{}, grades)

	got, err := d.Student(context.Background(), "S10001", "Spring 2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fall 2024", "Spring 2024"}, got.Semesters)
	assert.Equal(t, []string{"2"}, keysOf(got.Visible()))
}

func TestStudentDetailNotFound(t *testing.T) {
	d := newDetails(&fakeRecords[model.Student]{}, &fakeRecords[model.Course]{}, &fakeGrades{})

	got, err := d.Student(context.Background(), "S99999", "")
	require.NoError(t, err)
	assert.True(t, got.NotFound)
	assert.Equal(t, "Failed to load student information. Please try again later.", got.Message)
}

func TestDeleteStudent(t *testing.T) {
	students := &fakeRecords[model.Student]{items: sampleStudents}
	d := newDetails(students, &fakeRecords[model.Course]{}, &fakeGrades{})

	_, deleted, err := d.DeleteStudent(context.Background(), "S10001")
	require.NoError(t, err)
	assert.True(t, deleted)

	students.deleteErr = errBackend
	detail, deleted, err := d.DeleteStudent(context.Background(), "S10001")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Failed to delete student. Please try again later.", detail.Message)
	assert.NotNil(t, detail.Student)
}

func TestCourseDetail(t *testing.T) {
	grades := &fakeGrades{fakeRecords: fakeRecords[model.Grade]{items: sampleGrades()}}
	courses := &fakeRecords[model.Course]{items: sampleCourses}
	d := newDetails(&fakeRecords[model.Student]{}, courses, grades)

	got, err := d.Course(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Programming", got.Course.Name)
	assert.Equal(t, []string{"1", "4"}, keysOf(got.Enrollments))

	courses.deleteErr = errBackend
	detail, deleted, err := d.DeleteCourse(context.Background(), "CS101")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Failed to delete course. Please try again later.", detail.Message)
}

type staticTerms struct{ info catalog.TermInfo }

func (s staticTerms) Info(context.Context) catalog.TermInfo { return s.info }

func TestDashboard(t *testing.T) {
	term := catalog.Default().Term
	d := NewDashboards(
		&fakeRecords[model.Student]{items: sampleStudents},
		&fakeRecords[model.Course]{items: sampleCourses},
		&fakeRecords[model.Grade]{items: sampleGrades()},
		staticTerms{term}, zerolog.Nop())

	dash, err := d.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, dash.Status)
	assert.Equal(t, 3, dash.Students)
	assert.Equal(t, 3, dash.Courses)
	assert.Equal(t, 4, dash.Grades)
	assert.Equal(t, term, dash.Term)
}

func TestDashboardFailure(t *testing.T) {
	d := NewDashboards(
		&fakeRecords[model.Student]{listErr: errBackend},
		&fakeRecords[model.Course]{items: sampleCourses},
		&fakeRecords[model.Grade]{},
		staticTerms{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	dash, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusError, dash.Status)
}
