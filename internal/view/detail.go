package view

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/model"
)

// StudentReader is the part of the student service the detail page needs.
type StudentReader interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}

// CourseReader is the part of the course service the detail page needs.
type CourseReader interface {
	GetByID(ctx context.Context, code string) (*model.Course, error)
	Delete(ctx context.Context, code string) error
}

// GradeQuerier lists grades by student or by course.
type GradeQuerier interface {
	GetByStudentID(ctx context.Context, studentID string) ([]model.Grade, error)
	GetByCourseCode(ctx context.Context, courseCode string) ([]model.Grade, error)
}

// StudentDetail is the state of a student profile page.
type StudentDetail struct {
	Status    Status
	NotFound  bool
	Message   string
	Student   *model.Student
	Grades    []model.Grade
	Semesters []string
	Semester  string
}

// Visible returns the grades of the selected semester.
func (d *StudentDetail) Visible() []model.Grade {
	return BySemester(d.Grades, d.Semester)
}

// CourseDetail is the state of a course page.
type CourseDetail struct {
	Status      Status
	NotFound    bool
	Message     string
	Course      *model.Course
	Enrollments []model.Grade
}

// Details loads and deletes from the student and course detail pages.
type Details struct {
	students StudentReader
	courses  CourseReader
	grades   GradeQuerier
	log      zerolog.Logger
}

// NewDetails creates a new Details.
func NewDetails(students StudentReader, courses CourseReader, grades GradeQuerier, log zerolog.Logger) *Details {
	return &Details{
		students: students,
		courses:  courses,
		grades:   grades,
		log:      log.With().Str("component", "detail").Logger(),
	}
}

// Student fetches the student and their grades in parallel. The grades are
// optional: if they fail the profile still renders with none.
func (d *Details) Student(ctx context.Context, id, semester string) (*StudentDetail, error) {
	var (
		student *model.Student
		grades  []model.Grade
	)
	scope := NewScope(ctx, d.log)
	scope.Go("student", func(ctx context.Context) error {
		s, err := d.students.GetByID(ctx, id)
		student = s
		return err
	})
	scope.Optional("grades", func(ctx context.Context) error {
		g, err := d.grades.GetByStudentID(ctx, id)
		grades = g
		return err
	})

	err := scope.Wait()
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if err != nil || student == nil {
		return &StudentDetail{Status: StatusError, NotFound: true, Message: loadDetailMessage(studentNoun)}, nil
	}

	return &StudentDetail{
		Status:    StatusReady,
		Student:   student,
		Grades:    grades,
		Semesters: Semesters(grades),
		Semester:  semester,
	}, nil
}

// DeleteStudent removes the student. On failure the reloaded profile carries
// the error message and deleted is false.
func (d *Details) DeleteStudent(ctx context.Context, id string) (detail *StudentDetail, deleted bool, err error) {
	delErr := d.students.Delete(ctx, id)
	if ctx.Err() != nil {
		return nil, false, ErrDiscarded
	}
	if delErr == nil {
		return nil, true, nil
	}
	d.log.Error().Err(delErr).Str("student_id", id).Msg("Delete student failed")

	detail, err = d.Student(ctx, id, "")
	if err != nil {
		return nil, false, err
	}
	detail.Message = deleteMessage(studentNoun)
	return detail, false, nil
}

// Course fetches the course and its enrollments in parallel. Enrollments are
// optional.
func (d *Details) Course(ctx context.Context, code string) (*CourseDetail, error) {
	var (
		course      *model.Course
		enrollments []model.Grade
	)
	scope := NewScope(ctx, d.log)
	scope.Go("course", func(ctx context.Context) error {
		c, err := d.courses.GetByID(ctx, code)
		course = c
		return err
	})
	scope.Optional("enrollments", func(ctx context.Context) error {
		g, err := d.grades.GetByCourseCode(ctx, code)
		enrollments = g
		return err
	})

	err := scope.Wait()
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if err != nil || course == nil {
		return &CourseDetail{Status: StatusError, NotFound: true, Message: loadDetailMessage(courseNoun)}, nil
	}
	return &CourseDetail{Status: StatusReady, Course: course, Enrollments: enrollments}, nil
}

// DeleteCourse removes the course. On failure the reloaded page carries the
// error message and deleted is false.
func (d *Details) DeleteCourse(ctx context.Context, code string) (detail *CourseDetail, deleted bool, err error) {
	delErr := d.courses.Delete(ctx, code)
	if ctx.Err() != nil {
		return nil, false, ErrDiscarded
	}
	if delErr == nil {
		return nil, true, nil
	}
	d.log.Error().Err(delErr).Str("course_code", code).Msg("Delete course failed")

	detail, err = d.Course(ctx, code)
	if err != nil {
		return nil, false, err
	}
	detail.Message = deleteMessage(courseNoun)
	return detail, false, nil
}
