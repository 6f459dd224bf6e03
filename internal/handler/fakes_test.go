package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/catalog"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/validator"
	"github.com/stemsi/records-admin/internal/view"
	"github.com/stemsi/records-admin/internal/web"
)

var errNotFound = errors.New("not found")

type fakeRecords[T view.Keyed] struct {
	mu        sync.Mutex
	items     []T
	deleteErr error
	created   []T
}

func (f *fakeRecords[T]) GetAll(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items...), nil
}

func (f *fakeRecords[T]) GetByID(_ context.Context, key string) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.Key() == key {
			it := it
			return &it, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRecords[T]) Delete(context.Context, string) error { return f.deleteErr }

func (f *fakeRecords[T]) Create(_ context.Context, v T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, v)
	return &v, nil
}

func (f *fakeRecords[T]) Update(_ context.Context, _ string, v T) (*T, error) { return &v, nil }

type fakeGrades struct {
	fakeRecords[model.Grade]
}

func (f *fakeGrades) GetByStudentID(_ context.Context, id string) ([]model.Grade, error) {
	var out []model.Grade
	for _, g := range f.items {
		if g.StudentID == id {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrades) GetByCourseCode(_ context.Context, code string) ([]model.Grade, error) {
	var out []model.Grade
	for _, g := range f.items {
		if g.CourseCode == code {
			out = append(out, g)
		}
	}
	return out, nil
}

type staticTerms struct{}

func (staticTerms) Info(context.Context) catalog.TermInfo { return catalog.Default().Term }

func score(v float64) *float64 { return &v }

var (
	testStudents = []model.Student{
		{StudentID: "S10001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", EnrollmentDate: "2022-09-01"},
		{StudentID: "S10002", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", EnrollmentDate: "2022-09-01"},
	}
	testCourses = []model.Course{
		{CourseCode: "CS101", Name: "Intro to Programming", Credits: 3},
		{CourseCode: "MA201", Name: "Calculus II", Credits: 4},
	}
)

// fixture is a console wired to in-memory records.
type fixture struct {
	engine   *gin.Engine
	students *fakeRecords[model.Student]
	courses  *fakeRecords[model.Course]
	grades   *fakeGrades
	store    *repository.MemoryStateStore
	queue    *repository.MemoryEmailQueue

	studentList *view.ListController[model.Student]
	courseList  *view.ListController[model.Course]
}

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

func newFixture() *fixture {
	log := zerolog.Nop()
	f := &fixture{
		students: &fakeRecords[model.Student]{items: append([]model.Student(nil), testStudents...)},
		courses:  &fakeRecords[model.Course]{items: append([]model.Course(nil), testCourses...)},
		grades: &fakeGrades{fakeRecords[model.Grade]{items: []model.Grade{
			{ID: "1", StudentID: "S10001", CourseCode: "CS101", Semester: "Fall 2024", Grade: score(95), Course: &testCourses[0], Student: &testStudents[0]},
			{ID: "2", StudentID: "S10001", CourseCode: "MA201", Semester: "Spring 2024", Grade: score(82), Course: &testCourses[1], Student: &testStudents[0]},
		}}},
		store: repository.NewMemoryStateStore(time.Minute),
		queue: repository.NewMemoryEmailQueue(4),
	}

	f.studentList = view.NewStudentList(f.students, f.store, log)
	f.courseList = view.NewCourseList(f.courses, f.store, log)
	gradeList := view.NewGradeList(f.grades, f.store, log)
	details := view.NewDetails(f.students, f.courses, f.grades, log)
	transcripts := view.NewTranscripts(f.students, f.grades, log)

	renderer, err := web.NewRenderer()
	if err != nil {
		panic(err)
	}

	student := NewStudentHandler(f.studentList, view.NewStudentForms(f.students, 0, log), details, log)
	course := NewCourseHandler(f.courseList, view.NewCourseForms(f.courses, 0, log), details, log)
	grade := NewGradeHandler(gradeList, view.NewGradeForms(f.grades, f.students, f.courses, catalog.Default().Semesters, 0, log), service.NewExportService(), log)
	transcript := NewTranscriptHandler(transcripts, service.NewTranscriptPDFService("/nonexistent/font.ttf"), f.queue, log)
	dashboard := NewDashboardHandler(view.NewDashboards(f.students, f.courses, f.grades, staticTerms{}, log), log)
	live := NewLiveFilterHandler(view.NewLiveFilter(f.store, f.studentList, f.courseList, gradeList), log, nil)

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(response.RequestIDMiddleware())

	r.GET("/", dashboard.Show)
	r.GET("/students", student.List)
	r.GET("/students/:id", student.Detail)
	r.GET("/students/:id/edit", student.Edit)
	r.POST("/students/:id/edit", student.Submit)
	r.GET("/students/:id/delete", student.ConfirmDelete)
	r.POST("/students/:id/delete", student.Delete)
	r.GET("/courses", course.List)
	r.GET("/courses/:code", course.Detail)
	r.GET("/grades", grade.List)
	r.GET("/grades/export.xlsx", grade.Export)
	r.GET("/grades/:id/edit", grade.Edit)
	r.GET("/transcript", transcript.Page)
	r.GET("/transcript/:student_id/print", transcript.Print)
	r.GET("/transcript/:student_id/pdf", transcript.PDF)
	r.POST("/transcript/:student_id/email", transcript.Email)
	r.GET("/api/views/:view_id/keys", live.Keys)
	r.GET("/ws/views/:view_id", live.Stream)
	r.POST("/api/validate/:entity", NewValidateHandler().Validate)
	r.NoRoute(NoRoute)

	f.engine = r
	return f
}
