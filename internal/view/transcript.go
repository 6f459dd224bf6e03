package view

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
)

// Transcript page messages.
const (
	MsgEnterStudentID     = "Please enter a student ID"
	MsgTranscriptNotFound = "Student not found or error fetching data"
)

// CalculateGPA averages grade points weighted by credits over the graded
// entries whose course credits are known. ok is false when no credits count.
func CalculateGPA(grades []model.Grade) (gpa float64, credits int, ok bool) {
	var points float64
	for _, g := range grades {
		c := g.Credits()
		if g.Grade == nil || c <= 0 {
			continue
		}
		points += format.GradePoints(*g.Grade) * float64(c)
		credits += c
	}
	if credits == 0 {
		return 0, 0, false
	}
	return points / float64(credits), credits, true
}

// BuildTranscript narrows grades to semester and computes the GPA over what
// remains. Semesters always lists every semester the student has grades in.
func BuildTranscript(student model.Student, grades []model.Grade, semester string) *model.Transcript {
	visible := BySemester(grades, semester)
	gpa, credits, ok := CalculateGPA(visible)
	return &model.Transcript{
		Student:      student,
		Grades:       visible,
		Semesters:    Semesters(grades),
		Semester:     semester,
		GPA:          gpa,
		HasGPA:       ok,
		TotalCredits: credits,
	}
}

// StudentGetter fetches the student a transcript belongs to.
type StudentGetter interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
}

// GradesByStudent lists a student's grades.
type GradesByStudent interface {
	GetByStudentID(ctx context.Context, studentID string) ([]model.Grade, error)
}

// TranscriptPage is the state of the transcript lookup page.
type TranscriptPage struct {
	StudentID  string
	Status     Status
	Message    string
	Transcript *model.Transcript
	// HasGrades gates the downloads: there is nothing to print without grades.
	HasGrades bool
}

// Transcripts loads transcripts for the page, the downloads and the worker.
type Transcripts struct {
	students StudentGetter
	grades   GradesByStudent
	log      zerolog.Logger
}

// NewTranscripts creates a new Transcripts.
func NewTranscripts(students StudentGetter, grades GradesByStudent, log zerolog.Logger) *Transcripts {
	return &Transcripts{students: students, grades: grades, log: log.With().Str("component", "transcript").Logger()}
}

// Page looks up studentID. An empty id is a local error; otherwise the
// student and their grades are fetched in parallel and both must succeed.
func (t *Transcripts) Page(ctx context.Context, studentID, semester string) (*TranscriptPage, error) {
	studentID = strings.TrimSpace(studentID)
	p := &TranscriptPage{StudentID: studentID}
	if studentID == "" {
		p.Status = StatusError
		p.Message = MsgEnterStudentID
		return p, nil
	}

	tr, err := t.Load(ctx, studentID, semester)
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if err != nil {
		p.Status = StatusError
		p.Message = MsgTranscriptNotFound
		return p, nil
	}

	return ReadyPage(tr), nil
}

// ReadyPage wraps a loaded transcript for display.
func ReadyPage(tr *model.Transcript) *TranscriptPage {
	return &TranscriptPage{
		StudentID:  tr.Student.StudentID,
		Status:     StatusReady,
		Transcript: tr,
		HasGrades:  len(tr.Semesters) > 0 || len(tr.Grades) > 0,
	}
}

// Load fetches the student and their grades in parallel and builds the
// transcript for semester.
func (t *Transcripts) Load(ctx context.Context, studentID, semester string) (*model.Transcript, error) {
	var (
		student *model.Student
		grades  []model.Grade
	)
	scope := NewScope(ctx, t.log)
	scope.Go("student", func(ctx context.Context) error {
		s, err := t.students.GetByID(ctx, studentID)
		student = s
		return err
	})
	scope.Go("grades", func(ctx context.Context) error {
		g, err := t.grades.GetByStudentID(ctx, studentID)
		grades = g
		return err
	})
	if err := scope.Wait(); err != nil {
		return nil, err
	}
	return BuildTranscript(*student, grades, semester), nil
}
