package view

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/validator"
)

// NewKey is the path key that opens a create form instead of an edit form.
const NewKey = "new"

// FormInvalidMessage is the banner shown when client-side rules fail.
const FormInvalidMessage = "Please fix the errors in the form before submitting."

// Form is the state of a create or edit page.
type Form struct {
	Entity  endpoint.Entity
	Editing bool
	Key     string
	Status  Status

	Draft  map[string]string
	Errors map[string]string

	// Banner is the form-level error; Success is set once saved.
	Banner        string
	Success       string
	Redirect      string
	RedirectDelay time.Duration
	NotFound      bool
	NotFoundText  string

	locked map[string]bool

	// Grade form choices.
	Students  []model.Student
	Courses   []model.Course
	Semesters []string
}

func newForm(entity endpoint.Entity, key string, fields []string, locked ...string) *Form {
	f := &Form{
		Entity:  entity,
		Editing: key != "" && key != NewKey,
		Status:  StatusReady,
		Draft:   make(map[string]string, len(fields)),
		Errors:  make(map[string]string),
		locked:  make(map[string]bool, len(locked)),
	}
	if f.Editing {
		f.Key = key
		for _, l := range locked {
			f.locked[l] = true
		}
	}
	for _, name := range fields {
		f.Draft[name] = ""
	}
	return f
}

// Set updates one draft field and clears its error.
func (f *Form) Set(field, value string) {
	f.Draft[field] = value
	delete(f.Errors, field)
}

// Value returns a draft field.
func (f *Form) Value(field string) string { return f.Draft[field] }

// Error returns the message for field, if any.
func (f *Form) Error(field string) string { return f.Errors[field] }

// Locked reports whether field is read-only on this form.
func (f *Form) Locked(field string) bool { return f.locked[field] }

// Valid reports whether the form has no field errors.
func (f *Form) Valid() bool { return len(f.Errors) == 0 }

func (f *Form) fail(errs map[string]string) {
	f.Errors = errs
	f.Banner = FormInvalidMessage
}

func (f *Form) succeed(message, redirect string, delay time.Duration) {
	f.Success = message
	f.Redirect = redirect
	f.RedirectDelay = delay
	f.Banner = ""
}

func (f *Form) notFound(n noun) {
	f.NotFound = true
	f.Status = StatusError
	f.Banner = loadOneMessage(n)
	f.NotFoundText = fmt.Sprintf("%s not found or has been deleted.", capitalize(n.one))
}

// apply copies posted values into the draft. Locked fields keep their value.
func (f *Form) apply(posted map[string]string) {
	for name := range f.Draft {
		if f.locked[name] {
			continue
		}
		if v, ok := posted[name]; ok {
			f.Set(name, v)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pathTo(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("/")
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

func isoDate(v string) string {
	if v == "" {
		return ""
	}
	d := format.Date(v, format.LayoutISO)
	if d == format.InvalidDate {
		return v
	}
	return d
}

// record converts a draft to the shape ValidateRequired checks, with the
// numeric fields coerced. Unparseable numbers stay strings so they count as
// present and fail their format rule instead.
func record(draft map[string]string, ints, floats []string) map[string]any {
	out := make(map[string]any, len(draft))
	for k, v := range draft {
		out[k] = v
	}
	for _, k := range ints {
		if n, err := strconv.Atoi(strings.TrimSpace(draft[k])); err == nil {
			out[k] = n
		}
	}
	for _, k := range floats {
		if n, err := strconv.ParseFloat(strings.TrimSpace(draft[k]), 64); err == nil {
			out[k] = n
		}
	}
	return out
}

// ─── Students ──────────────────────────────────────────────────────────

var studentFormFields = []string{"student_id", "first_name", "last_name", "email", "date_of_birth", "enrollment_date", "address", "phone"}

// StudentStore is the part of the student service the form needs.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, s model.Student) (*model.Student, error)
	Update(ctx context.Context, id string, s model.Student) (*model.Student, error)
}

// StudentForms builds and submits student forms.
type StudentForms struct {
	store StudentStore
	delay time.Duration
	log   zerolog.Logger
}

// NewStudentForms creates a new StudentForms.
func NewStudentForms(store StudentStore, delay time.Duration, log zerolog.Logger) *StudentForms {
	return &StudentForms{store: store, delay: delay, log: log.With().Str("component", "student_form").Logger()}
}

// Open returns the create form for NewKey, else the edit form for key.
func (s *StudentForms) Open(ctx context.Context, key string) (*Form, error) {
	f := newForm(endpoint.Students, key, studentFormFields, "student_id")
	if !f.Editing {
		return f, nil
	}
	st, err := s.store.GetByID(ctx, key)
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}
	if err != nil {
		s.log.Error().Err(err).Str("student_id", key).Msg("Load student failed")
		f.notFound(studentNoun)
		return f, nil
	}
	f.Draft = studentDraft(*st)
	return f, nil
}

func studentDraft(st model.Student) map[string]string {
	return map[string]string{
		"student_id":      st.StudentID,
		"first_name":      st.FirstName,
		"last_name":       st.LastName,
		"email":           st.Email,
		"date_of_birth":   isoDate(st.DateOfBirth),
		"enrollment_date": isoDate(st.EnrollmentDate),
		"address":         st.Address,
		"phone":           st.Phone,
	}
}

// ValidateStudent applies the student form rules to a draft.
func ValidateStudent(draft map[string]string, editing bool) map[string]string {
	required := []string{"first_name", "last_name", "email", "date_of_birth", "enrollment_date"}
	if !editing {
		required = append(required, "student_id")
	}
	_, errs := validator.ValidateRequired(record(draft, nil, nil), required)

	if v := draft["student_id"]; v != "" && !validator.ValidateStudentID(v) {
		errs["student_id"] = validator.MsgStudentID
	}
	if v := draft["email"]; v != "" && !validator.ValidateEmail(v) {
		errs["email"] = validator.MsgEmail
	}
	return errs
}

// Submit validates posted and saves it. The returned form carries either
// field errors, a save failure banner, or a success message and redirect.
func (s *StudentForms) Submit(ctx context.Context, key string, posted map[string]string) (*Form, error) {
	f := newForm(endpoint.Students, key, studentFormFields, "student_id")
	if f.Editing {
		f.Draft["student_id"] = key
	}
	f.apply(posted)

	if errs := ValidateStudent(f.Draft, f.Editing); len(errs) > 0 {
		f.fail(errs)
		return f, nil
	}

	st := model.Student{
		StudentID:      f.Draft["student_id"],
		FirstName:      f.Draft["first_name"],
		LastName:       f.Draft["last_name"],
		Email:          f.Draft["email"],
		DateOfBirth:    f.Draft["date_of_birth"],
		EnrollmentDate: f.Draft["enrollment_date"],
		Address:        f.Draft["address"],
		Phone:          f.Draft["phone"],
	}

	var err error
	if f.Editing {
		_, err = s.store.Update(ctx, key, st)
	} else {
		_, err = s.store.Create(ctx, st)
	}
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}
	if err != nil {
		s.log.Error().Err(err).Str("student_id", st.StudentID).Msg("Save student failed")
		f.Banner = saveMessage(studentNoun)
		return f, nil
	}

	verb := "created"
	if f.Editing {
		verb = "updated"
	}
	f.succeed("Student "+verb+" successfully. Redirecting...", pathTo("students", st.StudentID), s.delay)
	return f, nil
}

// ─── Courses ───────────────────────────────────────────────────────────

var courseFormFields = []string{"course_code", "name", "description", "credits", "department", "prerequisites"}

// DefaultCredits pre-fills the credits of a new course.
const DefaultCredits = 3

// CourseStore is the part of the course service the form needs.
type CourseStore interface {
	GetByID(ctx context.Context, code string) (*model.Course, error)
	Create(ctx context.Context, c model.Course) (*model.Course, error)
	Update(ctx context.Context, code string, c model.Course) (*model.Course, error)
}

// CourseForms builds and submits course forms.
type CourseForms struct {
	store CourseStore
	delay time.Duration
	log   zerolog.Logger
}

// NewCourseForms creates a new CourseForms.
func NewCourseForms(store CourseStore, delay time.Duration, log zerolog.Logger) *CourseForms {
	return &CourseForms{store: store, delay: delay, log: log.With().Str("component", "course_form").Logger()}
}

// Open returns the create form for NewKey, else the edit form for code.
func (s *CourseForms) Open(ctx context.Context, code string) (*Form, error) {
	f := newForm(endpoint.Courses, code, courseFormFields, "course_code")
	if !f.Editing {
		f.Draft["credits"] = strconv.Itoa(DefaultCredits)
		return f, nil
	}
	c, err := s.store.GetByID(ctx, code)
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}
	if err != nil {
		s.log.Error().Err(err).Str("course_code", code).Msg("Load course failed")
		f.notFound(courseNoun)
		return f, nil
	}
	f.Draft = map[string]string{
		"course_code":   c.CourseCode,
		"name":          c.Name,
		"description":   c.Description,
		"credits":       strconv.Itoa(c.Credits),
		"department":    c.Department,
		"prerequisites": c.Prerequisites,
	}
	return f, nil
}

// ValidateCourse applies the course form rules to a draft. A credit count of
// 0 is reported as missing.
func ValidateCourse(draft map[string]string, editing bool) map[string]string {
	required := []string{"name", "credits"}
	if !editing {
		required = append(required, "course_code")
	}
	rec := record(draft, []string{"credits"}, nil)
	_, errs := validator.ValidateRequired(rec, required)

	if v := draft["course_code"]; v != "" && !validator.ValidateCourseCode(v) {
		errs["course_code"] = validator.MsgCourseCode
	}
	if _, missing := errs["credits"]; !missing {
		if n, ok := rec["credits"].(int); !ok || !validator.ValidateCredits(n) {
			errs["credits"] = validator.MsgCredits
		}
	}
	return errs
}

// Submit validates posted and saves it.
func (s *CourseForms) Submit(ctx context.Context, code string, posted map[string]string) (*Form, error) {
	f := newForm(endpoint.Courses, code, courseFormFields, "course_code")
	if f.Editing {
		f.Draft["course_code"] = code
	}
	f.apply(posted)

	if errs := ValidateCourse(f.Draft, f.Editing); len(errs) > 0 {
		f.fail(errs)
		return f, nil
	}

	credits, _ := strconv.Atoi(strings.TrimSpace(f.Draft["credits"]))
	c := model.Course{
		CourseCode:    f.Draft["course_code"],
		Name:          f.Draft["name"],
		Description:   f.Draft["description"],
		Credits:       credits,
		Department:    f.Draft["department"],
		Prerequisites: f.Draft["prerequisites"],
	}

	var err error
	if f.Editing {
		_, err = s.store.Update(ctx, code, c)
	} else {
		_, err = s.store.Create(ctx, c)
	}
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}
	if err != nil {
		s.log.Error().Err(err).Str("course_code", c.CourseCode).Msg("Save course failed")
		f.Banner = saveMessage(courseNoun)
		return f, nil
	}

	verb := "created"
	if f.Editing {
		verb = "updated"
	}
	f.succeed("Course "+verb+" successfully. Redirecting...", pathTo("courses", c.CourseCode), s.delay)
	return f, nil
}

// ─── Grades ────────────────────────────────────────────────────────────

var gradeFormFields = []string{"student_id", "course_code", "semester", "grade", "date"}

// GradeStore is the part of the grade service the form needs.
type GradeStore interface {
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	Create(ctx context.Context, g model.Grade) (*model.Grade, error)
	Update(ctx context.Context, id string, g model.Grade) (*model.Grade, error)
}

// Lister lists every record of one type.
type Lister[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// GradeHints pre-select the student or course of a new grade and choose
// where to go after it is recorded.
type GradeHints struct {
	StudentID  string `form:"studentId"`
	CourseCode string `form:"courseCode"`
}

// GradeForms builds and submits grade forms.
type GradeForms struct {
	grades    GradeStore
	students  Lister[model.Student]
	courses   Lister[model.Course]
	semesters []string
	delay     time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewGradeForms creates a new GradeForms. semesters is the closed set offered
// in the semester select.
func NewGradeForms(grades GradeStore, students Lister[model.Student], courses Lister[model.Course], semesters []string, delay time.Duration, log zerolog.Logger) *GradeForms {
	return &GradeForms{
		grades:    grades,
		students:  students,
		courses:   courses,
		semesters: semesters,
		delay:     delay,
		now:       time.Now,
		log:       log.With().Str("component", "grade_form").Logger(),
	}
}

func (s *GradeForms) newForm(key string) *Form {
	f := newForm(endpoint.Grades, key, gradeFormFields, "student_id", "course_code", "semester")
	f.Semesters = s.semesters
	return f
}

// loadChoices fetches students and courses in parallel, plus the grade
// itself when key is set.
func (s *GradeForms) loadChoices(ctx context.Context, f *Form, key string) (*model.Grade, error) {
	var (
		grade                   *model.Grade
		students                []model.Student
		courses                 []model.Course
		studentsErr, coursesErr error
	)

	scope := NewScope(ctx, s.log)
	if key != "" {
		scope.Go("grade", func(ctx context.Context) error {
			g, err := s.grades.GetByID(ctx, key)
			grade = g
			return err
		})
	}
	scope.Optional("students", func(ctx context.Context) error {
		students, studentsErr = s.students.GetAll(ctx)
		return studentsErr
	})
	scope.Optional("courses", func(ctx context.Context) error {
		courses, coursesErr = s.courses.GetAll(ctx)
		return coursesErr
	})
	err := scope.Wait()
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}

	f.Students, f.Courses = students, courses
	if studentsErr != nil || coursesErr != nil {
		f.Banner = "Failed to load students and courses. Please try again later."
	}
	if err != nil {
		return nil, err
	}
	return grade, nil
}

// Open returns the create form for NewKey, pre-filled from hints, else the
// edit form for id.
func (s *GradeForms) Open(ctx context.Context, id string, hints GradeHints) (*Form, error) {
	f := s.newForm(id)
	key := ""
	if f.Editing {
		key = id
	}

	g, err := s.loadChoices(ctx, f, key)
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if err != nil {
		f.notFound(gradeNoun)
		return f, nil
	}

	if !f.Editing {
		f.Draft["student_id"] = hints.StudentID
		f.Draft["course_code"] = hints.CourseCode
		f.Draft["date"] = s.now().Format("2006-01-02")
		return f, nil
	}

	f.Draft = map[string]string{
		"student_id":  g.StudentID,
		"course_code": g.CourseCode,
		"semester":    g.Semester,
		"grade":       "",
		"date":        isoDate(g.Date),
	}
	if g.Grade != nil {
		f.Draft["grade"] = strconv.FormatFloat(*g.Grade, 'f', -1, 64)
	}
	return f, nil
}

// ValidateGrade applies the grade form rules to a draft. The grade itself is
// optional.
func ValidateGrade(draft map[string]string) map[string]string {
	_, errs := validator.ValidateRequired(record(draft, nil, nil), []string{"student_id", "course_code", "semester", "date"})

	if raw := strings.TrimSpace(draft["grade"]); raw != "" {
		g, err := strconv.ParseFloat(raw, 64)
		if err != nil || !validator.ValidateGrade(&g) {
			errs["grade"] = validator.MsgGrade
		}
	}
	return errs
}

// Submit validates posted and saves it. On edit the student, course and
// semester come from the stored grade; posted values for them are ignored.
func (s *GradeForms) Submit(ctx context.Context, id string, hints GradeHints, posted map[string]string) (*Form, error) {
	f := s.newForm(id)
	if f.Editing {
		stored, err := s.grades.GetByID(ctx, id)
		if ctx.Err() != nil {
			return nil, ErrDiscarded
		}
		if err != nil {
			s.log.Error().Err(err).Str("grade_id", id).Msg("Load grade failed")
			f.notFound(gradeNoun)
			return f, nil
		}
		f.Draft["student_id"] = stored.StudentID
		f.Draft["course_code"] = stored.CourseCode
		f.Draft["semester"] = stored.Semester
	}
	f.apply(posted)

	errs := ValidateGrade(f.Draft)
	if len(errs) == 0 {
		g := model.Grade{
			StudentID:  f.Draft["student_id"],
			CourseCode: f.Draft["course_code"],
			Semester:   f.Draft["semester"],
			Date:       f.Draft["date"],
		}
		if raw := strings.TrimSpace(f.Draft["grade"]); raw != "" {
			v, _ := strconv.ParseFloat(raw, 64)
			g.Grade = &v
		}

		var err error
		if f.Editing {
			_, err = s.grades.Update(ctx, id, g)
		} else {
			_, err = s.grades.Create(ctx, g)
		}
		if ctx.Err() != nil {
			return nil, ErrDiscarded
		}
		if err == nil {
			s.succeed(f, hints)
			return f, nil
		}
		s.log.Error().Err(err).Str("student_id", g.StudentID).Str("course_code", g.CourseCode).Msg("Save grade failed")
	} else {
		f.fail(errs)
	}

	// Re-rendering needs the select options again.
	if _, err := s.loadChoices(ctx, f, ""); errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if len(errs) > 0 {
		f.Banner = FormInvalidMessage
	} else {
		f.Banner = saveMessage(gradeNoun)
	}
	return f, nil
}

func (s *GradeForms) succeed(f *Form, hints GradeHints) {
	if f.Editing {
		f.succeed("Grade updated successfully. Redirecting...", "/grades", s.delay)
		return
	}
	redirect := "/grades"
	switch {
	case hints.StudentID != "":
		redirect = pathTo("students", hints.StudentID)
	case hints.CourseCode != "":
		redirect = pathTo("courses", hints.CourseCode)
	}
	f.succeed("Grade recorded successfully. Redirecting...", redirect, s.delay)
}
