package view

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/catalog"
	"github.com/stemsi/records-admin/internal/model"
)

// TermSource provides the upcoming-term panel.
type TermSource interface {
	Info(ctx context.Context) catalog.TermInfo
}

// Dashboard is the state of the landing page.
type Dashboard struct {
	Status   Status
	Message  string
	Students int
	Courses  int
	Grades   int
	Term     catalog.TermInfo
}

// Dashboards loads the landing page.
type Dashboards struct {
	students Lister[model.Student]
	courses  Lister[model.Course]
	grades   Lister[model.Grade]
	terms    TermSource
	log      zerolog.Logger
}

// NewDashboards creates a new Dashboards.
func NewDashboards(students Lister[model.Student], courses Lister[model.Course], grades Lister[model.Grade], terms TermSource, log zerolog.Logger) *Dashboards {
	return &Dashboards{
		students: students,
		courses:  courses,
		grades:   grades,
		terms:    terms,
		log:      log.With().Str("component", "dashboard").Logger(),
	}
}

// Load counts every collection in parallel. The term panel never fails.
func (d *Dashboards) Load(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{Status: StatusLoading}

	scope := NewScope(ctx, d.log)
	scope.Go("students", func(ctx context.Context) error {
		l, err := d.students.GetAll(ctx)
		dash.Students = len(l)
		return err
	})
	scope.Go("courses", func(ctx context.Context) error {
		l, err := d.courses.GetAll(ctx)
		dash.Courses = len(l)
		return err
	})
	scope.Go("grades", func(ctx context.Context) error {
		l, err := d.grades.GetAll(ctx)
		dash.Grades = len(l)
		return err
	})
	scope.Optional("term", func(ctx context.Context) error {
		dash.Term = d.terms.Info(ctx)
		return nil
	})

	err := scope.Wait()
	if errors.Is(err, ErrDiscarded) {
		return nil, err
	}
	if err != nil {
		dash.Status = StatusError
		dash.Message = "Failed to load dashboard data. Please try again later."
		return dash, nil
	}
	dash.Status = StatusReady
	return dash, nil
}
