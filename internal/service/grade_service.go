package service

import (
	"context"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/model"
)

// GradeService reads and writes grade records on the backend.
type GradeService struct {
	records records[model.Grade]
}

// NewGradeService creates a new GradeService.
func NewGradeService(c *client.Client, r *endpoint.Resolver) *GradeService {
	return &GradeService{records: records[model.Grade]{
		client:   c,
		resolver: r,
		entity:   endpoint.Grades,
		found:    func(g model.Grade) bool { return g.ID != "" || g.StudentID != "" },
	}}
}

// GetAll lists every grade.
func (s *GradeService) GetAll(ctx context.Context) ([]model.Grade, error) {
	return s.records.list(ctx, nil)
}

// GetByID fetches one grade by its surrogate id.
func (s *GradeService) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	return s.records.get(ctx, id)
}

// GetByStudentID lists the grades of one student.
func (s *GradeService) GetByStudentID(ctx context.Context, studentID string) ([]model.Grade, error) {
	return s.records.list(ctx, endpoint.Filters{StudentID: studentID}.Query())
}

// GetByCourseCode lists the grades recorded for one course.
func (s *GradeService) GetByCourseCode(ctx context.Context, courseCode string) ([]model.Grade, error) {
	return s.records.list(ctx, endpoint.Filters{CourseCode: courseCode}.Query())
}

// GetByStudentAndCourse lists one student's grades in one course.
func (s *GradeService) GetByStudentAndCourse(ctx context.Context, studentID, courseCode string) ([]model.Grade, error) {
	return s.records.list(ctx, endpoint.Filters{StudentID: studentID, CourseCode: courseCode}.Query())
}

// Create records a grade.
func (s *GradeService) Create(ctx context.Context, grade model.Grade) (*model.Grade, error) {
	return s.records.create(ctx, grade)
}

// Update replaces the grade stored under id.
func (s *GradeService) Update(ctx context.Context, id string, grade model.Grade) (*model.Grade, error) {
	grade.ID = model.GradeID(id)
	return s.records.update(ctx, id, grade)
}

// Delete removes the grade stored under id.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	return s.records.delete(ctx, id)
}
