package service

import (
	"context"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/model"
)

// CourseService reads and writes course records on the backend.
type CourseService struct {
	records records[model.Course]
}

// NewCourseService creates a new CourseService.
func NewCourseService(c *client.Client, r *endpoint.Resolver) *CourseService {
	return &CourseService{records: records[model.Course]{
		client:   c,
		resolver: r,
		entity:   endpoint.Courses,
		found:    func(c model.Course) bool { return c.CourseCode != "" },
	}}
}

// GetAll lists every course.
func (s *CourseService) GetAll(ctx context.Context) ([]model.Course, error) {
	return s.records.list(ctx, nil)
}

// GetByID fetches one course by course code.
func (s *CourseService) GetByID(ctx context.Context, code string) (*model.Course, error) {
	return s.records.get(ctx, code)
}

// Create adds a course.
func (s *CourseService) Create(ctx context.Context, course model.Course) (*model.Course, error) {
	return s.records.create(ctx, course)
}

// Update replaces the course stored under code.
func (s *CourseService) Update(ctx context.Context, code string, course model.Course) (*model.Course, error) {
	course.CourseCode = code
	return s.records.update(ctx, code, course)
}

// Delete removes the course stored under code.
func (s *CourseService) Delete(ctx context.Context, code string) error {
	return s.records.delete(ctx, code)
}
