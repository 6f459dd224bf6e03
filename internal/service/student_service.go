package service

import (
	"context"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/model"
)

// StudentService reads and writes student records on the backend.
type StudentService struct {
	records records[model.Student]
}

// NewStudentService creates a new StudentService.
func NewStudentService(c *client.Client, r *endpoint.Resolver) *StudentService {
	return &StudentService{records: records[model.Student]{
		client:   c,
		resolver: r,
		entity:   endpoint.Students,
		found:    func(s model.Student) bool { return s.StudentID != "" },
	}}
}

// GetAll lists every student.
func (s *StudentService) GetAll(ctx context.Context) ([]model.Student, error) {
	return s.records.list(ctx, nil)
}

// GetByID fetches one student by student id.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return s.records.get(ctx, id)
}

// Create adds a student.
func (s *StudentService) Create(ctx context.Context, student model.Student) (*model.Student, error) {
	return s.records.create(ctx, student)
}

// Update replaces the student stored under id. The key itself never changes.
func (s *StudentService) Update(ctx context.Context, id string, student model.Student) (*model.Student, error) {
	student.StudentID = id
	return s.records.update(ctx, id, student)
}

// Delete removes the student stored under id.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.records.delete(ctx, id)
}
