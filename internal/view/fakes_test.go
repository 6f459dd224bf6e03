package view

import (
	"context"
	"errors"
	"sync"

	"github.com/stemsi/records-admin/internal/model"
)

var errBackend = errors.New("backend unavailable")

func score(f float64) *float64 { return &f }

// fakeRecords is an in-memory entity service that counts calls.
type fakeRecords[T Keyed] struct {
	mu        sync.Mutex
	items     []T
	listErr   error
	getErr    error
	deleteErr error
	saveErr   error
	lists     int
	deletes   []string
	created   []T
	updated   map[string]T
}

func (f *fakeRecords[T]) GetAll(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeRecords[T]) GetByID(ctx context.Context, key string) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, it := range f.items {
		if it.Key() == key {
			it := it
			return &it, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRecords[T]) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return f.deleteErr
}

func (f *fakeRecords[T]) Create(ctx context.Context, v T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, v)
	return &v, nil
}

func (f *fakeRecords[T]) Update(ctx context.Context, key string, v T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.updated == nil {
		f.updated = make(map[string]T)
	}
	f.updated[key] = v
	return &v, nil
}

// fakeGrades adds the grade queries to fakeRecords.
type fakeGrades struct {
	fakeRecords[model.Grade]
	byStudentErr error
}

func (f *fakeGrades) GetByStudentID(ctx context.Context, id string) ([]model.Grade, error) {
	if f.byStudentErr != nil {
		return nil, f.byStudentErr
	}
	var out []model.Grade
	for _, g := range f.items {
		if g.StudentID == id {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrades) GetByCourseCode(ctx context.Context, code string) ([]model.Grade, error) {
	var out []model.Grade
	for _, g := range f.items {
		if g.CourseCode == code {
			out = append(out, g)
		}
	}
	return out, nil
}

var sampleCourses = []model.Course{
	{CourseCode: "CS101", Name: "Intro to Programming", Description: "Basics of programming", Credits: 3},
	{CourseCode: "MA201", Name: "Calculus II", Description: "Integration and series", Credits: 4},
	{CourseCode: "PH101", Name: "Physics I", Description: "Mechanics", Credits: 3},
}

var sampleStudents = []model.Student{
	{StudentID: "S10001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	{StudentID: "S10002", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	{StudentID: "S10003", FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil"},
}

func sampleGrades() []model.Grade {
	return []model.Grade{
		{ID: "1", StudentID: "S10001", CourseCode: "CS101", Semester: "Fall 2024", Grade: score(95), Course: &sampleCourses[0], Student: &sampleStudents[0]},
		{ID: "2", StudentID: "S10001", CourseCode: "MA201", Semester: "Spring 2024", Grade: score(82), Course: &sampleCourses[1], Student: &sampleStudents[0]},
		{ID: "3", StudentID: "S10001", CourseCode: "PH101", Semester: "Fall 2024", Grade: nil, Course: &sampleCourses[2], Student: &sampleStudents[0]},
		{ID: "4", StudentID: "S10002", CourseCode: "CS101", Semester: "Fall 2023", Grade: score(71), Course: &sampleCourses[0], Student: &sampleStudents[1]},
	}
}
