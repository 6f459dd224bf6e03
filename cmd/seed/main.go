package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/logger"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/validator"
)

func score(v float64) *float64 { return &v }

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	apiClient := client.New(cfg.APITimeout, log)
	resolver := endpoint.NewResolver(cfg.APIBaseURL)

	studentService := service.NewStudentService(apiClient, resolver)
	courseService := service.NewCourseService(apiClient, resolver)
	gradeService := service.NewGradeService(apiClient, resolver)

	fmt.Printf("=== Seeding %s ===\n", cfg.APIBaseURL)

	courses := []model.CoursePayload{
		{CourseCode: "CS101", Name: "Introduction to Programming", Description: "Fundamentals of programming in a modern language.", Credits: 3, Department: "Computer Science"},
		{CourseCode: "CS201", Name: "Data Structures", Description: "Lists, trees, graphs and their algorithms.", Credits: 4, Department: "Computer Science", Prerequisites: "CS101"},
		{CourseCode: "MA101", Name: "Calculus I", Description: "Limits, derivatives and integrals.", Credits: 4, Department: "Mathematics"},
		{CourseCode: "MA201", Name: "Calculus II", Description: "Integration techniques, sequences and series.", Credits: 4, Department: "Mathematics", Prerequisites: "MA101"},
		{CourseCode: "EN101", Name: "Academic Writing", Description: "Composition and argument.", Credits: 3, Department: "English"},
	}

	students := []model.StudentPayload{
		{StudentID: "S10001", FirstName: "Ada", LastName: "Lovelace", Email: "ada.lovelace@example.edu", DateOfBirth: "2003-12-10", EnrollmentDate: "2022-09-01", Phone: "5550100001"},
		{StudentID: "S10002", FirstName: "Alan", LastName: "Turing", Email: "alan.turing@example.edu", DateOfBirth: "2003-06-23", EnrollmentDate: "2022-09-01", Phone: "5550100002"},
		{StudentID: "S10003", FirstName: "Grace", LastName: "Hopper", Email: "grace.hopper@example.edu", DateOfBirth: "2004-12-09", EnrollmentDate: "2023-09-01", Address: "12 Harbor Rd"},
		{StudentID: "S10004", FirstName: "Edsger", LastName: "Dijkstra", Email: "edsger.dijkstra@example.edu", DateOfBirth: "2004-05-11", EnrollmentDate: "2023-09-01"},
		{StudentID: "S10005", FirstName: "Barbara", LastName: "Liskov", Email: "barbara.liskov@example.edu", DateOfBirth: "2005-11-07", EnrollmentDate: "2024-01-15"},
	}

	grades := []model.GradePayload{
		{StudentID: "S10001", CourseCode: "CS101", Semester: "Fall 2023", Grade: score(95), Date: "2023-12-15"},
		{StudentID: "S10001", CourseCode: "MA201", Semester: "Spring 2024", Grade: score(82), Date: "2024-05-10"},
		{StudentID: "S10001", CourseCode: "EN101", Semester: "Fall 2024", Date: "2024-12-13"},
		{StudentID: "S10002", CourseCode: "CS101", Semester: "Fall 2023", Grade: score(88.5), Date: "2023-12-15"},
		{StudentID: "S10002", CourseCode: "CS201", Semester: "Spring 2024", Grade: score(91), Date: "2024-05-10"},
		{StudentID: "S10003", CourseCode: "MA101", Semester: "Fall 2023", Grade: score(74), Date: "2023-12-15"},
		{StudentID: "S10004", CourseCode: "MA101", Semester: "Spring 2024", Grade: score(59.5), Date: "2024-05-10"},
		{StudentID: "S10005", CourseCode: "EN101", Semester: "Spring 2024", Grade: score(67), Date: "2024-05-10"},
	}

	successCount, failCount := 0, 0
	report := func(kind, key string, fields map[string]string, err error) {
		switch {
		case len(fields) > 0:
			failCount++
			fmt.Printf("Skipping %s %s: %s\n", kind, key, joinFields(fields))
		case err != nil:
			failCount++
			fmt.Printf("Error creating %s %s: %v\n", kind, key, err)
		default:
			successCount++
		}
	}

	for _, p := range courses {
		fields := validator.Struct(p)
		var err error
		if len(fields) == 0 {
			_, err = courseService.Create(ctx, model.Course(p))
		}
		report("course", p.CourseCode, fields, err)
	}

	for _, p := range students {
		fields := validator.Struct(p)
		var err error
		if len(fields) == 0 {
			_, err = studentService.Create(ctx, model.Student(p))
		}
		report("student", p.StudentID, fields, err)
	}

	for _, p := range grades {
		fields := validator.Struct(p)
		var err error
		if len(fields) == 0 {
			_, err = gradeService.Create(ctx, model.Grade{
				StudentID:  p.StudentID,
				CourseCode: p.CourseCode,
				Semester:   p.Semester,
				Grade:      p.Grade,
				Date:       p.Date,
			})
		}
		report("grade", p.StudentID+"/"+p.CourseCode, fields, err)
	}

	fmt.Printf("\n=== Done: %d created, %d failed ===\n", successCount, failCount)
}

func joinFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, msg := range fields {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
