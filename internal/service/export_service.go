package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
)

const gradeSheet = "Grades"

var gradeExportHeaders = []string{"Grade ID", "Student ID", "Student Name", "Course Code", "Course Name", "Semester", "Score", "Letter", "Date"}

// ExportService writes grade listings as spreadsheets.
type ExportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteGrades writes grades as an XLSX workbook in the order given.
func (s *ExportService) WriteGrades(w io.Writer, grades []model.Grade) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(gradeSheet)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, header := range gradeExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(gradeSheet, cell, header)
	}

	for i, g := range grades {
		row := i + 2
		studentName, courseName := "Unknown", "N/A"
		if g.Student != nil {
			studentName = format.FullName(g.Student.FirstName, g.Student.LastName)
		}
		if g.Course != nil {
			courseName = g.Course.Name
		}
		f.SetCellValue(gradeSheet, fmt.Sprintf("A%d", row), string(g.ID))
		f.SetCellValue(gradeSheet, fmt.Sprintf("B%d", row), g.StudentID)
		f.SetCellValue(gradeSheet, fmt.Sprintf("C%d", row), studentName)
		f.SetCellValue(gradeSheet, fmt.Sprintf("D%d", row), g.CourseCode)
		f.SetCellValue(gradeSheet, fmt.Sprintf("E%d", row), courseName)
		f.SetCellValue(gradeSheet, fmt.Sprintf("F%d", row), g.Semester)
		if g.Grade != nil {
			f.SetCellValue(gradeSheet, fmt.Sprintf("G%d", row), *g.Grade)
		}
		f.SetCellValue(gradeSheet, fmt.Sprintf("H%d", row), format.Grade(g.Grade))
		f.SetCellValue(gradeSheet, fmt.Sprintf("I%d", row), format.Date(g.Date, format.LayoutISO))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
