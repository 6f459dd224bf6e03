package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signintech/gopdf"

	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
)

// ErrFontUnavailable is returned when the transcript font cannot be read.
var ErrFontUnavailable = errors.New("transcript font unavailable")

const (
	pdfFont       = "transcript"
	pdfMargin     = 40.0
	pdfRowHeight  = 20.0
	pdfPageBottom = 800.0
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Course Code", 80},
	{"Course Name", 170},
	{"Credits", 55},
	{"Grade", 55},
	{"Letter", 50},
	{"Semester", 105},
}

// TranscriptPDFService renders transcripts as PDF documents.
type TranscriptPDFService struct {
	fontPath string
	now      func() time.Time
}

// NewTranscriptPDFService creates a renderer that embeds the TTF font at fontPath.
func NewTranscriptPDFService(fontPath string) *TranscriptPDFService {
	return &TranscriptPDFService{fontPath: fontPath, now: time.Now}
}

// Available reports whether the configured font can be loaded.
func (s *TranscriptPDFService) Available() bool {
	_, err := os.Stat(s.fontPath)
	return err == nil
}

// Filename returns the download name for a student's transcript.
func (s *TranscriptPDFService) Filename(studentID string) string {
	return fmt.Sprintf("transcript_%s.pdf", studentID)
}

// Render writes t as a single- or multi-page A4 PDF.
func (s *TranscriptPDFService) Render(w io.Writer, t *model.Transcript) error {
	if !s.Available() {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, s.fontPath)
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(pdfFont, s.fontPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	pdf.AddPage()

	if err := s.header(pdf, t); err != nil {
		return err
	}
	if err := s.table(pdf, t); err != nil {
		return err
	}
	if err := s.footer(pdf, t); err != nil {
		return err
	}

	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *TranscriptPDFService) header(pdf *gopdf.GoPdf, t *model.Transcript) error {
	if err := pdf.SetFont(pdfFont, "", 18); err != nil {
		return err
	}
	pdf.SetXY(pdfMargin, pdfMargin)
	if err := pdf.Cell(nil, "Academic Transcript"); err != nil {
		return err
	}

	if err := pdf.SetFont(pdfFont, "", 11); err != nil {
		return err
	}
	lines := []string{
		"Student ID: " + t.Student.StudentID,
		"Name: " + format.FullName(t.Student.FirstName, t.Student.LastName),
		"Email: " + t.Student.Email,
		"Enrollment Date: " + format.Date(t.Student.EnrollmentDate, format.LayoutUS),
	}
	if t.Semester != "" {
		lines = append(lines, "Semester: "+t.Semester)
	}
	y := pdfMargin + 30
	for _, line := range lines {
		pdf.SetXY(pdfMargin, y)
		if err := pdf.Cell(nil, line); err != nil {
			return err
		}
		y += 16
	}
	pdf.SetY(y + 10)
	return nil
}

func (s *TranscriptPDFService) table(pdf *gopdf.GoPdf, t *model.Transcript) error {
	if len(t.Grades) == 0 {
		pdf.SetX(pdfMargin)
		return pdf.Cell(nil, "No courses found in transcript.")
	}

	row := func(cells []string) error {
		if pdf.GetY()+pdfRowHeight > pdfPageBottom {
			pdf.AddPage()
			pdf.SetY(pdfMargin)
		}
		x, y := pdfMargin, pdf.GetY()
		for i, col := range pdfColumns {
			pdf.SetXY(x, y)
			rect := &gopdf.Rect{W: col.width, H: pdfRowHeight}
			if err := pdf.CellWithOption(rect, cells[i], gopdf.CellOption{
				Align:  gopdf.Left | gopdf.Middle,
				Border: gopdf.AllBorders,
			}); err != nil {
				return err
			}
			x += col.width
		}
		pdf.SetY(y + pdfRowHeight)
		return nil
	}

	titles := make([]string, len(pdfColumns))
	for i, col := range pdfColumns {
		titles[i] = col.title
	}
	if err := row(titles); err != nil {
		return err
	}

	for _, g := range t.Grades {
		name, credits := "N/A", "N/A"
		if g.Course != nil {
			name = g.Course.Name
			credits = fmt.Sprintf("%d", g.Course.Credits)
		}
		if err := row([]string{g.CourseCode, name, credits, format.Score(g.Grade), format.Grade(g.Grade), g.Semester}); err != nil {
			return err
		}
	}
	return nil
}

func (s *TranscriptPDFService) footer(pdf *gopdf.GoPdf, t *model.Transcript) error {
	y := pdf.GetY() + 16
	lines := []string{
		"GPA: " + format.GPA(t.GPA, t.HasGPA),
		fmt.Sprintf("Total Credits: %d", t.TotalCredits),
		"Generated on: " + s.now().Format("2006-01-02 15:04:05"),
	}
	for _, line := range lines {
		pdf.SetXY(pdfMargin, y)
		if err := pdf.Cell(nil, line); err != nil {
			return err
		}
		y += 16
	}
	return nil
}
