package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/logger"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/validator"
	"github.com/stemsi/records-admin/internal/view"
)

const defaultWidth = 80

func main() {
	var studentID, semester, pdfPath string
	flag.StringVar(&studentID, "student", "", "Student ID (prompted when omitted)")
	flag.StringVar(&semester, "semester", "", "Only include this semester")
	flag.StringVar(&pdfPath, "pdf", "", "Also write the transcript as a PDF to this path")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── CLI Input ─────────────────────────────────────────────────────
	if studentID == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -student is required")
			os.Exit(2)
		}
		fmt.Print("Enter Student ID: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		studentID = strings.TrimSpace(line)
	}
	if !validator.ValidateStudentID(studentID) {
		fmt.Fprintf(os.Stderr, "Error: %q is not a valid student ID (expected S followed by at least 5 digits)\n", studentID)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout+5*time.Second)
	defer cancel()

	// ─── Initialize Services ──────────────────────────────────────────
	apiClient := client.New(cfg.APITimeout, log)
	resolver := endpoint.NewResolver(cfg.APIBaseURL)
	transcripts := view.NewTranscripts(
		service.NewStudentService(apiClient, resolver),
		service.NewGradeService(apiClient, resolver),
		log,
	)

	tr, err := transcripts.Load(ctx, studentID, semester)
	if err != nil {
		log.Error().Err(err).Str("student_id", studentID).Msg("Failed to load transcript")
		fmt.Fprintln(os.Stderr, view.MsgTranscriptNotFound)
		os.Exit(1)
	}

	Print(os.Stdout, tr, terminalWidth())

	if pdfPath != "" {
		if err := writePDF(pdfPath, cfg.TranscriptFontPath, tr); err != nil {
			log.Fatal().Err(err).Str("path", pdfPath).Msg("Failed to write PDF")
		}
		fmt.Printf("\nPDF written to %s\n", pdfPath)
	}
}

// terminalWidth is the width of stdout when it is a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func writePDF(path, fontPath string, tr *model.Transcript) error {
	pdf := service.NewTranscriptPDFService(fontPath)
	if !pdf.Available() {
		return service.ErrFontUnavailable
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pdf.Render(f, tr); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Print writes the transcript table. The course column takes whatever the
// fixed columns leave of width.
func Print(w io.Writer, tr *model.Transcript, width int) {
	const fixed = 12 + 8 + 8 + 6 + 4 // semester, credits, score, grade, gaps
	courseWidth := width - fixed
	if courseWidth < 20 {
		courseWidth = 20
	}

	name := format.FullName(tr.Student.FirstName, tr.Student.LastName)
	fmt.Fprintf(w, "%s (%s)\n", name, tr.Student.StudentID)
	if tr.Student.Email != "" {
		fmt.Fprintln(w, tr.Student.Email)
	}
	if tr.Semester != "" {
		fmt.Fprintf(w, "Semester: %s\n", tr.Semester)
	}
	fmt.Fprintln(w, strings.Repeat("─", min(width, courseWidth+fixed)))

	row := fmt.Sprintf("%%-%ds %%-12s %%-8s %%-8s %%s\n", courseWidth)
	fmt.Fprintf(w, row, "Course", "Semester", "Credits", "Score", "Grade")
	if len(tr.Grades) == 0 {
		fmt.Fprintln(w, "No grades recorded.")
	}
	for _, g := range tr.Grades {
		course := g.CourseCode
		if g.Course != nil && g.Course.Name != "" {
			course += " " + g.Course.Name
		}
		credits := "N/A"
		if c := g.Credits(); c > 0 {
			credits = fmt.Sprint(c)
		}
		fmt.Fprintf(w, row, truncate(course, courseWidth), g.Semester, credits, format.Score(g.Grade), format.Grade(g.Grade))
	}

	fmt.Fprintln(w, strings.Repeat("─", min(width, courseWidth+fixed)))
	fmt.Fprintf(w, "GPA: %s    Total credits: %d\n", format.GPA(tr.GPA, tr.HasGPA), tr.TotalCredits)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
