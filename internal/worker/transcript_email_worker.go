package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/service"
)

const (
	EmailPollTimeout = 1 * time.Second
	EmailSendTimeout = 30 * time.Second
)

// TranscriptLoader builds the transcript a job asks for.
type TranscriptLoader interface {
	Load(ctx context.Context, studentID, semester string) (*model.Transcript, error)
}

// PDFRenderer produces the attachment. When it is unavailable the message
// goes out with the HTML table only.
type PDFRenderer interface {
	Available() bool
	Filename(studentID string) string
	Render(w io.Writer, t *model.Transcript) error
}

type TranscriptEmailWorker struct {
	queue       repository.EmailQueue
	transcripts TranscriptLoader
	pdf         PDFRenderer
	mailer      service.Mailer
	log         zerolog.Logger
}

func NewTranscriptEmailWorker(
	queue repository.EmailQueue,
	transcripts TranscriptLoader,
	pdf PDFRenderer,
	mailer service.Mailer,
	log zerolog.Logger,
) *TranscriptEmailWorker {
	return &TranscriptEmailWorker{
		queue:       queue,
		transcripts: transcripts,
		pdf:         pdf,
		mailer:      mailer,
		log:         log.With().Str("component", "transcript_email_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

// Start processes jobs until ctx is cancelled, then sends whatever is still
// queued before returning.
func (w *TranscriptEmailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("TranscriptEmailWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Draining queued e-mails...")
			w.drain()
			return

		default:
			job, err := w.queue.Dequeue(ctx, EmailPollTimeout)
			if err != nil {
				if !errors.Is(err, repository.ErrQueueEmpty) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Dequeue error")
				}
				continue
			}
			w.processSafe(context.Background(), job)
		}
	}
}

func (w *TranscriptEmailWorker) drain() {
	ctx := context.Background()
	sent := 0
	for {
		job, err := w.queue.TryDequeue(ctx)
		if err != nil {
			if !errors.Is(err, repository.ErrQueueEmpty) {
				w.log.Error().Err(err).Msg("Drain dequeue error")
			}
			break
		}
		w.processSafe(ctx, job)
		sent++
	}
	w.log.Info().Int("jobs", sent).Msg("TranscriptEmailWorker stopped")
}

// processSafe runs one job with its own deadline. Failures are logged and
// dropped; nothing retries automatically.
func (w *TranscriptEmailWorker) processSafe(parent context.Context, job *model.TranscriptEmailJob) {
	ctx, cancel := context.WithTimeout(parent, EmailSendTimeout)
	defer cancel()

	jobLog := w.log.With().
		Str("student_id", job.StudentID).
		Str("to", job.To).
		Str("request_id", job.RequestID).
		Logger()

	if err := w.Process(ctx, job); err != nil {
		jobLog.Error().Err(err).Msg("Transcript e-mail failed")
		return
	}
	jobLog.Info().Msg("Transcript e-mail delivered")
}

// ----------------------------------------------------------------
// Single job
// ----------------------------------------------------------------

// Process builds the transcript named by job and mails it.
func (w *TranscriptEmailWorker) Process(ctx context.Context, job *model.TranscriptEmailJob) error {
	tr, err := w.transcripts.Load(ctx, job.StudentID, job.Semester)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}

	msg := BuildMessage(tr, job.To)
	if w.pdf != nil && w.pdf.Available() {
		var buf bytes.Buffer
		if err := w.pdf.Render(&buf, tr); err != nil {
			return fmt.Errorf("render transcript pdf: %w", err)
		}
		msg.Attachments = append(msg.Attachments, service.Attachment{
			Filename:    w.pdf.Filename(tr.Student.StudentID),
			ContentType: "application/pdf",
			Content:     buf.Bytes(),
		})
	}

	return w.mailer.Send(ctx, msg)
}

// BuildMessage renders the transcript as the plain-text and HTML bodies of
// an e-mail to the given address.
func BuildMessage(tr *model.Transcript, to string) service.Message {
	name := format.FullName(tr.Student.FirstName, tr.Student.LastName)
	subject := "Transcript for " + name
	if tr.Semester != "" {
		subject += " (" + tr.Semester + ")"
	}

	gpa := format.GPA(tr.GPA, tr.HasGPA)

	var text, body strings.Builder
	fmt.Fprintf(&text, "%s\nStudent ID: %s\n\n", subject, tr.Student.StudentID)
	fmt.Fprintf(&body, "<h2>%s</h2><p>Student ID: %s</p><table border=\"1\" cellpadding=\"4\">"+
		"<tr><th>Course</th><th>Semester</th><th>Credits</th><th>Score</th><th>Grade</th></tr>",
		html.EscapeString(subject), html.EscapeString(tr.Student.StudentID))

	for _, g := range tr.Grades {
		course := g.CourseCode
		if g.Course != nil && g.Course.Name != "" {
			course += " " + g.Course.Name
		}
		credits := "N/A"
		if c := g.Credits(); c > 0 {
			credits = fmt.Sprint(c)
		}
		score, letter := format.Score(g.Grade), format.Grade(g.Grade)

		fmt.Fprintf(&text, "%-40s %-12s %-7s %-6s %s\n", course, g.Semester, credits, score, letter)
		fmt.Fprintf(&body, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(course), html.EscapeString(g.Semester), credits, score, letter)
	}

	fmt.Fprintf(&text, "\nGPA: %s\nTotal credits: %d\n", gpa, tr.TotalCredits)
	fmt.Fprintf(&body, "</table><p>GPA: %s<br>Total credits: %d</p>", gpa, tr.TotalCredits)

	return service.Message{
		To:      to,
		ToName:  name,
		Subject: subject,
		Text:    text.String(),
		HTML:    body.String(),
	}
}
