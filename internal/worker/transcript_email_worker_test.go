package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/service"
)

type loaderFunc func(ctx context.Context, studentID, semester string) (*model.Transcript, error)

func (f loaderFunc) Load(ctx context.Context, studentID, semester string) (*model.Transcript, error) {
	return f(ctx, studentID, semester)
}

type fakePDF struct {
	available bool
	err       error
}

func (p fakePDF) Available() bool { return p.available }
func (p fakePDF) Filename(studentID string) string { return "transcript_" + studentID + ".pdf" }
func (p fakePDF) Render(w io.Writer, _ *model.Transcript) error {
	if p.err != nil {
		return p.err
	}
	_, err := w.Write([]byte("%PDF-1.4"))
	return err
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []service.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg service.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func score(v float64) *float64 { return &v }

func sampleTranscript() *model.Transcript {
	return &model.Transcript{
		Student: model.Student{StudentID: "S10001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Grades: []model.Grade{
			{ID: "1", StudentID: "S10001", CourseCode: "MA201", Semester: "Fall 2024", Grade: score(95),
				Course: &model.Course{CourseCode: "MA201", Name: "Calculus <II>", Credits: 3}},
			{ID: "2", StudentID: "S10001", CourseCode: "CS101", Semester: "Fall 2024"},
		},
		Semesters:    []string{"Fall 2024"},
		GPA:          4,
		HasGPA:       true,
		TotalCredits: 3,
	}
}

func staticLoader(tr *model.Transcript, err error) loaderFunc {
	return func(context.Context, string, string) (*model.Transcript, error) { return tr, err }
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage(sampleTranscript(), "dean@example.com")

	assert.Equal(t, "dean@example.com", msg.To)
	assert.Equal(t, "Ada Lovelace", msg.ToName)
	assert.Equal(t, "Transcript for Ada Lovelace", msg.Subject)
	assert.Contains(t, msg.Text, "Student ID: S10001")
	assert.Contains(t, msg.Text, "GPA: 4.00")
	assert.Contains(t, msg.Text, "Total credits: 3")
	assert.Contains(t, msg.Text, "Not graded")
	assert.Contains(t, msg.HTML, "Calculus &lt;II&gt;")
	assert.NotContains(t, msg.HTML, "<II>")
}

func TestBuildMessageSemesterSubject(t *testing.T) {
	tr := sampleTranscript()
	tr.Semester = "Fall 2024"
	tr.HasGPA = false

	msg := BuildMessage(tr, "ada@example.com")
	assert.Equal(t, "Transcript for Ada Lovelace (Fall 2024)", msg.Subject)
	assert.Contains(t, msg.Text, "GPA: N/A")
}

func TestProcess(t *testing.T) {
	job := &model.TranscriptEmailJob{StudentID: "S10001", To: "ada@example.com"}

	tests := []struct {
		name        string
		loaderErr   error
		pdf         fakePDF
		mailErr     error
		wantErr     bool
		attachments int
	}{
		{name: "with pdf", pdf: fakePDF{available: true}, attachments: 1},
		{name: "font unavailable", pdf: fakePDF{}, attachments: 0},
		{name: "load failure", loaderErr: errors.New("upstream down"), wantErr: true},
		{name: "pdf failure", pdf: fakePDF{available: true, err: errors.New("bad font")}, wantErr: true},
		{name: "send failure", pdf: fakePDF{}, mailErr: errors.New("status 500"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &recordingMailer{err: tt.mailErr}
			var tr *model.Transcript
			if tt.loaderErr == nil {
				tr = sampleTranscript()
			}
			w := NewTranscriptEmailWorker(repository.NewMemoryEmailQueue(1), staticLoader(tr, tt.loaderErr), tt.pdf, mailer, zerolog.Nop())

			err := w.Process(context.Background(), job)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, mailer.count())
				return
			}
			require.NoError(t, err)
			require.Len(t, mailer.sent, 1)
			assert.Len(t, mailer.sent[0].Attachments, tt.attachments)
			if tt.attachments > 0 {
				a := mailer.sent[0].Attachments[0]
				assert.Equal(t, "transcript_S10001.pdf", a.Filename)
				assert.Equal(t, "application/pdf", a.ContentType)
			}
		})
	}
}

func TestStartDeliversAndDrains(t *testing.T) {
	queue := repository.NewMemoryEmailQueue(4)
	mailer := &recordingMailer{}
	w := NewTranscriptEmailWorker(queue, staticLoader(sampleTranscript(), nil), fakePDF{}, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.NoError(t, queue.Enqueue(context.Background(), model.TranscriptEmailJob{StudentID: "S10001", To: "a@example.com"}))
	assert.Eventually(t, func() bool { return mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	// Jobs queued after shutdown are still sent by a fresh drain.
	require.NoError(t, queue.Enqueue(context.Background(), model.TranscriptEmailJob{StudentID: "S10001", To: "b@example.com"}))
	w.drain()
	assert.Equal(t, 2, mailer.count())

	n, err := queue.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
