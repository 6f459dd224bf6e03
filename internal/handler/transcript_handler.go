package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/validator"
	"github.com/stemsi/records-admin/internal/view"
)

// TranscriptHandler serves the transcript lookup and its downloads.
type TranscriptHandler struct {
	transcripts *view.Transcripts
	pdf         *service.TranscriptPDFService
	queue       repository.EmailQueue
	log         zerolog.Logger
}

// NewTranscriptHandler creates a new TranscriptHandler.
func NewTranscriptHandler(transcripts *view.Transcripts, pdf *service.TranscriptPDFService, queue repository.EmailQueue, log zerolog.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		transcripts: transcripts,
		pdf:         pdf,
		queue:       queue,
		log:         log.With().Str("component", "transcript_handler").Logger(),
	}
}

func transcriptURL(studentID, semester string) string {
	q := url.Values{}
	q.Set("student_id", studentID)
	if semester != "" {
		q.Set("semester", semester)
	}
	return "/transcript?" + q.Encode()
}

// Page godoc
// GET /transcript?student_id=&semester=
// Without student_id the empty lookup form is shown.
func (h *TranscriptHandler) Page(c *gin.Context) {
	studentID, submitted := c.GetQuery("student_id")
	if !submitted {
		renderPage(c, http.StatusOK, "transcript", "Transcript", "transcript", gin.H{"Page": &view.TranscriptPage{}})
		return
	}

	p, err := h.transcripts.Page(c.Request.Context(), studentID, c.Query("semester"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}

	var notice string
	if c.Query("queued") != "" && p.Transcript != nil {
		notice = fmt.Sprintf("The transcript will be e-mailed to %s.", c.Query("queued"))
	}
	renderPage(c, http.StatusOK, "transcript", "Transcript", "transcript", gin.H{"Page": p, "Notice": notice})
}

// load fetches the transcript for a download. When there is nothing to
// download it renders the lookup page instead and returns nil.
func (h *TranscriptHandler) load(c *gin.Context, semester string) *model.Transcript {
	studentID := c.Param("student_id")
	tr, err := h.transcripts.Load(c.Request.Context(), studentID, semester)
	if err != nil {
		if discarded(c, err) {
			return nil
		}
		renderPage(c, http.StatusNotFound, "transcript", "Transcript", "transcript", gin.H{
			"Page": &view.TranscriptPage{StudentID: studentID, Status: view.StatusError, Message: view.MsgTranscriptNotFound},
		})
		return nil
	}
	if !view.ReadyPage(tr).HasGrades {
		c.Redirect(http.StatusSeeOther, transcriptURL(studentID, ""))
		return nil
	}
	return tr
}

// Print godoc
// GET /transcript/:student_id/print?semester=
// Printable transcript with the same table and GPA as the lookup page.
func (h *TranscriptHandler) Print(c *gin.Context) {
	tr := h.load(c, c.Query("semester"))
	if tr == nil {
		return
	}
	renderPage(c, http.StatusOK, "transcript_print", "Transcript", "transcript", gin.H{"Transcript": tr})
}

// PDF godoc
// GET /transcript/:student_id/pdf?semester=
func (h *TranscriptHandler) PDF(c *gin.Context) {
	if !h.pdf.Available() {
		renderPage(c, http.StatusServiceUnavailable, "error", "Error", "transcript", gin.H{
			"Message": "PDF transcripts are not available on this server.",
		})
		return
	}
	tr := h.load(c, c.Query("semester"))
	if tr == nil {
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.Render(&buf, tr); err != nil {
		renderError(c, h.log, fmt.Errorf("render transcript pdf: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.pdf.Filename(tr.Student.StudentID)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Email godoc
// POST /transcript/:student_id/email
// Queues the transcript for the e-mail worker. The recipient is the posted
// "to" address, else the student's own.
func (h *TranscriptHandler) Email(c *gin.Context) {
	semester := c.PostForm("semester")
	tr := h.load(c, semester)
	if tr == nil {
		return
	}

	to := strings.TrimSpace(c.PostForm("to"))
	if to == "" {
		to = tr.Student.Email
	}

	fail := func(status int, code response.ErrCode) {
		p := view.ReadyPage(tr)
		p.Message = response.GetMessage(code)
		renderPage(c, status, "transcript", "Transcript", "transcript", gin.H{"Page": p})
	}
	if to == "" || !validator.ValidateEmail(to) {
		fail(http.StatusUnprocessableEntity, response.ErrNoRecipient)
		return
	}

	job := model.TranscriptEmailJob{
		StudentID:   tr.Student.StudentID,
		Semester:    semester,
		To:          to,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
		RequestID:   c.GetString(response.ContextKeyRequestID),
	}
	if err := h.queue.Enqueue(c.Request.Context(), job); err != nil {
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		h.log.Error().Err(err).Str("student_id", job.StudentID).Msg("Queue transcript e-mail failed")
		fail(http.StatusServiceUnavailable, response.ErrQueueFailure)
		return
	}

	h.log.Info().Str("student_id", job.StudentID).Str("to", to).Msg("Transcript e-mail queued")
	q := url.Values{}
	q.Set("student_id", job.StudentID)
	if semester != "" {
		q.Set("semester", semester)
	}
	q.Set("queued", to)
	c.Redirect(http.StatusSeeOther, "/transcript?"+q.Encode())
}
