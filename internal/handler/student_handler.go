package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/view"
)

var studentsMissing = notFoundPanel{Text: "Student not found or has been deleted.", Back: "/students", BackLabel: "Students"}

// StudentHandler serves the student pages.
type StudentHandler struct {
	list    *view.ListController[model.Student]
	forms   *view.StudentForms
	details *view.Details
	log     zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(list *view.ListController[model.Student], forms *view.StudentForms, details *view.Details, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		list:    list,
		forms:   forms,
		details: details,
		log:     log.With().Str("component", "student_handler").Logger(),
	}
}

// List godoc
// GET /students?view=&q=&field=
// Mounts the list once, then filters the held collection on later visits.
func (h *StudentHandler) List(c *gin.Context) {
	st, err := h.list.Open(c.Request.Context(), c.Query("view"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	renderList(c, h.list, st, bindQuery(c), "Students", nil)
}

// Detail godoc
// GET /students/:id?semester=
func (h *StudentHandler) Detail(c *gin.Context) {
	d, err := h.details.Student(c.Request.Context(), c.Param("id"), c.Query("semester"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if d.NotFound {
		status = http.StatusNotFound
	}
	renderPage(c, status, "student", "Student", "students", gin.H{"Detail": d, "Missing": studentsMissing})
}

// Edit godoc
// GET /students/:id/edit
// Renders the edit form, or the create form when :id is "new".
func (h *StudentHandler) Edit(c *gin.Context) {
	f, err := h.forms.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f)
}

// Submit godoc
// POST /students/:id/edit
func (h *StudentHandler) Submit(c *gin.Context) {
	f, err := h.forms.Submit(c.Request.Context(), c.Param("id"), postedFields(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f)
}

func (h *StudentHandler) renderForm(c *gin.Context, f *view.Form) {
	title := "Add New Student"
	if f.Editing {
		title = "Edit Student"
	}
	renderPage(c, formStatus(f), "student_form", title, "students", gin.H{"Form": f, "Missing": studentsMissing})
}

// ConfirmDelete godoc
// GET /students/:id/delete?view=
func (h *StudentHandler) ConfirmDelete(c *gin.Context) {
	id := c.Param("id")
	viewID := c.Query("view")
	cancel := "/students/" + id
	if viewID != "" {
		cancel = "/students?view=" + viewID
	}
	renderPage(c, http.StatusOK, "confirm_delete", "Delete Student", "students", gin.H{
		"Label":  "student " + id,
		"Action": "/students/" + id + "/delete",
		"ViewID": viewID,
		"Cancel": cancel,
	})
}

// Delete godoc
// POST /students/:id/delete
// From the list (view set) the row is removed locally; from the profile a
// successful delete navigates to the list.
func (h *StudentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("view") != "" {
		deleteFromList(c, h.list, id, "Students", h.log, nil)
		return
	}

	d, deleted, err := h.details.DeleteStudent(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	if deleted {
		c.Redirect(http.StatusSeeOther, "/students")
		return
	}
	renderPage(c, http.StatusOK, "student", "Student", "students", gin.H{"Detail": d, "Missing": studentsMissing})
}
