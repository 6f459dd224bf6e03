package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/view"
)

var coursesMissing = notFoundPanel{Text: "Course not found or has been deleted.", Back: "/courses", BackLabel: "Courses"}

// CourseHandler serves the course pages.
type CourseHandler struct {
	list    *view.ListController[model.Course]
	forms   *view.CourseForms
	details *view.Details
	log     zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(list *view.ListController[model.Course], forms *view.CourseForms, details *view.Details, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		list:    list,
		forms:   forms,
		details: details,
		log:     log.With().Str("component", "course_handler").Logger(),
	}
}

// List godoc
// GET /courses?view=&q=&field=
// Mounts the list once, then filters the held collection on later visits.
func (h *CourseHandler) List(c *gin.Context) {
	st, err := h.list.Open(c.Request.Context(), c.Query("view"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	renderList(c, h.list, st, bindQuery(c), "Courses", nil)
}

// Detail godoc
// GET /courses/:code
func (h *CourseHandler) Detail(c *gin.Context) {
	d, err := h.details.Course(c.Request.Context(), c.Param("code"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if d.NotFound {
		status = http.StatusNotFound
	}
	renderPage(c, status, "course", "Course", "courses", gin.H{"Detail": d, "Missing": coursesMissing})
}

// Edit godoc
// GET /courses/:code/edit
// Renders the edit form, or the create form when :code is "new".
func (h *CourseHandler) Edit(c *gin.Context) {
	f, err := h.forms.Open(c.Request.Context(), c.Param("code"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f)
}

// Submit godoc
// POST /courses/:code/edit
func (h *CourseHandler) Submit(c *gin.Context) {
	f, err := h.forms.Submit(c.Request.Context(), c.Param("code"), postedFields(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f)
}

func (h *CourseHandler) renderForm(c *gin.Context, f *view.Form) {
	title := "Add New Course"
	if f.Editing {
		title = "Edit Course"
	}
	renderPage(c, formStatus(f), "course_form", title, "courses", gin.H{"Form": f, "Missing": coursesMissing})
}

// ConfirmDelete godoc
// GET /courses/:code/delete?view=
func (h *CourseHandler) ConfirmDelete(c *gin.Context) {
	code := c.Param("code")
	viewID := c.Query("view")
	cancel := "/courses/" + code
	if viewID != "" {
		cancel = "/courses?view=" + viewID
	}
	renderPage(c, http.StatusOK, "confirm_delete", "Delete Course", "courses", gin.H{
		"Label":  "course " + code,
		"Action": "/courses/" + code + "/delete",
		"ViewID": viewID,
		"Cancel": cancel,
	})
}

// Delete godoc
// POST /courses/:code/delete
// From the list (view set) the row is removed locally; from the course page a
// successful delete navigates to the list.
func (h *CourseHandler) Delete(c *gin.Context) {
	code := c.Param("code")
	if c.PostForm("view") != "" {
		deleteFromList(c, h.list, code, "Courses", h.log, nil)
		return
	}

	d, deleted, err := h.details.DeleteCourse(c.Request.Context(), code)
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	if deleted {
		c.Redirect(http.StatusSeeOther, "/courses")
		return
	}
	renderPage(c, http.StatusOK, "course", "Course", "courses", gin.H{"Detail": d, "Missing": coursesMissing})
}
