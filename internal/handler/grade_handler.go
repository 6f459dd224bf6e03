package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/view"
)

var gradesMissing = notFoundPanel{Text: "Grade not found or has been deleted.", Back: "/grades", BackLabel: "Grades"}

// GradeHandler serves the grade pages and the spreadsheet export.
type GradeHandler struct {
	list   *view.ListController[model.Grade]
	forms  *view.GradeForms
	export *service.ExportService
	log    zerolog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(list *view.ListController[model.Grade], forms *view.GradeForms, export *service.ExportService, log zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		list:   list,
		forms:  forms,
		export: export,
		log:    log.With().Str("component", "grade_handler").Logger(),
	}
}

// List godoc
// GET /grades?view=&q=&field=&semester=
// The semester filter narrows the held collection before the text filter.
func (h *GradeHandler) List(c *gin.Context) {
	st, err := h.list.Open(c.Request.Context(), c.Query("view"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	renderList(c, h.list, st, bindQuery(c), "Grades", view.Semesters(st.Items))
}

// Export godoc
// GET /grades/export.xlsx?view=&q=&field=&semester=
// Writes the rows the list page currently shows.
func (h *GradeHandler) Export(c *gin.Context) {
	st, err := h.list.Open(c.Request.Context(), c.Query("view"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	if st.Status == view.StatusError {
		renderList(c, h.list, st, bindQuery(c), "Grades", nil)
		return
	}

	rows := h.list.Visible(st, bindQuery(c))
	filename := fmt.Sprintf("grades_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.export.WriteGrades(c.Writer, rows); err != nil {
		h.log.Error().Err(err).Msg("Export grades failed")
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func hints(c *gin.Context) view.GradeHints {
	var hn view.GradeHints
	_ = c.ShouldBindQuery(&hn)
	return hn
}

// Edit godoc
// GET /grades/:id/edit?studentId=&courseCode=
// :id "new" opens the create form, pre-selected from the hints.
func (h *GradeHandler) Edit(c *gin.Context) {
	hn := hints(c)
	f, err := h.forms.Open(c.Request.Context(), c.Param("id"), hn)
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f, hn)
}

// New godoc
// GET /grades/new
// Alias of /grades/new/edit.
func (h *GradeHandler) New(c *gin.Context) {
	target := "/grades/new/edit"
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusFound, target)
}

// Submit godoc
// POST /grades/:id/edit?studentId=&courseCode=
func (h *GradeHandler) Submit(c *gin.Context) {
	hn := hints(c)
	f, err := h.forms.Submit(c.Request.Context(), c.Param("id"), hn, postedFields(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.renderForm(c, f, hn)
}

func (h *GradeHandler) renderForm(c *gin.Context, f *view.Form, hn view.GradeHints) {
	title := "Record New Grade"
	if f.Editing {
		title = "Edit Grade"
	}
	cancel := "/grades"
	switch {
	case hn.StudentID != "":
		cancel = "/students/" + hn.StudentID
	case hn.CourseCode != "":
		cancel = "/courses/" + hn.CourseCode
	}
	renderPage(c, formStatus(f), "grade_form", title, "grades", gin.H{
		"Form":    f,
		"Missing": gradesMissing,
		"Cancel":  cancel,
	})
}

// ConfirmDelete godoc
// GET /grades/:id/delete?view=
func (h *GradeHandler) ConfirmDelete(c *gin.Context) {
	id := c.Param("id")
	viewID := c.Query("view")
	cancel := "/grades"
	if viewID != "" {
		cancel += "?view=" + viewID
	}
	renderPage(c, http.StatusOK, "confirm_delete", "Delete Grade", "grades", gin.H{
		"Label":  "this grade record",
		"Action": "/grades/" + id + "/delete",
		"ViewID": viewID,
		"Cancel": cancel,
	})
}

// Delete godoc
// POST /grades/:id/delete
func (h *GradeHandler) Delete(c *gin.Context) {
	deleteFromList(c, h.list, c.Param("id"), "Grades", h.log, view.Semesters)
}
