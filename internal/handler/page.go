package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/view"
)

// notFoundPanel is the dedicated "not found" state linking back to a list.
type notFoundPanel struct {
	Text      string
	Back      string
	BackLabel string
}

// filterBar is the search form above a list page.
type filterBar struct {
	Action    string
	ViewID    string
	Query     view.Query
	Fields    []string
	Semesters []string
}

// renderPage renders a layout page. Every page gets a title, the active nav
// entry and the request id.
func renderPage(c *gin.Context, status int, name, title, nav string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Nav"] = nav
	data["RequestID"] = c.GetString(response.ContextKeyRequestID)
	c.HTML(status, name, data)
}

// discarded reports whether the request went away before its fetches
// completed. Nothing is rendered for a discarded request.
func discarded(c *gin.Context, err error) bool {
	if errors.Is(err, view.ErrDiscarded) {
		c.Abort()
		return true
	}
	return false
}

// renderError logs err and renders the generic error page.
func renderError(c *gin.Context, log zerolog.Logger, err error) {
	if discarded(c, err) {
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Page failed")
	renderPage(c, http.StatusInternalServerError, "error", "Error", "", gin.H{
		"Message": "Something went wrong. Please try again later.",
	})
}

// postedFields returns the first value of every posted form field.
func postedFields(c *gin.Context) map[string]string {
	out := make(map[string]string)
	if err := c.Request.ParseForm(); err != nil {
		return out
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// bindQuery reads the list filter from the query string. An empty field
// selector means every field.
func bindQuery(c *gin.Context) view.Query {
	var q view.Query
	_ = c.ShouldBindQuery(&q)
	if q.Field == "" {
		q.Field = view.FieldAll
	}
	return q
}

// NoRoute renders the not-found page for unknown paths.
func NoRoute(c *gin.Context) {
	renderPage(c, http.StatusNotFound, "not_found", "Not Found", "", gin.H{
		"Missing": notFoundPanel{Text: "Page not found.", Back: "/", BackLabel: "Dashboard"},
	})
}

func formStatus(f *view.Form) int {
	switch {
	case f.NotFound:
		return http.StatusNotFound
	case !f.Valid():
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

// renderList renders a list page. Every held item is written out and the ones
// that fail the filter are hidden, so the live filter can toggle rows by key.
func renderList[T view.Keyed](c *gin.Context, list *view.ListController[T], st *view.ListState[T], q view.Query, title string, semesters []string) {
	visible := list.Visible(st, q)
	shown := make(map[string]bool, len(visible))
	for _, it := range visible {
		shown[it.Key()] = true
	}

	status := http.StatusOK
	if st.Status == view.StatusError && len(st.Items) == 0 {
		status = http.StatusBadGateway
	}

	renderPage(c, status, list.Kind(), title, list.Kind(), gin.H{
		"State": st,
		"All":   st.Items,
		"Shown": shown,
		"Filter": filterBar{
			Action:    "/" + list.Kind(),
			ViewID:    st.ViewID,
			Query:     q,
			Fields:    list.Fields().Names(),
			Semesters: semesters,
		},
	})
}

// deleteFromList deletes key through the list page mounted as viewID. On
// success it redirects back to the list; on failure the list is rendered with
// the error banner and its items intact.
func deleteFromList[T view.Keyed](c *gin.Context, list *view.ListController[T], key, title string, log zerolog.Logger, semesters func([]T) []string) {
	st, err := list.Delete(c.Request.Context(), c.PostForm("view"), key)
	if err != nil {
		renderError(c, log, err)
		return
	}
	if st.Status == view.StatusError {
		var sems []string
		if semesters != nil {
			sems = semesters(st.Items)
		}
		renderList(c, list, st, view.Query{Field: view.FieldAll}, title, sems)
		return
	}
	c.Redirect(http.StatusSeeOther, "/"+list.Kind()+"?view="+st.ViewID)
}
