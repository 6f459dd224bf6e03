package view

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/service"
)

// nullBackend answers every record fetch with a JSON null and every
// collection with an empty list.
func nullBackend(t *testing.T) (*service.StudentService, *service.CourseService, *service.GradeService) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/grades" {
			_, _ = io.WriteString(w, "[]")
			return
		}
		_, _ = io.WriteString(w, "null")
	}))
	t.Cleanup(srv.Close)

	c := client.NewWithHTTPClient(srv.Client(), zerolog.Nop())
	r := endpoint.NewResolver(srv.URL)
	return service.NewStudentService(c, r), service.NewCourseService(c, r), service.NewGradeService(c, r)
}

func TestNullRecordIsNotFound(t *testing.T) {
	students, courses, grades := nullBackend(t)
	ctx := context.Background()
	details := NewDetails(students, courses, grades, zerolog.Nop())

	sd, err := details.Student(ctx, "S99999", "")
	require.NoError(t, err)
	assert.True(t, sd.NotFound)
	assert.Equal(t, StatusError, sd.Status)
	assert.Nil(t, sd.Student)

	cd, err := details.Course(ctx, "ZZZ999")
	require.NoError(t, err)
	assert.True(t, cd.NotFound)
	assert.Nil(t, cd.Course)

	sf, err := NewStudentForms(students, delay, zerolog.Nop()).Open(ctx, "S99999")
	require.NoError(t, err)
	assert.True(t, sf.NotFound)

	cf, err := NewCourseForms(courses, delay, zerolog.Nop()).Open(ctx, "ZZZ999")
	require.NoError(t, err)
	assert.True(t, cf.NotFound)

	page, err := NewTranscripts(students, grades, zerolog.Nop()).Page(ctx, "S99999", "")
	require.NoError(t, err)
	assert.Equal(t, StatusError, page.Status)
	assert.Equal(t, MsgTranscriptNotFound, page.Message)
	assert.Nil(t, page.Transcript)
}
