package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/view"
)

func do(f *fixture, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func doJSON(f *fixture, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total Students")
	assert.Contains(t, w.Body.String(), `<p class="count">2</p>`)
}

func TestStudentListHidesNonMatchingRows(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/students?q=turing&field=name", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<tr data-key="S10001" hidden>`)
	assert.Contains(t, body, `<tr data-key="S10002">`)
	assert.Contains(t, body, "Alan Turing")
}

func TestLiveFilterKeys(t *testing.T) {
	f := newFixture()
	st, err := f.courseList.Mount(context.Background())
	require.NoError(t, err)

	w := do(f, http.MethodGet, "/api/views/"+st.ViewID+"/keys?q=calc&field=name", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, []string{"MA201"}, data.Keys)
}

func TestLiveFilterExpiredView(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/api/views/gone/keys?q=x", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VIEW_EXPIRED", env.Error.Code)
}

func TestStudentDetail(t *testing.T) {
	f := newFixture()

	w := do(f, http.MethodGet, "/students/S10001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
	assert.Contains(t, w.Body.String(), "Calculus II")

	w = do(f, http.MethodGet, "/students/S99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Student not found or has been deleted.")
}

func TestStudentSubmit(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		status   int
		contains string
		created  int
	}{
		{
			name:     "missing fields",
			form:     url.Values{"student_id": {"S12345"}},
			status:   http.StatusUnprocessableEntity,
			contains: view.FormInvalidMessage,
		},
		{
			name: "bad id",
			form: url.Values{
				"student_id": {"X1"}, "first_name": {"Grace"}, "last_name": {"Hopper"},
				"email": {"grace@example.com"}, "date_of_birth": {"2004-12-09"}, "enrollment_date": {"2023-09-01"},
			},
			status:   http.StatusUnprocessableEntity,
			contains: "Student ID must start with S followed by 5+ digits",
		},
		{
			name: "created",
			form: url.Values{
				"student_id": {"S10003"}, "first_name": {"Grace"}, "last_name": {"Hopper"},
				"email": {"grace@example.com"}, "date_of_birth": {"2004-12-09"}, "enrollment_date": {"2023-09-01"},
			},
			status:   http.StatusOK,
			contains: `data-redirect="/students/S10003"`,
			created:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			w := do(f, http.MethodPost, "/students/new/edit", tt.form)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
			assert.Len(t, f.students.created, tt.created)
		})
	}
}

func TestStudentEditUnknown(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/students/S99999/edit", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Back to Students")
}

func TestStudentDeleteFromList(t *testing.T) {
	f := newFixture()
	st, err := f.studentList.Mount(context.Background())
	require.NoError(t, err)

	w := do(f, http.MethodGet, "/students/S10002/delete?view="+st.ViewID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student S10002")

	w = do(f, http.MethodPost, "/students/S10002/delete", url.Values{"view": {st.ViewID}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/students?view="+st.ViewID, w.Header().Get("Location"))

	keys, err := f.studentList.VisibleKeys(context.Background(), st.ViewID, view.Query{Field: view.FieldAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"S10001"}, keys)
}

func TestStudentDeleteFromProfile(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodPost, "/students/S10001/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/students", w.Header().Get("Location"))

	f.students.deleteErr = errors.New("backend down")
	w = do(f, http.MethodPost, "/students/S10001/delete", url.Values{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
}

func TestValidateEndpoint(t *testing.T) {
	f := newFixture()

	w := doJSON(f, "/api/validate/courses", `{"course_code":"calc1","name":"","credits":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Course code must be in the format ABC123", env.Error.Fields["course_code"])
	assert.Contains(t, env.Error.Fields, "name")
	assert.Contains(t, env.Error.Fields, "credits")

	w = doJSON(f, "/api/validate/courses", `{"course_code":"CS102","name":"Systems","credits":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true}`, string(decode(t, w).Data))

	w = doJSON(f, "/api/validate/teachers", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranscriptPage(t *testing.T) {
	f := newFixture()

	w := do(f, http.MethodGet, "/transcript?student_id=S10001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3.43")

	w = do(f, http.MethodGet, "/transcript?student_id=S99999", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), view.MsgTranscriptNotFound)
}

func TestTranscriptPDFWithoutFont(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/transcript/S10001/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTranscriptEmail(t *testing.T) {
	f := newFixture()

	w := do(f, http.MethodPost, "/transcript/S10001/email", url.Values{"to": {"not-an-address"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(f, http.MethodPost, "/transcript/S10001/email", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/transcript?queued=ada%40example.com&student_id=S10001", w.Header().Get("Location"))

	job, err := f.queue.TryDequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "S10001", job.StudentID)
	assert.Equal(t, "ada@example.com", job.To)
}

func TestGradeExport(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/grades/export.xlsx?semester=Fall+2024", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "grades_")
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestNoRoute(t *testing.T) {
	f := newFixture()
	w := do(f, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found.")
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		status int
		state  string
	}{
		{name: "memory", store: nil, status: http.StatusOK, state: "memory"},
		{name: "redis up", store: PingFunc(func(context.Context) error { return nil }), status: http.StatusOK, state: "ok"},
		{name: "redis down", store: PingFunc(func(context.Context) error { return errors.New("refused") }), status: http.StatusServiceUnavailable, state: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(tt.store, repository.NewMemoryEmailQueue(1), zerolog.Nop())
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			var report healthReport
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &report))
			assert.Equal(t, tt.state, report.StateStore)
		})
	}
}
