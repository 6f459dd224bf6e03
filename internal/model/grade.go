package model

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// GradeID is the backend's opaque surrogate key for a grade record.
// The backend emits it as a number; the console only ever echoes it back
// into URLs, so it is held as a string.
type GradeID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *GradeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = GradeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = GradeID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids back as numbers. Anything else,
// such as "007" or "+7", stays a string.
func (id GradeID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Grade is one student's result in one course for one semester.
// Student and Course are filled only when the backend embeds them.
type Grade struct {
	ID         GradeID  `json:"id,omitempty"`
	StudentID  string   `json:"student_id"`
	CourseCode string   `json:"course_code"`
	Semester   string   `json:"semester"`
	Grade      *float64 `json:"grade"`
	Date       string   `json:"date"`
	Student    *Student `json:"student,omitempty"`
	Course     *Course  `json:"course,omitempty"`
}

// Key returns the grade's surrogate id.
func (g Grade) Key() string { return string(g.ID) }

// Credits returns the embedded course's credit count, or 0 when unknown.
func (g Grade) Credits() int {
	if g.Course == nil {
		return 0
	}
	return g.Course.Credits
}

// UnmarshalJSON also accepts the backend's grade_id spelling of the id.
func (g *Grade) UnmarshalJSON(data []byte) error {
	type alias Grade
	aux := struct {
		*alias
		GradeID GradeID `json:"grade_id"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = aux.GradeID
	}
	return nil
}

// GradePayload is the JSON/WS binding shape for a grade draft.
type GradePayload struct {
	StudentID  string   `json:"student_id" binding:"required,student_id"`
	CourseCode string   `json:"course_code" binding:"required,course_code"`
	Semester   string   `json:"semester" binding:"required"`
	Grade      *float64 `json:"grade" binding:"omitempty,grade"`
	Date       string   `json:"date" binding:"required,datetime=2006-01-02"`
}
