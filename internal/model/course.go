package model

// Course is a course record. CourseCode is the natural key.
type Course struct {
	CourseCode    string `json:"course_code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Credits       int    `json:"credits"`
	Department    string `json:"department"`
	Prerequisites string `json:"prerequisites"`
}

// Key returns the course's natural key.
func (c Course) Key() string { return c.CourseCode }

// CoursePayload is the JSON/WS binding shape for a course draft.
type CoursePayload struct {
	CourseCode    string `json:"course_code" binding:"required,course_code"`
	Name          string `json:"name" binding:"required,max=200"`
	Description   string `json:"description" binding:"omitempty,max=2000"`
	Credits       int    `json:"credits" binding:"required,min=1,max=6"`
	Department    string `json:"department" binding:"omitempty,max=100"`
	Prerequisites string `json:"prerequisites" binding:"omitempty,max=200"`
}
