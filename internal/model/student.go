package model

// Student is a student record as served by the records backend.
// StudentID is the natural key and never changes after creation.
type Student struct {
	StudentID      string `json:"student_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	DateOfBirth    string `json:"date_of_birth"`
	EnrollmentDate string `json:"enrollment_date"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}

// Key returns the student's natural key.
func (s Student) Key() string { return s.StudentID }

// StudentPayload is the JSON/WS binding shape for a student draft.
type StudentPayload struct {
	StudentID      string `json:"student_id" binding:"required,student_id"`
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	DateOfBirth    string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	EnrollmentDate string `json:"enrollment_date" binding:"required,datetime=2006-01-02"`
	Address        string `json:"address" binding:"omitempty,max=500"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
}
