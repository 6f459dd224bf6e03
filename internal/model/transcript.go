package model

// Transcript is a student's grade record for display or export, optionally
// narrowed to one semester. GPA is meaningful only when HasGPA is true.
type Transcript struct {
	Student      Student
	Grades       []Grade
	Semesters    []string
	Semester     string
	GPA          float64
	HasGPA       bool
	TotalCredits int
}

// TranscriptEmailJob is the queued request to e-mail a transcript.
type TranscriptEmailJob struct {
	StudentID   string `json:"student_id"`
	Semester    string `json:"semester,omitempty"`
	To          string `json:"to"`
	RequestedAt string `json:"requested_at"`
	RequestID   string `json:"request_id,omitempty"`
}
