package attendance

import "time"

// Record is one daily attendance row. Records are read-only input; the
// recording subsystem guarantees at most one row per (student, course, date).
type Record struct {
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	Date      time.Time `json:"date"`
	State     State     `json:"state"`

	// JustificationReason is only meaningful when State is justified.
	JustificationReason *string `json:"justification_reason,omitempty"`
	// ExclusionReason is only meaningful when State is excluded.
	ExclusionReason *string `json:"exclusion_reason,omitempty"`
	// OtherReasonText refines the label of the "otro" reason code.
	OtherReasonText *string `json:"other_reason_text,omitempty"`
}

// Student is a roster entry.
type Student struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	Surname    string `json:"surname"`
	DocumentID string `json:"document_id,omitempty"`
}

// FullName returns "Surname, GivenName".
func (s Student) FullName() string {
	if s.GivenName == "" {
		return s.Surname
	}
	if s.Surname == "" {
		return s.GivenName
	}
	return s.Surname + ", " + s.GivenName
}

// Course is a class group attended daily.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
