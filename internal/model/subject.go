package model

// Subject belongs to a course and owns contents.
type Subject struct {
	ID           int     `json:"id" db:"id"`
	SubjectName  string  `json:"subject_name" db:"subject_name"`
	SubjectImage *string `json:"subject_image" db:"subject_image"`
	CourseID     int     `json:"course_id" db:"course_id"`
}

// Attachments returns the stored file paths owned by the subject.
func (s Subject) Attachments() []string {
	return attachments(s.SubjectImage)
}

// CreateSubjectRequest is the form payload for creating a subject.
type CreateSubjectRequest struct {
	SubjectName string `form:"subject_name" binding:"required,max=255"`
	CourseID    int    `form:"course_id" binding:"required,gt=0"`
}

// UpdateSubjectRequest is the form payload for updating a subject.
type UpdateSubjectRequest struct {
	SubjectName *string `form:"subject_name" binding:"omitempty,min=1,max=255"`
	CourseID    *int    `form:"course_id" binding:"omitempty,gt=0"`
}

// SubjectPatch holds the subject fields to change.
type SubjectPatch struct {
	SubjectName  *string
	SubjectImage *string
	CourseID     *int
}

func (p SubjectPatch) Apply(s *Subject) {
	if p.SubjectName != nil {
		s.SubjectName = *p.SubjectName
	}
	if p.SubjectImage != nil {
		s.SubjectImage = p.SubjectImage
	}
	if p.CourseID != nil {
		s.CourseID = *p.CourseID
	}
}

// SubjectFilter is bound from the subject list query string.
type SubjectFilter struct {
	SubjectName *string `form:"subject_name"`
	CourseID    *int    `form:"course_id"`
}

func (f SubjectFilter) Match(s *Subject) bool {
	return matchString(f.SubjectName, s.SubjectName) && matchID(f.CourseID, s.CourseID)
}
