package model

// Course is the top of the catalog tree. Deleting a course cascades to its
// subjects and their contents.
type Course struct {
	ID          int     `json:"id" db:"id"`
	CourseName  string  `json:"course_name" db:"course_name"`
	CourseImage *string `json:"course_image" db:"course_image"`
}

// Attachments returns the stored file paths owned by the course.
func (c Course) Attachments() []string {
	return attachments(c.CourseImage)
}

// CreateCourseRequest is the form payload for creating a course.
type CreateCourseRequest struct {
	CourseName string `form:"course_name" binding:"required,max=255"`
}

// UpdateCourseRequest is the form payload for updating a course.
type UpdateCourseRequest struct {
	CourseName *string `form:"course_name" binding:"omitempty,min=1,max=255"`
}

// CoursePatch holds the course fields to change.
type CoursePatch struct {
	CourseName  *string
	CourseImage *string
}

func (p CoursePatch) Apply(c *Course) {
	if p.CourseName != nil {
		c.CourseName = *p.CourseName
	}
	if p.CourseImage != nil {
		c.CourseImage = p.CourseImage
	}
}

// CourseFilter is bound from the course list query string.
type CourseFilter struct {
	CourseName *string `form:"course_name"`
}

func (f CourseFilter) Match(c *Course) bool {
	return matchString(f.CourseName, c.CourseName)
}
