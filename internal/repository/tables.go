package repository

import "github.com/stemsi/notes-backend/internal/model"

// Table binds an entity kind to its relational table.
type Table[T model.Entity] struct {
	Name string
	// Columns lists the non-key columns in the order Values returns them.
	Columns []string
	Values  func(*T) []any
	// Key points at the entity's primary key field.
	Key func(*T) *int
}

var Courses = Table[model.Course]{
	Name:    "course",
	Columns: []string{"course_name", "course_image"},
	Values: func(c *model.Course) []any {
		return []any{c.CourseName, c.CourseImage}
	},
	Key: func(c *model.Course) *int { return &c.ID },
}

var Subjects = Table[model.Subject]{
	Name:    "subject",
	Columns: []string{"subject_name", "subject_image", "course_id"},
	Values: func(s *model.Subject) []any {
		return []any{s.SubjectName, s.SubjectImage, s.CourseID}
	},
	Key: func(s *model.Subject) *int { return &s.ID },
}

var Contents = Table[model.Content]{
	Name:    "content",
	Columns: []string{"content_title", "content_text", "content_image", "content_pdf", "subject_id"},
	Values: func(c *model.Content) []any {
		return []any{c.ContentTitle, c.ContentText, c.ContentImage, c.ContentPDF, c.SubjectID}
	},
	Key: func(c *model.Content) *int { return &c.ID },
}
