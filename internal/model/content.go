package model

// Content is a single note under a subject: a title, optional long text and
// optional image and PDF attachments.
type Content struct {
	ID           int     `json:"id" db:"id"`
	ContentTitle string  `json:"content_title" db:"content_title"`
	ContentText  *string `json:"content_text" db:"content_text"`
	ContentImage *string `json:"content_image" db:"content_image"`
	ContentPDF   *string `json:"content_pdf" db:"content_pdf"`
	SubjectID    int     `json:"subject_id" db:"subject_id"`
}

// Attachments returns the stored file paths owned by the content.
func (c Content) Attachments() []string {
	return attachments(c.ContentImage, c.ContentPDF)
}

// CreateContentRequest is the form payload for creating a content.
type CreateContentRequest struct {
	ContentTitle string  `form:"content_title" binding:"required,max=255"`
	ContentText  *string `form:"content_text"`
	SubjectID    int     `form:"subject_id" binding:"required,gt=0"`
}

// UpdateContentRequest is the form payload for updating a content. Only the
// fields present in the form are changed.
type UpdateContentRequest struct {
	ContentTitle *string `form:"content_title" binding:"omitempty,min=1,max=255"`
	ContentText  *string `form:"content_text"`
	SubjectID    *int    `form:"subject_id" binding:"omitempty,gt=0"`
}

// ContentPatch holds the content fields to change.
type ContentPatch struct {
	ContentTitle *string
	ContentText  *string
	ContentImage *string
	ContentPDF   *string
	SubjectID    *int
}

func (p ContentPatch) Apply(c *Content) {
	if p.ContentTitle != nil {
		c.ContentTitle = *p.ContentTitle
	}
	if p.ContentText != nil {
		c.ContentText = p.ContentText
	}
	if p.ContentImage != nil {
		c.ContentImage = p.ContentImage
	}
	if p.ContentPDF != nil {
		c.ContentPDF = p.ContentPDF
	}
	if p.SubjectID != nil {
		c.SubjectID = *p.SubjectID
	}
}

// ContentFilter is bound from the content list query string.
type ContentFilter struct {
	ContentTitle *string `form:"content_title"`
	SubjectID    *int    `form:"subject_id"`
}

func (f ContentFilter) Match(c *Content) bool {
	return matchString(f.ContentTitle, c.ContentTitle) && matchID(f.SubjectID, c.SubjectID)
}
