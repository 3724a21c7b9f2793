package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/filestore"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/response"
	"github.com/stemsi/notes-backend/internal/service"
	"github.com/stemsi/notes-backend/internal/validator"
)

type ContentHandler struct {
	notes
}

func NewContentHandler(catalog *service.Catalog, files Attachments, links Links, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{notes: newNotes(catalog, files, links, log, "content_handler")}
}

func (h *ContentHandler) view(ct model.Content) model.Content {
	ct.ContentImage = h.links.URL(ct.ContentImage)
	ct.ContentPDF = h.links.URL(ct.ContentPDF)
	return ct
}

func contentUploads() (image, pdf *upload) {
	return &upload{field: "content_image", dir: filestore.ContentDir},
		&upload{field: "content_pdf", dir: filestore.ContentDir}
}

// Create godoc
// POST /notes/content
func (h *ContentHandler) Create(c *gin.Context) {
	var req model.CreateContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	image, pdf := contentUploads()
	if err := h.stageUploads(c, image, pdf); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := h.catalog.Contents.Save(c.Request.Context(), &model.Content{
		ContentTitle: req.ContentTitle,
		ContentText:  req.ContentText,
		ContentImage: image.path,
		ContentPDF:   pdf.path,
		SubjectID:    req.SubjectID,
	})
	if err != nil {
		h.discard(image, pdf)
		response.Error(c, err)
		return
	}
	if err := h.commit(image, pdf); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, location("content", saved.ID))
}

// Get godoc
// GET /notes/content/:id
func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	content, err := h.catalog.Contents.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.view(*content))
}

// List godoc
// GET /notes/content?content_title=&subject_id=
func (h *ContentHandler) List(c *gin.Context) {
	var filter model.ContentFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.Validation(c, fields)
		return
	}

	contents, err := h.catalog.Contents.ListByFilter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]model.Content, 0, len(contents))
	for _, content := range contents {
		views = append(views, h.view(content))
	}
	response.OK(c, views)
}

// Update godoc
// PUT /notes/content/:id
//
// Only the fields present in the form change. New files replace the stored
// ones in the same update.
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	ctx := c.Request.Context()
	current, err := h.catalog.Contents.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	image, pdf := contentUploads()
	if err := h.stageUploads(c, image, pdf); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.catalog.Contents.Update(ctx, id, model.ContentPatch{
		ContentTitle: req.ContentTitle,
		ContentText:  req.ContentText,
		ContentImage: image.path,
		ContentPDF:   pdf.path,
		SubjectID:    req.SubjectID,
	})
	if err != nil {
		h.discard(image, pdf)
		response.Error(c, err)
		return
	}
	if err := h.commit(image, pdf); err != nil {
		response.Error(c, err)
		return
	}
	h.removeReplaced(current.ContentImage, image)
	h.removeReplaced(current.ContentPDF, pdf)
	response.OK(c, h.view(*updated))
}

// Delete godoc
// DELETE /notes/content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	content, err := h.catalog.Contents.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalog.Contents.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}
	h.removeAll(content.Attachments())
	response.Done(c)
}
