package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/filestore"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/response"
	"github.com/stemsi/notes-backend/internal/service"
	"github.com/stemsi/notes-backend/internal/validator"
)

type SubjectHandler struct {
	notes
}

func NewSubjectHandler(catalog *service.Catalog, files Attachments, links Links, log zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{notes: newNotes(catalog, files, links, log, "subject_handler")}
}

func (h *SubjectHandler) view(s model.Subject) model.Subject {
	s.SubjectImage = h.links.URL(s.SubjectImage)
	return s
}

// Create godoc
// POST /notes/subject
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	image := &upload{field: "file", dir: filestore.SubjectDir}
	if err := h.stageUploads(c, image); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := h.catalog.Subjects.Save(c.Request.Context(), &model.Subject{
		SubjectName:  req.SubjectName,
		SubjectImage: image.path,
		CourseID:     req.CourseID,
	})
	if err != nil {
		h.discard(image)
		response.Error(c, err)
		return
	}
	if err := h.commit(image); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, location("subject", saved.ID))
}

// Get godoc
// GET /notes/subject/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	subject, err := h.catalog.Subjects.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.view(*subject))
}

// List godoc
// GET /notes/subject?subject_name=&course_id=
func (h *SubjectHandler) List(c *gin.Context) {
	var filter model.SubjectFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.Validation(c, fields)
		return
	}

	subjects, err := h.catalog.Subjects.ListByFilter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]model.Subject, 0, len(subjects))
	for _, subject := range subjects {
		views = append(views, h.view(subject))
	}
	response.OK(c, views)
}

// Update godoc
// PUT /notes/subject/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	ctx := c.Request.Context()
	current, err := h.catalog.Subjects.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	image := &upload{field: "file", dir: filestore.SubjectDir}
	if err := h.stageUploads(c, image); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.catalog.Subjects.Update(ctx, id, model.SubjectPatch{
		SubjectName:  req.SubjectName,
		SubjectImage: image.path,
		CourseID:     req.CourseID,
	})
	if err != nil {
		h.discard(image)
		response.Error(c, err)
		return
	}
	if err := h.commit(image); err != nil {
		response.Error(c, err)
		return
	}
	h.removeReplaced(current.SubjectImage, image)
	response.OK(c, h.view(*updated))
}

// Delete godoc
// DELETE /notes/subject/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	subject, err := h.catalog.Subjects.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	children, err := contentAttachments(ctx, h.catalog, []model.Subject{*subject})
	if err != nil {
		response.Error(c, err)
		return
	}
	paths := append(subject.Attachments(), children...)

	if err := h.catalog.Subjects.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}
	h.removeAll(paths)
	response.Done(c)
}

// contentAttachments lists the attachment paths of every content under subjects.
func contentAttachments(ctx context.Context, catalog *service.Catalog, subjects []model.Subject) ([]string, error) {
	if len(subjects) == 0 {
		return nil, nil
	}
	ids := make(map[int]bool, len(subjects))
	for _, s := range subjects {
		ids[s.ID] = true
	}

	contents, err := catalog.Contents.ListByFilter(ctx, matchFunc[model.Content](func(ct *model.Content) bool {
		return ids[ct.SubjectID]
	}))
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, ct := range contents {
		paths = append(paths, ct.Attachments()...)
	}
	return paths, nil
}
