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

type CourseHandler struct {
	notes
}

func NewCourseHandler(catalog *service.Catalog, files Attachments, links Links, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{notes: newNotes(catalog, files, links, log, "course_handler")}
}

func (h *CourseHandler) view(c model.Course) model.Course {
	c.CourseImage = h.links.URL(c.CourseImage)
	return c
}

// Create godoc
// POST /notes/course
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	image := &upload{field: "file", dir: filestore.CourseDir}
	if err := h.stageUploads(c, image); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := h.catalog.Courses.Save(c.Request.Context(), &model.Course{
		CourseName:  req.CourseName,
		CourseImage: image.path,
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
	response.Created(c, location("course", saved.ID))
}

// Get godoc
// GET /notes/course/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := h.catalog.Courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.view(*course))
}

// List godoc
// GET /notes/course?course_name=
func (h *CourseHandler) List(c *gin.Context) {
	var filter model.CourseFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.Validation(c, fields)
		return
	}

	courses, err := h.catalog.Courses.ListByFilter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		views = append(views, h.view(course))
	}
	response.OK(c, views)
}

// Update godoc
// PUT /notes/course/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Validation(c, fields)
		return
	}

	ctx := c.Request.Context()
	current, err := h.catalog.Courses.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	image := &upload{field: "file", dir: filestore.CourseDir}
	if err := h.stageUploads(c, image); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.catalog.Courses.Update(ctx, id, model.CoursePatch{
		CourseName:  req.CourseName,
		CourseImage: image.path,
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
	h.removeReplaced(current.CourseImage, image)
	response.OK(c, h.view(*updated))
}

// Delete godoc
// DELETE /notes/course/:id
//
// The rows of the course's subjects and contents go with it; their
// attachments are collected first and removed once the delete succeeded.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	course, err := h.catalog.Courses.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	paths := course.Attachments()
	subjects, err := h.catalog.Subjects.ListByFilter(ctx, matchFunc[model.Subject](func(s *model.Subject) bool {
		return s.CourseID == id
	}))
	if err != nil {
		response.Error(c, err)
		return
	}
	children, err := contentAttachments(ctx, h.catalog, subjects)
	if err != nil {
		response.Error(c, err)
		return
	}
	for _, s := range subjects {
		paths = append(paths, s.Attachments()...)
	}
	paths = append(paths, children...)

	if err := h.catalog.Courses.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}
	h.removeAll(paths)
	response.Done(c)
}
