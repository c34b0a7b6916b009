package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

type CourseHandler struct {
	log     *logger.Logger
	courses services.CourseService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), courses: courses}
}

// GET /api/courses?limit=
func (h *CourseHandler) ListPublishedCourses(c *gin.Context) {
	rows, err := h.courses.ListPublishedCourses(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": rows})
}

// GET /api/courses/mine
func (h *CourseHandler) ListMyCourses(c *gin.Context) {
	rows, err := h.courses.ListMyCourses(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": rows})
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	course, err := h.courses.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	view, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, view)
}

// PATCH /api/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req services.UpdateCourseInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	course, err := h.courses.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /api/courses/:id/publish
func (h *CourseHandler) PublishCourse(c *gin.Context) { h.setCoursePublished(c, true) }

// POST /api/courses/:id/unpublish
func (h *CourseHandler) UnpublishCourse(c *gin.Context) { h.setCoursePublished(c, false) }

func (h *CourseHandler) setCoursePublished(c *gin.Context, published bool) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	course, err := h.courses.SetCoursePublished(c.Request.Context(), id, published)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /api/courses/:id/chapters
func (h *CourseHandler) CreateChapter(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req services.CreateChapterInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	chapter, err := h.courses.CreateChapter(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"chapter": chapter})
}

// PUT /api/courses/:id/chapters/order
// body: { "chapter_ids": ["...", "..."] }
func (h *CourseHandler) ReorderChapters(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req struct {
		ChapterIDs []uuid.UUID `json:"chapter_ids" binding:"required"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	chapters, err := h.courses.ReorderChapters(c.Request.Context(), id, req.ChapterIDs)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

// PATCH /api/chapters/:id
func (h *CourseHandler) UpdateChapter(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req services.UpdateChapterInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	chapter, err := h.courses.UpdateChapter(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": chapter})
}

// DELETE /api/chapters/:id
func (h *CourseHandler) DeleteChapter(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	if err := h.courses.DeleteChapter(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/chapters/:id/publish
func (h *CourseHandler) PublishChapter(c *gin.Context) { h.setChapterPublished(c, true) }

// POST /api/chapters/:id/unpublish
func (h *CourseHandler) UnpublishChapter(c *gin.Context) { h.setChapterPublished(c, false) }

func (h *CourseHandler) setChapterPublished(c *gin.Context, published bool) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	chapter, err := h.courses.SetChapterPublished(c.Request.Context(), id, published)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": chapter})
}

// PUT /api/chapters/:id/assessment
func (h *CourseHandler) UpsertAssessment(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req services.UpsertAssessmentInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	assessment, err := h.courses.UpsertAssessment(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": assessment})
}

// DELETE /api/chapters/:id/assessment
func (h *CourseHandler) DeleteAssessment(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	if err := h.courses.DeleteAssessment(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
