package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

// LearningHandler serves the learner side: enrollment, progress, assessments, the
// access gate and certificates.
type LearningHandler struct {
	log          *logger.Logger
	enrollment   services.EnrollmentService
	progress     services.ProgressService
	assessments  services.AssessmentService
	access       services.AccessService
	certificates services.CertificateService
}

type LearningHandlerDeps struct {
	Log          *logger.Logger
	Enrollment   services.EnrollmentService
	Progress     services.ProgressService
	Assessments  services.AssessmentService
	Access       services.AccessService
	Certificates services.CertificateService
}

func NewLearningHandler(deps LearningHandlerDeps) *LearningHandler {
	return &LearningHandler{
		log:          deps.Log.With("handler", "LearningHandler"),
		enrollment:   deps.Enrollment,
		progress:     deps.Progress,
		assessments:  deps.Assessments,
		access:       deps.Access,
		certificates: deps.Certificates,
	}
}

// POST /api/courses/:id/enroll
func (h *LearningHandler) Enroll(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollment.Enroll(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// GET /api/enrollments
func (h *LearningHandler) ListMyEnrollments(c *gin.Context) {
	rows, err := h.enrollment.ListMyEnrollments(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": rows})
}

// POST /api/chapters/:id/watched
func (h *LearningHandler) MarkChapterWatched(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	view, err := h.progress.MarkChapterWatched(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/courses/:id/completion
func (h *LearningHandler) GetCourseCompletion(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	summary, err := h.access.GetCourseCompletion(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/courses/:id/access
func (h *LearningHandler) GetAccess(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	view, err := h.access.GetAccess(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/courses/:id/research
func (h *LearningHandler) GetResearchPage(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	page, err := h.access.GetResearchPage(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/chapters/:id/assessment
func (h *LearningHandler) GetAssessment(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	a, err := h.assessments.GetAssessmentForStudent(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, a)
}

// POST /api/assessments/:id/submissions
// body: { "answers": ["...", "..."] }
func (h *LearningHandler) SubmitAssessment(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req struct {
		Answers []string `json:"answers"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	view, err := h.assessments.SubmitAssessment(c.Request.Context(), id, req.Answers)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, view)
}

// GET /api/assessments/:id/results
func (h *LearningHandler) ListMyResults(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	rows, err := h.assessments.ListMyResults(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"results": rows})
}

// POST /api/courses/:id/certificate
func (h *LearningHandler) IssueCertificate(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	cert, err := h.certificates.IssueCertificate(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"certificate": cert})
}

// GET /api/courses/:id/certificate.png
func (h *LearningHandler) RenderCertificate(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	buf, err := h.certificates.RenderCertificate(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
