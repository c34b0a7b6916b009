package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

type DiscussionHandler struct {
	log         *logger.Logger
	discussions services.DiscussionService
}

func NewDiscussionHandler(log *logger.Logger, discussions services.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{log: log.With("handler", "DiscussionHandler"), discussions: discussions}
}

type postBody struct {
	Body string `json:"body"`
}

// GET /api/courses/:id/chapters/:chapterId/discussions?limit=
func (h *DiscussionHandler) ListDiscussions(c *gin.Context) {
	courseID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	chapterID, ok := uuidParam(c, h.log, "chapterId")
	if !ok {
		return
	}
	rows, err := h.discussions.ListDiscussions(c.Request.Context(), courseID, chapterID, queryInt(c, "limit", 0))
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"discussions": rows})
}

// POST /api/courses/:id/chapters/:chapterId/discussions
func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	courseID, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	chapterID, ok := uuidParam(c, h.log, "chapterId")
	if !ok {
		return
	}
	var req postBody
	if !bindJSON(c, h.log, &req) {
		return
	}
	d, err := h.discussions.CreateDiscussion(c.Request.Context(), courseID, chapterID, req.Body)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"discussion": d})
}

// GET /api/discussions/:id/replies
func (h *DiscussionHandler) ListReplies(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	rows, err := h.discussions.ListReplies(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"replies": rows})
}

// POST /api/discussions/:id/replies
func (h *DiscussionHandler) CreateReply(c *gin.Context) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	var req postBody
	if !bindJSON(c, h.log, &req) {
		return
	}
	r, err := h.discussions.CreateReply(c.Request.Context(), id, req.Body)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"reply": r})
}

// POST /api/discussions/:id/like
func (h *DiscussionHandler) LikeDiscussion(c *gin.Context) {
	h.toggleLike(c, types.LikeTargetDiscussion)
}

// POST /api/replies/:id/like
func (h *DiscussionHandler) LikeReply(c *gin.Context) {
	h.toggleLike(c, types.LikeTargetReply)
}

func (h *DiscussionHandler) toggleLike(c *gin.Context, kind types.LikeTargetKind) {
	id, ok := uuidParam(c, h.log, "id")
	if !ok {
		return
	}
	res, err := h.discussions.ToggleLike(c.Request.Context(), id, kind)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
