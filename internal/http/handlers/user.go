package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/users/:id/role
// body: { "role": "STUDENT" | "ADMIN" }
func (uh *UserHandler) SetUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if !bindJSON(c, uh.log, &req) {
		return
	}
	u, err := uh.userService.SetUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		response.RespondFromError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}
