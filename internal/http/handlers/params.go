package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/apierr"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

// uuidParam parses a path parameter, writing a 400 when it is not a uuid.
func uuidParam(c *gin.Context, log *logger.Logger, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		response.RespondFromError(c, log, apierr.BadRequest(fmt.Errorf("invalid %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, log *logger.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondFromError(c, log, apierr.BadRequest(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
