package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/events/stream
// Every open tab gets its own client on the user's channel.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil {
		response.AbortError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	client := h.hub.NewSSEClient(id.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(id.UserID))
	h.log.Debug("SSEStream open", "user_id", id.UserID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
}
