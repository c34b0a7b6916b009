package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

// SSEClient is one open event stream. UserID is the auth subject the stream belongs to.
type SSEClient struct {
	ID       uuid.UUID
	UserID   string
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}

// UserChannel is the per-user channel every stream of that user is subscribed to.
func UserChannel(userID string) string {
	return "user:" + userID
}
