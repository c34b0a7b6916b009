package bus

import (
	"context"

	"github.com/yungbote/courseware-backend/internal/realtime"
)

// Bus fans realtime messages out across API instances. Every instance runs a
// forwarder that hands received messages to its local SSE hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
