package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime"
)

const defaultTopicPrefix = "courseware:sse"

// redisBus publishes each message on "<prefix>:<hub channel>" so redis-cli can watch one
// learner ("<prefix>:user:<id>") or every stream ("<prefix>:*").
type redisBus struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisBus shares rdb with the rest of the process and never closes it.
func NewRedisBus(log *logger.Logger, rdb goredis.UniversalClient, prefix string) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return &redisBus{log: log.With("service", "RedisSSEBus"), rdb: rdb, prefix: prefix}, nil
}

func topicFor(prefix, channel string) string {
	return prefix + ":" + channel
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if strings.TrimSpace(msg.Channel) == "" {
		return fmt.Errorf("sse message has no channel")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode sse message: %w", err)
	}
	return b.rdb.Publish(ctx, topicFor(b.prefix, msg.Channel), raw).Err()
}

// StartForwarder pattern-subscribes to every topic under the prefix and returns once the
// subscription is confirmed. Delivery stops when ctx is done.
func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	sub := b.rdb.PSubscribe(ctx, topicFor(b.prefix, "*"))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis psubscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				msg, err := decodeMessage(b.prefix, m)
				if err != nil {
					b.log.Warn("dropping redis SSE payload", "topic", m.Channel, "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}

// decodeMessage falls back to the topic suffix when the payload carries no channel.
func decodeMessage(prefix string, m *goredis.Message) (realtime.SSEMessage, error) {
	var msg realtime.SSEMessage
	if m == nil {
		return msg, fmt.Errorf("nil message")
	}
	if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
		return msg, err
	}
	if msg.Channel == "" {
		msg.Channel = strings.TrimPrefix(m.Channel, prefix+":")
	}
	return msg, nil
}

func (b *redisBus) Close() error { return nil }
