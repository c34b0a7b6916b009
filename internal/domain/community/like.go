package community

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LikeTargetKind string

const (
	LikeTargetDiscussion LikeTargetKind = "DISCUSSION"
	LikeTargetReply      LikeTargetKind = "REPLY"
)

func ParseLikeTargetKind(raw string) (LikeTargetKind, bool) {
	switch LikeTargetKind(strings.ToUpper(strings.TrimSpace(raw))) {
	case LikeTargetDiscussion:
		return LikeTargetDiscussion, true
	case LikeTargetReply:
		return LikeTargetReply, true
	default:
		return "", false
	}
}

// Like presence is the only representation of "liked"; (user_id, target_id) is unique.
type Like struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_like_user_target,priority:1" json:"user_id"`
	TargetID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_target,priority:2;index" json:"target_id"`
	TargetKind LikeTargetKind `gorm:"column:target_kind;type:varchar(16);not null" json:"target_kind"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

func (Like) TableName() string { return "discussion_like" }
