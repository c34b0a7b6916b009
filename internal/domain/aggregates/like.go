package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/community"
)

const OpToggleLike = "Community.Like.Toggle"

var LikeAggregateContract = Contract{
	Name:   "Community.LikeAggregate",
	Writes: []string{OpToggleLike},
	Tables: []string{"discussion_like"},
	Notes:  "A lost duplicate-insert race resolves to liked.",
}

// LikeAggregate owns the like toggle.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeRetryable, CodeInternal.
type LikeAggregate interface {
	Aggregate

	Toggle(ctx context.Context, in ToggleLikeInput) (ToggleLikeResult, error)
}

type ToggleLikeInput struct {
	UserID     string
	TargetID   uuid.UUID
	TargetKind community.LikeTargetKind
	At         time.Time
}

type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
