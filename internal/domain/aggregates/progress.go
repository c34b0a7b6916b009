package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

const OpMarkChapterWatched = "Learning.Progress.MarkChapterWatched"

var ProgressAggregateContract = Contract{
	Name:   "Learning.ProgressAggregate",
	Writes: []string{OpMarkChapterWatched},
	Tables: []string{"chapter_progress"},
	Notes:  "Completion requires the video seen plus a passing result when the chapter is assessed.",
}

// ProgressAggregate owns the per-chapter progress state machine.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeNotEnrolled, CodeRetryable, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	// MarkChapterWatched records the video-watched signal; idempotent and never regresses completion.
	MarkChapterWatched(ctx context.Context, in MarkChapterWatchedInput) (MarkChapterWatchedResult, error)
}

type MarkChapterWatchedInput struct {
	UserID    string
	ChapterID uuid.UUID
	WatchedAt time.Time
}

type MarkChapterWatchedResult struct {
	Progress        *learning.ChapterProgress
	CourseID        uuid.UUID
	From            learning.ChapterState
	To              learning.ChapterState
	BecameCompleted bool
}
