package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type ChapterProgressView struct {
	ChapterID       uuid.UUID               `json:"chapter_id"`
	CourseID        uuid.UUID               `json:"course_id"`
	State           types.ChapterState      `json:"state"`
	Progress        *types.ChapterProgress  `json:"progress"`
	BecameCompleted bool                    `json:"became_completed"`
	Completion      types.CompletionSummary `json:"completion"`
	Access          types.AccessView        `json:"access"`
}

type ProgressService interface {
	MarkChapterWatched(ctx context.Context, chapterID uuid.UUID) (*ChapterProgressView, error)
}

type ProgressServiceDeps struct {
	Log       *logger.Logger
	Metrics   *observability.Metrics
	Aggregate domainagg.ProgressAggregate
	Access    AccessService
	Notifier  LearningNotifier
	Timeout   time.Duration
}

type progressService struct {
	log     *logger.Logger
	metrics *observability.Metrics
	agg     domainagg.ProgressAggregate
	access  AccessService
	notify  LearningNotifier
	timeout time.Duration
}

func NewProgressService(deps ProgressServiceDeps) ProgressService {
	return &progressService{
		log:     deps.Log.With("service", "ProgressService"),
		metrics: deps.Metrics,
		agg:     deps.Aggregate,
		access:  deps.Access,
		notify:  deps.Notifier,
		timeout: deps.Timeout,
	}
}

func (s *progressService) MarkChapterWatched(ctx context.Context, chapterID uuid.UUID) (*ChapterProgressView, error) {
	const op = "Learning.Progress.MarkChapterWatched"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.agg.MarkChapterWatched(opCtx, domainagg.MarkChapterWatchedInput{UserID: userID, ChapterID: chapterID})
	if err != nil {
		return nil, err
	}
	s.metrics.IncChapterTransition(string(res.From), string(res.To))

	view, err := s.access.EvaluateFor(opCtx, userID, res.CourseID)
	if err != nil {
		return nil, err
	}
	if res.From != res.To && s.notify != nil {
		s.notify.ChapterProgress(ctx, userID, res.CourseID, res.Progress, res.BecameCompleted, view)
	}
	return &ChapterProgressView{
		ChapterID:       chapterID,
		CourseID:        res.CourseID,
		State:           res.To,
		Progress:        res.Progress,
		BecameCompleted: res.BecameCompleted,
		Completion:      view.Completion,
		Access:          view,
	}, nil
}
