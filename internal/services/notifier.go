package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime"
	"github.com/yungbote/courseware-backend/internal/realtime/bus"
)

// LearningNotifier publishes access-changing events to the learner's open tabs.
// Delivery is best effort; a failed publish never fails the operation that caused it.
type LearningNotifier interface {
	Enrolled(ctx context.Context, userID string, enrollment *types.Enrollment)
	ChapterProgress(ctx context.Context, userID string, courseID uuid.UUID, progress *types.ChapterProgress, becameCompleted bool, access types.AccessView)
	AssessmentGraded(ctx context.Context, userID string, result *types.AssessmentResult, access types.AccessView)
	CertificateIssued(ctx context.Context, userID string, cert *types.Certificate)
}

type learningNotifier struct {
	log *logger.Logger
	bus bus.Bus
}

func NewLearningNotifier(log *logger.Logger, b bus.Bus) LearningNotifier {
	return &learningNotifier{log: log.With("service", "LearningNotifier"), bus: b}
}

func (n *learningNotifier) emit(ctx context.Context, userID string, event realtime.SSEEvent, data map[string]any) {
	if n == nil || n.bus == nil || userID == "" {
		return
	}
	// Detached from the request so a client disconnect does not drop the event.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	err := n.bus.Publish(pubCtx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   event,
		Data:    data,
	})
	if err != nil {
		n.log.Warn("realtime publish failed", "event", event, "user_id", userID, "error", err)
	}
}

func (n *learningNotifier) Enrolled(ctx context.Context, userID string, enrollment *types.Enrollment) {
	if enrollment == nil {
		return
	}
	n.emit(ctx, userID, realtime.SSEEventEnrolled, map[string]any{
		"course_id":  enrollment.CourseID,
		"enrollment": enrollment,
	})
}

func (n *learningNotifier) ChapterProgress(ctx context.Context, userID string, courseID uuid.UUID, progress *types.ChapterProgress, becameCompleted bool, access types.AccessView) {
	if progress == nil {
		return
	}
	event := realtime.SSEEventChapterProgress
	if progress.IsCompleted {
		event = realtime.SSEEventChapterCompleted
	}
	n.emit(ctx, userID, event, map[string]any{
		"course_id":  courseID,
		"chapter_id": progress.ChapterID,
		"progress":   progress,
		"completion": access.Completion,
	})
	// The course completes on the chapter transition that fills the last slot.
	if becameCompleted && access.Completion.AllComplete {
		n.emit(ctx, userID, realtime.SSEEventCourseCompleted, map[string]any{
			"course_id": courseID,
			"access":    access,
		})
	}
}

func (n *learningNotifier) AssessmentGraded(ctx context.Context, userID string, result *types.AssessmentResult, access types.AccessView) {
	if result == nil {
		return
	}
	n.emit(ctx, userID, realtime.SSEEventAssessmentGraded, map[string]any{
		"assessment_id": result.AssessmentID,
		"chapter_id":    result.ChapterID,
		"score":         result.Score,
		"is_passed":     result.IsPassed,
		"completion":    access.Completion,
	})
}

func (n *learningNotifier) CertificateIssued(ctx context.Context, userID string, cert *types.Certificate) {
	if cert == nil {
		return
	}
	n.emit(ctx, userID, realtime.SSEEventCertificateIssued, map[string]any{
		"course_id":   cert.CourseID,
		"certificate": cert,
	})
}
