package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

const defaultOperationTimeout = 5 * time.Second

// withTimeout bounds one service operation; a deadline surfaces as a retryable error.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultOperationTimeout
	}
	return context.WithTimeout(ctx, d)
}

// callerID resolves the verified caller. Anonymous requests fail with unauthorized.
func callerID(ctx context.Context, op string) (string, error) {
	id := ctxutil.GetIdentity(ctx)
	if id == nil {
		return "", domainagg.NewError(domainagg.CodeUnauthorized, op, "not authenticated", nil)
	}
	return strings.TrimSpace(id.UserID), nil
}

// mapReadErr maps repository read failures through the aggregate taxonomy.
func mapReadErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return aggregates.MapError(op, err)
}

func notFound(op, what string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, what+" not found", nil)
}

func forbidden(op, msg string) error {
	return domainagg.NewError(domainagg.CodeForbidden, op, msg, nil)
}

func notEnrolled(op string) error {
	return domainagg.NewError(domainagg.CodeNotEnrolled, op, "not enrolled in this course", nil)
}

func validation(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

// courseAudience answers who the caller is with respect to one course.
type courseAudience struct {
	Course     *types.Course
	IsOwner    bool
	Enrollment *types.Enrollment
}

// loadCourseAudience loads the course and the caller's relation to it. Students only
// see published courses; the owner (stored ADMIN role) sees their own drafts.
func loadCourseAudience(dbc dbctx.Context, op string, users repos.UserRepo, courses repos.CourseRepo, enrollments repos.EnrollmentRepo, userID string, courseID uuid.UUID) (*courseAudience, error) {
	course, err := courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if course == nil {
		return nil, notFound(op, "course")
	}
	isOwner := false
	if course.OwnerUserID == userID {
		u, err := users.GetByID(dbc, userID)
		if err != nil {
			return nil, mapReadErr(op, err)
		}
		isOwner = u.IsAdmin()
	}
	if !course.IsPublished && !isOwner {
		return nil, notFound(op, "course")
	}
	enrollment, err := enrollments.Get(dbc, userID, courseID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return &courseAudience{Course: course, IsOwner: isOwner, Enrollment: enrollment}, nil
}

// requireAdmin checks the caller's stored role; client-supplied role hints are never consulted.
func requireAdmin(dbc dbctx.Context, op string, users repos.UserRepo, userID string) (*types.User, error) {
	u, err := users.GetByID(dbc, userID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if !u.IsAdmin() {
		return nil, forbidden(op, "admin role required")
	}
	return u, nil
}
