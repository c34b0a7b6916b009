package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

const OpEnroll = "Learning.Enrollment.Enroll"

var EnrollmentAggregateContract = Contract{
	Name:   "Learning.EnrollmentAggregate",
	Writes: []string{OpEnroll},
	Tables: []string{"enrollment"},
	Notes:  "Duplicate inserts surface as already_enrolled.",
}

// EnrollmentAggregate owns enrollment creation.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeCourseNotAvailable, CodeAlreadyEnrolled, CodeRetryable, CodeInternal.
type EnrollmentAggregate interface {
	Aggregate

	// Enroll inserts the enrollment for a published course; no progress rows are pre-created.
	Enroll(ctx context.Context, in EnrollInput) (EnrollResult, error)
}

type EnrollInput struct {
	UserID     string
	CourseID   uuid.UUID
	EnrolledAt time.Time
}

type EnrollResult struct {
	Enrollment *learning.Enrollment
}
