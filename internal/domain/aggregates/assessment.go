package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

const OpSubmitAssessment = "Learning.Assessment.Submit"

var AssessmentAggregateContract = Contract{
	Name:   "Learning.AssessmentAggregate",
	Writes: []string{OpSubmitAssessment},
	Tables: []string{"assessment_result", "chapter_progress"},
	Notes:  "Grades a submission, appends the result and flips chapter completion on pass in one transaction.",
}

// AssessmentAggregate owns grading.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeNotEnrolled, CodeMalformedSubmission, CodeRetryable, CodeInternal.
// No result row is persisted when an error is returned.
type AssessmentAggregate interface {
	Aggregate

	Submit(ctx context.Context, in SubmitAssessmentInput) (SubmitAssessmentResult, error)
}

type SubmitAssessmentInput struct {
	UserID       string
	AssessmentID uuid.UUID
	Answers      []string
	// DefaultPassingScore applies when the assessment carries no override.
	DefaultPassingScore int
	SubmittedAt         time.Time
}

type SubmitAssessmentResult struct {
	Result           *learning.AssessmentResult
	Outcome          learning.GradeOutcome
	ChapterID        uuid.UUID
	CourseID         uuid.UUID
	Progress         *learning.ChapterProgress
	ChapterCompleted bool
}
