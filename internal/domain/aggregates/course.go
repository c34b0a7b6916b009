package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

const (
	OpCreateChapter     = "Learning.CourseAuthoring.CreateChapter"
	OpReorderChapters   = "Learning.CourseAuthoring.ReorderChapters"
	OpReplaceAssessment = "Learning.CourseAuthoring.ReplaceAssessment"
	OpDeleteAssessment  = "Learning.CourseAuthoring.DeleteAssessment"
	OpDeleteChapter     = "Learning.CourseAuthoring.DeleteChapter"
)

var CourseAuthoringAggregateContract = Contract{
	Name:   "Learning.CourseAuthoringAggregate",
	Writes: []string{OpCreateChapter, OpReorderChapters, OpReplaceAssessment, OpDeleteAssessment, OpDeleteChapter},
	Tables: []string{"chapter", "assessment", "question"},
	Notes:  "Every authoring write re-checks course ownership inside the transaction.",
}

// CourseAuthoringAggregate owns authoring writes that touch more than one row.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeForbidden, CodeRetryable, CodeInternal.
type CourseAuthoringAggregate interface {
	Aggregate

	// CreateChapter appends an unpublished chapter after the course's last position.
	CreateChapter(ctx context.Context, in CreateChapterInput) (CreateChapterResult, error)
	// ReorderChapters assigns positions 1..n following the given id order.
	ReorderChapters(ctx context.Context, in ReorderChaptersInput) (ReorderChaptersResult, error)

	// ReplaceAssessment creates or updates the chapter's assessment and replaces its questions.
	ReplaceAssessment(ctx context.Context, in ReplaceAssessmentInput) (ReplaceAssessmentResult, error)

	// DeleteAssessment removes the chapter's assessment and its questions; results are kept as history.
	DeleteAssessment(ctx context.Context, in DeleteAssessmentInput) error

	// DeleteChapter removes a chapter with its assessment and questions.
	DeleteChapter(ctx context.Context, in DeleteChapterInput) error
}

type CreateChapterInput struct {
	ActorUserID    string
	CourseID       uuid.UUID
	Title          string
	Description    string
	VideoURL       string
	AttachmentURL  string
	AttachmentName string
}

type CreateChapterResult struct {
	Chapter *learning.Chapter
}

type ReorderChaptersInput struct {
	ActorUserID string
	CourseID    uuid.UUID
	ChapterIDs  []uuid.UUID
}

type ReorderChaptersResult struct {
	Chapters []*learning.Chapter
}

type QuestionInput struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type ReplaceAssessmentInput struct {
	ActorUserID  string
	ChapterID    uuid.UUID
	PassingScore *int
	Questions    []QuestionInput
	At           time.Time
}

type ReplaceAssessmentResult struct {
	Assessment *learning.Assessment
	Created    bool
}

type DeleteAssessmentInput struct {
	ActorUserID string
	ChapterID   uuid.UUID
}

type DeleteChapterInput struct {
	ActorUserID string
	ChapterID   uuid.UUID
}
