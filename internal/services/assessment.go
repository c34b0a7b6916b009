package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type AssessmentResultView struct {
	Result           *types.AssessmentResult `json:"result"`
	Outcome          learning.GradeOutcome   `json:"outcome"`
	ChapterCompleted bool                    `json:"chapter_completed"`
	Progress         *types.ChapterProgress  `json:"progress,omitempty"`
	Access           types.AccessView        `json:"access"`
}

// StudentAssessment is the assessment as a learner sees it. Correct answers are
// stripped unless the caller owns the course.
type StudentAssessment struct {
	Assessment   *types.Assessment `json:"assessment"`
	PassingScore int               `json:"passing_score"`
	Questions    []*types.Question `json:"questions"`
}

type AssessmentService interface {
	SubmitAssessment(ctx context.Context, assessmentID uuid.UUID, answers []string) (*AssessmentResultView, error)
	ListMyResults(ctx context.Context, assessmentID uuid.UUID) ([]*types.AssessmentResult, error)
	GetAssessmentForStudent(ctx context.Context, chapterID uuid.UUID) (*StudentAssessment, error)
}

type AssessmentServiceDeps struct {
	Log                 *logger.Logger
	Metrics             *observability.Metrics
	Users               repos.UserRepo
	Courses             repos.CourseRepo
	Chapters            repos.ChapterRepo
	Assessments         repos.AssessmentRepo
	Questions           repos.QuestionRepo
	Enrollments         repos.EnrollmentRepo
	Results             repos.AssessmentResultRepo
	Aggregate           domainagg.AssessmentAggregate
	Access              AccessService
	Notifier            LearningNotifier
	DefaultPassingScore int
	Timeout             time.Duration
}

type assessmentService struct {
	deps AssessmentServiceDeps
	log  *logger.Logger
}

func NewAssessmentService(deps AssessmentServiceDeps) AssessmentService {
	if deps.DefaultPassingScore <= 0 {
		deps.DefaultPassingScore = learning.DefaultPassingScore
	}
	return &assessmentService{deps: deps, log: deps.Log.With("service", "AssessmentService")}
}

func (s *assessmentService) SubmitAssessment(ctx context.Context, assessmentID uuid.UUID, answers []string) (*AssessmentResultView, error) {
	const op = "Learning.Assessment.Submit"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()

	res, err := s.deps.Aggregate.Submit(opCtx, domainagg.SubmitAssessmentInput{
		UserID:              userID,
		AssessmentID:        assessmentID,
		Answers:             answers,
		DefaultPassingScore: s.deps.DefaultPassingScore,
	})
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.IncAssessmentSubmission(res.Outcome.Passed)

	view, err := s.deps.Access.EvaluateFor(opCtx, userID, res.CourseID)
	if err != nil {
		return nil, err
	}
	if res.ChapterCompleted {
		s.deps.Metrics.IncChapterTransition(string(learning.ChapterVideoSeen), string(learning.ChapterCompleted))
	}
	if s.deps.Notifier != nil {
		s.deps.Notifier.AssessmentGraded(ctx, userID, res.Result, view)
		if res.ChapterCompleted {
			s.deps.Notifier.ChapterProgress(ctx, userID, res.CourseID, res.Progress, true, view)
		}
	}
	s.log.Debug("assessment graded", "user_id", userID, "assessment_id", assessmentID, "score", res.Outcome.Score, "passed", res.Outcome.Passed)
	return &AssessmentResultView{
		Result:           res.Result,
		Outcome:          res.Outcome,
		ChapterCompleted: res.ChapterCompleted,
		Progress:         res.Progress,
		Access:           view,
	}, nil
}

func (s *assessmentService) ListMyResults(ctx context.Context, assessmentID uuid.UUID) ([]*types.AssessmentResult, error) {
	const op = "Learning.Assessment.ListResults"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	rows, err := s.deps.Results.ListByUserAndAssessment(dbctx.Context{Ctx: ctx}, userID, assessmentID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return rows, nil
}

func (s *assessmentService) GetAssessmentForStudent(ctx context.Context, chapterID uuid.UUID) (*StudentAssessment, error) {
	const op = "Learning.Assessment.GetForStudent"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	chapter, err := s.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if chapter == nil {
		return nil, notFound(op, "chapter")
	}
	aud, err := loadCourseAudience(dbc, op, s.deps.Users, s.deps.Courses, s.deps.Enrollments, userID, chapter.CourseID)
	if err != nil {
		return nil, err
	}
	if !aud.IsOwner {
		if !chapter.IsPublished {
			return nil, notFound(op, "chapter")
		}
		if aud.Enrollment == nil {
			return nil, notEnrolled(op)
		}
		if s.deps.Access.Policy().SequentialGating {
			view, err := s.deps.Access.EvaluateFor(ctx, userID, chapter.CourseID)
			if err != nil {
				return nil, err
			}
			if !view.CanViewChapter(chapter.ID) {
				return nil, forbidden(op, "complete the earlier chapters first")
			}
		}
	}

	assessment, err := s.deps.Assessments.GetByChapterID(dbc, chapterID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if assessment == nil {
		return nil, notFound(op, "assessment")
	}
	questions, err := s.deps.Questions.ListByAssessmentID(dbc, assessment.ID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if !aud.IsOwner {
		questions = learning.RedactAnswers(questions)
	}
	return &StudentAssessment{
		Assessment:   assessment,
		PassingScore: learning.PassingThreshold(assessment.PassingScore, s.deps.DefaultPassingScore),
		Questions:    questions,
	}, nil
}
