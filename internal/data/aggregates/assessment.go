package aggregates

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type AssessmentAggregateDeps struct {
	Base BaseDeps

	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Assessments repos.AssessmentRepo
	Questions   repos.QuestionRepo
	Enrollments repos.EnrollmentRepo
	Progress    repos.ChapterProgressRepo
	Results     repos.AssessmentResultRepo
}

type assessmentAggregate struct {
	deps AssessmentAggregateDeps
}

func NewAssessmentAggregate(deps AssessmentAggregateDeps) domainagg.AssessmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &assessmentAggregate{deps: deps}
}

func (a *assessmentAggregate) Contract() domainagg.Contract {
	return domainagg.AssessmentAggregateContract
}

func (a *assessmentAggregate) Submit(ctx context.Context, in domainagg.SubmitAssessmentInput) (domainagg.SubmitAssessmentResult, error) {
	const op = domainagg.OpSubmitAssessment
	var out domainagg.SubmitAssessmentResult
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.AssessmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing assessment_id", nil)
	}
	if a.deps.Courses == nil || a.deps.Chapters == nil || a.deps.Assessments == nil || a.deps.Questions == nil ||
		a.deps.Enrollments == nil || a.deps.Progress == nil || a.deps.Results == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment aggregate repos not configured", nil)
	}
	submittedAt := atOrNow(in.SubmittedAt)
	defaultThreshold := in.DefaultPassingScore
	if defaultThreshold <= 0 {
		defaultThreshold = learning.DefaultPassingScore
	}

	err := executeWrite(ctx, a.deps.Base, domainagg.AssessmentAggregateContract, op, func(dbc dbctx.Context) error {
		assessment, err := a.deps.Assessments.GetByID(dbc, in.AssessmentID)
		if err != nil {
			return err
		}
		if assessment == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}
		chapter, err := loadPublishedChapter(dbc, a.deps.Courses, a.deps.Chapters, assessment.ChapterID)
		if err != nil {
			return err
		}
		if chapter == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}

		enrollment, err := a.deps.Enrollments.GetForUpdate(dbc, userID, chapter.CourseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domainagg.NewError(domainagg.CodeNotEnrolled, op, "not enrolled in course", nil)
		}

		questions, err := a.deps.Questions.ListByAssessmentID(dbc, assessment.ID)
		if err != nil {
			return err
		}
		threshold := learning.PassingThreshold(assessment.PassingScore, defaultThreshold)
		outcome, err := learning.Grade(questions, in.Answers, threshold)
		if err != nil {
			if errors.Is(err, learning.ErrMalformedSubmission) {
				return domainagg.NewError(domainagg.CodeMalformedSubmission, op, err.Error(), err)
			}
			return err
		}

		answersJSON, err := json.Marshal(in.Answers)
		if err != nil {
			return err
		}
		result := &types.AssessmentResult{
			ID:           uuid.New(),
			UserID:       userID,
			AssessmentID: assessment.ID,
			ChapterID:    chapter.ID,
			Score:        outcome.Score,
			IsPassed:     outcome.Passed,
			Answers:      datatypes.JSON(answersJSON),
			CreatedAt:    submittedAt,
		}
		if err := a.deps.Results.Create(dbc, result); err != nil {
			return err
		}

		prev, err := a.deps.Progress.Get(dbc, userID, chapter.ID)
		if err != nil {
			return err
		}
		tr := learning.NextChapterProgress(prev, userID, chapter, learning.ChapterSignals{
			HasAssessment: true,
			Passed:        outcome.Passed,
		}, submittedAt)
		if tr.Changed {
			if err := a.deps.Progress.Upsert(dbc, &tr.Progress); err != nil {
				return err
			}
		}

		out = domainagg.SubmitAssessmentResult{
			Result:           result,
			Outcome:          outcome,
			ChapterID:        chapter.ID,
			CourseID:         chapter.CourseID,
			ChapterCompleted: tr.BecameCompleted(),
		}
		if prev != nil || tr.Changed {
			progress := tr.Progress
			out.Progress = &progress
		}
		return nil
	})
	return out, err
}
