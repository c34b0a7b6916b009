package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type ProgressAggregateDeps struct {
	Base BaseDeps

	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Assessments repos.AssessmentRepo
	Enrollments repos.EnrollmentRepo
	Progress    repos.ChapterProgressRepo
	Results     repos.AssessmentResultRepo
}

type progressAggregate struct {
	deps ProgressAggregateDeps
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressAggregate{deps: deps}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) MarkChapterWatched(ctx context.Context, in domainagg.MarkChapterWatchedInput) (domainagg.MarkChapterWatchedResult, error) {
	const op = domainagg.OpMarkChapterWatched
	var out domainagg.MarkChapterWatchedResult
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.ChapterID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing chapter_id", nil)
	}
	if a.deps.Courses == nil || a.deps.Chapters == nil || a.deps.Assessments == nil ||
		a.deps.Enrollments == nil || a.deps.Progress == nil || a.deps.Results == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}
	watchedAt := atOrNow(in.WatchedAt)

	err := executeWrite(ctx, a.deps.Base, domainagg.ProgressAggregateContract, op, func(dbc dbctx.Context) error {
		chapter, err := loadPublishedChapter(dbc, a.deps.Courses, a.deps.Chapters, in.ChapterID)
		if err != nil {
			return err
		}
		if chapter == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "chapter not found", nil)
		}

		enrollment, err := a.deps.Enrollments.GetForUpdate(dbc, userID, chapter.CourseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domainagg.NewError(domainagg.CodeNotEnrolled, op, "not enrolled in course", nil)
		}

		prev, err := a.deps.Progress.Get(dbc, userID, chapter.ID)
		if err != nil {
			return err
		}
		assessment, err := a.deps.Assessments.GetByChapterID(dbc, chapter.ID)
		if err != nil {
			return err
		}
		signals := learning.ChapterSignals{HasAssessment: assessment != nil, WatchedNow: true}
		if assessment != nil {
			// A quiz passed before the video finished completes the chapter now.
			passed, err := a.deps.Results.HasPassed(dbc, userID, assessment.ID)
			if err != nil {
				return err
			}
			signals.Passed = passed
		}

		tr := learning.NextChapterProgress(prev, userID, chapter, signals, watchedAt)
		if tr.Changed {
			if err := a.deps.Progress.Upsert(dbc, &tr.Progress); err != nil {
				return err
			}
		}
		progress := tr.Progress
		out = domainagg.MarkChapterWatchedResult{
			Progress:        &progress,
			CourseID:        chapter.CourseID,
			From:            tr.From,
			To:              tr.To,
			BecameCompleted: tr.BecameCompleted(),
		}
		return nil
	})
	return out, err
}
