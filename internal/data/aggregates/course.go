package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type CourseAuthoringAggregateDeps struct {
	Base BaseDeps

	Users       repos.UserRepo
	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Assessments repos.AssessmentRepo
	Questions   repos.QuestionRepo
}

type courseAuthoringAggregate struct {
	deps CourseAuthoringAggregateDeps
}

func NewCourseAuthoringAggregate(deps CourseAuthoringAggregateDeps) domainagg.CourseAuthoringAggregate {
	deps.Base = deps.Base.withDefaults()
	return &courseAuthoringAggregate{deps: deps}
}

func (a *courseAuthoringAggregate) Contract() domainagg.Contract {
	return domainagg.CourseAuthoringAggregateContract
}

func (a *courseAuthoringAggregate) configured() bool {
	return a.deps.Users != nil && a.deps.Courses != nil && a.deps.Chapters != nil &&
		a.deps.Assessments != nil && a.deps.Questions != nil
}

// ownedCourse loads the course and checks the actor owns it.
func (a *courseAuthoringAggregate) ownedCourse(dbc dbctx.Context, op, actorUserID string, courseID uuid.UUID) (*types.Course, error) {
	course, err := a.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "course not found", nil)
	}
	if err := requireCourseOwner(dbc, a.deps.Users, op, actorUserID, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ownedChapter loads the chapter and checks the actor owns its course.
func (a *courseAuthoringAggregate) ownedChapter(dbc dbctx.Context, op, actorUserID string, chapterID uuid.UUID) (*types.Chapter, error) {
	chapter, err := a.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "chapter not found", nil)
	}
	if _, err := a.ownedCourse(dbc, op, actorUserID, chapter.CourseID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (a *courseAuthoringAggregate) CreateChapter(ctx context.Context, in domainagg.CreateChapterInput) (domainagg.CreateChapterResult, error) {
	const op = domainagg.OpCreateChapter
	var out domainagg.CreateChapterResult
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing course_id", nil)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing title", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "course authoring repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, domainagg.CourseAuthoringAggregateContract, op, func(dbc dbctx.Context) error {
		course, err := a.ownedCourse(dbc, op, in.ActorUserID, in.CourseID)
		if err != nil {
			return err
		}
		max, err := a.deps.Chapters.MaxPosition(dbc, course.ID)
		if err != nil {
			return err
		}
		chapter := &types.Chapter{
			ID:             uuid.New(),
			CourseID:       course.ID,
			Position:       max + 1,
			Title:          title,
			Description:    strings.TrimSpace(in.Description),
			VideoURL:       strings.TrimSpace(in.VideoURL),
			AttachmentURL:  strings.TrimSpace(in.AttachmentURL),
			AttachmentName: strings.TrimSpace(in.AttachmentName),
		}
		if err := a.deps.Chapters.Create(dbc, chapter); err != nil {
			if isUniqueViolation(err) {
				return RetryableError("chapter position taken by a concurrent insert")
			}
			return err
		}
		out.Chapter = chapter
		return nil
	})
	return out, err
}

func (a *courseAuthoringAggregate) ReorderChapters(ctx context.Context, in domainagg.ReorderChaptersInput) (domainagg.ReorderChaptersResult, error) {
	const op = domainagg.OpReorderChapters
	var out domainagg.ReorderChaptersResult
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing course_id", nil)
	}
	if len(in.ChapterIDs) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing chapter_ids", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "course authoring repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, domainagg.CourseAuthoringAggregateContract, op, func(dbc dbctx.Context) error {
		course, err := a.ownedCourse(dbc, op, in.ActorUserID, in.CourseID)
		if err != nil {
			return err
		}
		current, err := a.deps.Chapters.ListByCourse(dbc, course.ID, false)
		if err != nil {
			return err
		}
		if err := validatePermutation(current, in.ChapterIDs); err != nil {
			return err
		}
		if err := a.deps.Chapters.SetPositions(dbc, course.ID, in.ChapterIDs); err != nil {
			return err
		}
		out.Chapters, err = a.deps.Chapters.ListByCourse(dbc, course.ID, false)
		return err
	})
	return out, err
}

func validatePermutation(current []*types.Chapter, order []uuid.UUID) error {
	if len(order) != len(current) {
		return ValidationError(fmt.Sprintf("chapter_ids must list all %d chapters of the course", len(current)))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, ch := range current {
		known[ch.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if !known[id] {
			return ValidationError(fmt.Sprintf("chapter %s does not belong to the course", id))
		}
		if seen[id] {
			return ValidationError(fmt.Sprintf("chapter %s listed twice", id))
		}
		seen[id] = true
	}
	return nil
}

func (a *courseAuthoringAggregate) ReplaceAssessment(ctx context.Context, in domainagg.ReplaceAssessmentInput) (domainagg.ReplaceAssessmentResult, error) {
	const op = domainagg.OpReplaceAssessment
	var out domainagg.ReplaceAssessmentResult
	if in.ChapterID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing chapter_id", nil)
	}
	questions, err := buildQuestions(in.Questions)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	if in.PassingScore != nil && (*in.PassingScore < 0 || *in.PassingScore > 100) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "passing_score must be between 0 and 100", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "course authoring repos not configured", nil)
	}
	at := atOrNow(in.At)

	err = executeWrite(ctx, a.deps.Base, domainagg.CourseAuthoringAggregateContract, op, func(dbc dbctx.Context) error {
		chapter, err := a.ownedChapter(dbc, op, in.ActorUserID, in.ChapterID)
		if err != nil {
			return err
		}
		assessment, err := a.deps.Assessments.GetByChapterID(dbc, chapter.ID)
		if err != nil {
			return err
		}
		created := false
		if assessment == nil {
			assessment = &types.Assessment{
				ID:           uuid.New(),
				ChapterID:    chapter.ID,
				PassingScore: in.PassingScore,
			}
			if err := a.deps.Assessments.Create(dbc, assessment); err != nil {
				return err
			}
			created = true
		} else {
			if err := a.deps.Assessments.UpdateFields(dbc, assessment.ID, map[string]interface{}{
				"passing_score": in.PassingScore,
				"updated_at":    at,
			}); err != nil {
				return err
			}
			assessment.PassingScore = in.PassingScore
			assessment.UpdatedAt = at
		}
		if err := a.deps.Questions.ReplaceForAssessment(dbc, assessment.ID, questions); err != nil {
			return err
		}
		assessment.Questions = questions
		out = domainagg.ReplaceAssessmentResult{Assessment: assessment, Created: created}
		return nil
	})
	return out, err
}

func buildQuestions(in []domainagg.QuestionInput) ([]*types.Question, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("an assessment needs at least one question")
	}
	out := make([]*types.Question, 0, len(in))
	for i, q := range in {
		prompt := strings.TrimSpace(q.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("question %d: missing prompt", i+1)
		}
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least two options", i+1)
		}
		answer := strings.TrimSpace(q.CorrectAnswer)
		found := false
		for _, opt := range options {
			if opt == answer {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("question %d: correct_answer must be one of the options", i+1)
		}
		raw, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		out = append(out, &types.Question{
			Prompt:        prompt,
			Options:       datatypes.JSON(raw),
			CorrectAnswer: answer,
		})
	}
	return out, nil
}

func (a *courseAuthoringAggregate) DeleteAssessment(ctx context.Context, in domainagg.DeleteAssessmentInput) error {
	const op = domainagg.OpDeleteAssessment
	if in.ChapterID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing chapter_id", nil)
	}
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "course authoring repos not configured", nil)
	}
	return executeWrite(ctx, a.deps.Base, domainagg.CourseAuthoringAggregateContract, op, func(dbc dbctx.Context) error {
		chapter, err := a.ownedChapter(dbc, op, in.ActorUserID, in.ChapterID)
		if err != nil {
			return err
		}
		assessment, err := a.deps.Assessments.GetByChapterID(dbc, chapter.ID)
		if err != nil {
			return err
		}
		if assessment == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}
		return a.removeAssessment(dbc, assessment.ID)
	})
}

func (a *courseAuthoringAggregate) DeleteChapter(ctx context.Context, in domainagg.DeleteChapterInput) error {
	const op = domainagg.OpDeleteChapter
	if in.ChapterID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing chapter_id", nil)
	}
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "course authoring repos not configured", nil)
	}
	return executeWrite(ctx, a.deps.Base, domainagg.CourseAuthoringAggregateContract, op, func(dbc dbctx.Context) error {
		chapter, err := a.ownedChapter(dbc, op, in.ActorUserID, in.ChapterID)
		if err != nil {
			return err
		}
		assessment, err := a.deps.Assessments.GetByChapterID(dbc, chapter.ID)
		if err != nil {
			return err
		}
		if assessment != nil {
			if err := a.removeAssessment(dbc, assessment.ID); err != nil {
				return err
			}
		}
		return a.deps.Chapters.Delete(dbc, chapter.ID)
	})
}

func (a *courseAuthoringAggregate) removeAssessment(dbc dbctx.Context, assessmentID uuid.UUID) error {
	if err := a.deps.Questions.DeleteByAssessmentID(dbc, assessmentID); err != nil {
		return err
	}
	return a.deps.Assessments.Delete(dbc, assessmentID)
}
