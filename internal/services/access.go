package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type ResearchPage struct {
	CourseID      uuid.UUID `json:"course_id"`
	Title         string    `json:"title"`
	ResearchNotes string    `json:"research_notes"`
}

// AccessService evaluates what a learner may open. It only reads.
type AccessService interface {
	GetAccess(ctx context.Context, courseID uuid.UUID) (types.AccessView, error)
	GetCourseCompletion(ctx context.Context, courseID uuid.UUID) (types.CompletionSummary, error)
	GetResearchPage(ctx context.Context, courseID uuid.UUID) (*ResearchPage, error)

	// EvaluateFor builds the view for an explicit user; used after writes.
	EvaluateFor(ctx context.Context, userID string, courseID uuid.UUID) (types.AccessView, error)
	Policy() learning.AccessPolicy
}

type accessService struct {
	log         *logger.Logger
	metrics     *observability.Metrics
	users       repos.UserRepo
	courses     repos.CourseRepo
	chapters    repos.ChapterRepo
	enrollments repos.EnrollmentRepo
	progress    repos.ChapterProgressRepo
	results     repos.AssessmentResultRepo
	policy      learning.AccessPolicy
	timeout     time.Duration
}

type AccessServiceDeps struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Users       repos.UserRepo
	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Enrollments repos.EnrollmentRepo
	Progress    repos.ChapterProgressRepo
	Results     repos.AssessmentResultRepo
	Policy      learning.AccessPolicy
	Timeout     time.Duration
}

func NewAccessService(deps AccessServiceDeps) AccessService {
	return &accessService{
		log:         deps.Log.With("service", "AccessService"),
		metrics:     deps.Metrics,
		users:       deps.Users,
		courses:     deps.Courses,
		chapters:    deps.Chapters,
		enrollments: deps.Enrollments,
		progress:    deps.Progress,
		results:     deps.Results,
		policy:      deps.Policy,
		timeout:     deps.Timeout,
	}
}

func (s *accessService) Policy() learning.AccessPolicy { return s.policy }

func (s *accessService) GetAccess(ctx context.Context, courseID uuid.UUID) (types.AccessView, error) {
	const op = "Learning.Access.Get"
	userID, err := callerID(ctx, op)
	if err != nil {
		return types.AccessView{}, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	aud, err := loadCourseAudience(dbctx.Context{Ctx: ctx}, op, s.users, s.courses, s.enrollments, userID, courseID)
	if err != nil {
		return types.AccessView{}, err
	}
	if !aud.IsOwner && aud.Enrollment == nil {
		return types.AccessView{}, notEnrolled(op)
	}
	return s.evaluate(ctx, op, userID, courseID)
}

// GetCourseCompletion shares GetAccess's enrollment precondition.
func (s *accessService) GetCourseCompletion(ctx context.Context, courseID uuid.UUID) (types.CompletionSummary, error) {
	view, err := s.GetAccess(ctx, courseID)
	if err != nil {
		return types.CompletionSummary{}, err
	}
	return view.Completion, nil
}

func (s *accessService) GetResearchPage(ctx context.Context, courseID uuid.UUID) (*ResearchPage, error) {
	const op = "Learning.Access.ResearchPage"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	aud, err := loadCourseAudience(dbctx.Context{Ctx: ctx}, op, s.users, s.courses, s.enrollments, userID, courseID)
	if err != nil {
		return nil, err
	}
	page := &ResearchPage{CourseID: aud.Course.ID, Title: aud.Course.Title, ResearchNotes: aud.Course.ResearchNotes}
	if aud.IsOwner {
		return page, nil
	}
	if aud.Enrollment == nil {
		s.metrics.IncAccessDecision("research_page", false)
		return nil, notEnrolled(op)
	}
	view, err := s.evaluate(ctx, op, userID, courseID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncAccessDecision("research_page", view.CanAccessResearchPage)
	if !view.CanAccessResearchPage {
		return nil, forbidden(op, "complete every chapter to unlock the research page")
	}
	return page, nil
}

func (s *accessService) EvaluateFor(ctx context.Context, userID string, courseID uuid.UUID) (types.AccessView, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.evaluate(ctx, "Learning.Access.Evaluate", userID, courseID)
}

// evaluate loads published chapters first, then the learner's rows in parallel.
func (s *accessService) evaluate(ctx context.Context, op, userID string, courseID uuid.UUID) (types.AccessView, error) {
	chapters, err := s.chapters.ListByCourse(dbctx.Context{Ctx: ctx}, courseID, true)
	if err != nil {
		return types.AccessView{}, mapReadErr(op, err)
	}
	chapterIDs := make([]uuid.UUID, 0, len(chapters))
	for _, ch := range chapters {
		chapterIDs = append(chapterIDs, ch.ID)
	}

	var (
		enrollment *types.Enrollment
		progress   []*types.ChapterProgress
		results    []*types.AssessmentResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		enrollment, err = s.enrollments.Get(dbctx.Context{Ctx: gctx}, userID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.progress.ListByUserAndCourse(dbctx.Context{Ctx: gctx}, userID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.results.ListByUserAndChapters(dbctx.Context{Ctx: gctx}, userID, chapterIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.AccessView{}, mapReadErr(op, err)
	}

	return learning.EvaluateAccess(learning.AccessInput{
		Enrollment: enrollment,
		Chapters:   chapters,
		Progress:   progress,
		Results:    results,
		Policy:     s.policy,
	}), nil
}
