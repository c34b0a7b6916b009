package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type CreateCourseInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ResearchNotes string `json:"research_notes"`
}

// UpdateCourseInput is a patch; nil fields are left unchanged.
type UpdateCourseInput struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	ResearchNotes *string `json:"research_notes"`
}

type CreateChapterInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	VideoURL       string `json:"video_url"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentName string `json:"attachment_name"`
}

type UpdateChapterInput struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	VideoURL       *string `json:"video_url"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentName *string `json:"attachment_name"`
}

type UpsertAssessmentInput struct {
	PassingScore *int                      `json:"passing_score"`
	Questions    []domainagg.QuestionInput `json:"questions"`
}

type ChapterView struct {
	*types.Chapter
	AssessmentID *uuid.UUID `json:"assessment_id,omitempty"`
}

type CourseView struct {
	Course   *types.Course `json:"course"`
	Chapters []ChapterView `json:"chapters"`
	IsOwner  bool          `json:"is_owner"`
	Enrolled bool          `json:"enrolled"`
	// ResearchNotes is only filled for the owner; learners read it through the gated research page.
	ResearchNotes   string `json:"research_notes,omitempty"`
	EnrollmentCount *int64 `json:"enrollment_count,omitempty"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error)
	SetCoursePublished(ctx context.Context, courseID uuid.UUID, published bool) (*types.Course, error)
	ListPublishedCourses(ctx context.Context, limit int) ([]*types.Course, error)
	ListMyCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseView, error)

	CreateChapter(ctx context.Context, courseID uuid.UUID, in CreateChapterInput) (*types.Chapter, error)
	UpdateChapter(ctx context.Context, chapterID uuid.UUID, in UpdateChapterInput) (*types.Chapter, error)
	SetChapterPublished(ctx context.Context, chapterID uuid.UUID, published bool) (*types.Chapter, error)
	ReorderChapters(ctx context.Context, courseID uuid.UUID, chapterIDs []uuid.UUID) ([]*types.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID uuid.UUID) error

	UpsertAssessment(ctx context.Context, chapterID uuid.UUID, in UpsertAssessmentInput) (*types.Assessment, error)
	DeleteAssessment(ctx context.Context, chapterID uuid.UUID) error
}

type CourseServiceDeps struct {
	Log         *logger.Logger
	Users       repos.UserRepo
	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Assessments repos.AssessmentRepo
	Enrollments repos.EnrollmentRepo
	Authoring   domainagg.CourseAuthoringAggregate
	Timeout     time.Duration
}

type courseService struct {
	deps CourseServiceDeps
	log  *logger.Logger
}

func NewCourseService(deps CourseServiceDeps) CourseService {
	return &courseService{deps: deps, log: deps.Log.With("service", "CourseService")}
}

// ownedCourse loads a course the caller may edit: stored ADMIN role and owner.
func (s *courseService) ownedCourse(dbc dbctx.Context, op, actorID string, courseID uuid.UUID) (*types.Course, error) {
	if _, err := requireAdmin(dbc, op, s.deps.Users, actorID); err != nil {
		return nil, err
	}
	course, err := s.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if course == nil {
		return nil, notFound(op, "course")
	}
	if course.OwnerUserID != actorID {
		return nil, forbidden(op, "not the owner of this course")
	}
	return course, nil
}

func (s *courseService) ownedChapter(dbc dbctx.Context, op, actorID string, chapterID uuid.UUID) (*types.Chapter, error) {
	chapter, err := s.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if chapter == nil {
		return nil, notFound(op, "chapter")
	}
	if _, err := s.ownedCourse(dbc, op, actorID, chapter.CourseID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	const op = "Learning.Course.Create"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validation(op, "title is required")
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := requireAdmin(dbc, op, s.deps.Users, actorID); err != nil {
		return nil, err
	}
	course := &types.Course{
		OwnerUserID:   actorID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		ResearchNotes: in.ResearchNotes,
	}
	if err := s.deps.Courses.Create(dbc, course); err != nil {
		return nil, mapReadErr(op, err)
	}
	s.log.Info("course created", "course_id", course.ID, "owner_user_id", actorID)
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error) {
	const op = "Learning.Course.Update"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validation(op, "title cannot be blank")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.ResearchNotes != nil {
		updates["research_notes"] = *in.ResearchNotes
	}
	return s.updateCourse(ctx, op, actorID, courseID, updates)
}

func (s *courseService) SetCoursePublished(ctx context.Context, courseID uuid.UUID, published bool) (*types.Course, error) {
	const op = "Learning.Course.SetPublished"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	return s.updateCourse(ctx, op, actorID, courseID, map[string]interface{}{"is_published": published})
}

func (s *courseService) updateCourse(ctx context.Context, op, actorID string, courseID uuid.UUID, updates map[string]interface{}) (*types.Course, error) {
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedCourse(dbc, op, actorID, courseID); err != nil {
		return nil, err
	}
	if err := s.deps.Courses.UpdateFields(dbc, courseID, updates); err != nil {
		return nil, mapReadErr(op, err)
	}
	course, err := s.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return course, nil
}

func (s *courseService) ListPublishedCourses(ctx context.Context, limit int) ([]*types.Course, error) {
	const op = "Learning.Course.ListPublished"
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	rows, err := s.deps.Courses.ListPublished(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return rows, nil
}

func (s *courseService) ListMyCourses(ctx context.Context) ([]*types.Course, error) {
	const op = "Learning.Course.ListMine"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := requireAdmin(dbc, op, s.deps.Users, actorID); err != nil {
		return nil, err
	}
	rows, err := s.deps.Courses.ListByOwner(dbc, actorID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return rows, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseView, error) {
	const op = "Learning.Course.Get"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	aud, err := loadCourseAudience(dbc, op, s.deps.Users, s.deps.Courses, s.deps.Enrollments, userID, courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.deps.Chapters.ListByCourse(dbc, courseID, !aud.IsOwner)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	ids := make([]uuid.UUID, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}
	assessments, err := s.deps.Assessments.ListByChapterIDs(dbc, ids)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	assessmentByChapter := make(map[uuid.UUID]uuid.UUID, len(assessments))
	for _, a := range assessments {
		assessmentByChapter[a.ChapterID] = a.ID
	}

	view := &CourseView{
		Course:   aud.Course,
		Chapters: make([]ChapterView, 0, len(chapters)),
		IsOwner:  aud.IsOwner,
		Enrolled: aud.Enrollment != nil,
	}
	for _, ch := range chapters {
		cv := ChapterView{Chapter: ch}
		if id, ok := assessmentByChapter[ch.ID]; ok {
			cv.AssessmentID = &id
		}
		view.Chapters = append(view.Chapters, cv)
	}
	if aud.IsOwner {
		view.ResearchNotes = aud.Course.ResearchNotes
		n, err := s.deps.Enrollments.CountByCourse(dbc, courseID)
		if err != nil {
			return nil, mapReadErr(op, err)
		}
		view.EnrollmentCount = &n
	}
	return view, nil
}

func (s *courseService) CreateChapter(ctx context.Context, courseID uuid.UUID, in CreateChapterInput) (*types.Chapter, error) {
	const op = "Learning.Course.CreateChapter"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	res, err := s.deps.Authoring.CreateChapter(ctx, domainagg.CreateChapterInput{
		ActorUserID:    actorID,
		CourseID:       courseID,
		Title:          in.Title,
		Description:    in.Description,
		VideoURL:       in.VideoURL,
		AttachmentURL:  in.AttachmentURL,
		AttachmentName: in.AttachmentName,
	})
	if err != nil {
		return nil, err
	}
	return res.Chapter, nil
}

func (s *courseService) UpdateChapter(ctx context.Context, chapterID uuid.UUID, in UpdateChapterInput) (*types.Chapter, error) {
	const op = "Learning.Course.UpdateChapter"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validation(op, "title cannot be blank")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.VideoURL != nil {
		updates["video_url"] = strings.TrimSpace(*in.VideoURL)
	}
	if in.AttachmentURL != nil {
		updates["attachment_url"] = strings.TrimSpace(*in.AttachmentURL)
	}
	if in.AttachmentName != nil {
		updates["attachment_name"] = strings.TrimSpace(*in.AttachmentName)
	}
	return s.updateChapter(ctx, op, actorID, chapterID, updates)
}

func (s *courseService) SetChapterPublished(ctx context.Context, chapterID uuid.UUID, published bool) (*types.Chapter, error) {
	const op = "Learning.Course.SetChapterPublished"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	return s.updateChapter(ctx, op, actorID, chapterID, map[string]interface{}{"is_published": published})
}

func (s *courseService) updateChapter(ctx context.Context, op, actorID string, chapterID uuid.UUID, updates map[string]interface{}) (*types.Chapter, error) {
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedChapter(dbc, op, actorID, chapterID); err != nil {
		return nil, err
	}
	if err := s.deps.Chapters.UpdateFields(dbc, chapterID, updates); err != nil {
		return nil, mapReadErr(op, err)
	}
	chapter, err := s.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	return chapter, nil
}

func (s *courseService) ReorderChapters(ctx context.Context, courseID uuid.UUID, chapterIDs []uuid.UUID) ([]*types.Chapter, error) {
	const op = "Learning.Course.ReorderChapters"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	res, err := s.deps.Authoring.ReorderChapters(ctx, domainagg.ReorderChaptersInput{
		ActorUserID: actorID,
		CourseID:    courseID,
		ChapterIDs:  chapterIDs,
	})
	if err != nil {
		return nil, err
	}
	return res.Chapters, nil
}

func (s *courseService) DeleteChapter(ctx context.Context, chapterID uuid.UUID) error {
	const op = "Learning.Course.DeleteChapter"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	return s.deps.Authoring.DeleteChapter(ctx, domainagg.DeleteChapterInput{ActorUserID: actorID, ChapterID: chapterID})
}

func (s *courseService) UpsertAssessment(ctx context.Context, chapterID uuid.UUID, in UpsertAssessmentInput) (*types.Assessment, error) {
	const op = "Learning.Course.UpsertAssessment"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	res, err := s.deps.Authoring.ReplaceAssessment(ctx, domainagg.ReplaceAssessmentInput{
		ActorUserID:  actorID,
		ChapterID:    chapterID,
		PassingScore: in.PassingScore,
		Questions:    in.Questions,
	})
	if err != nil {
		return nil, err
	}
	return res.Assessment, nil
}

func (s *courseService) DeleteAssessment(ctx context.Context, chapterID uuid.UUID) error {
	const op = "Learning.Course.DeleteAssessment"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	return s.deps.Authoring.DeleteAssessment(ctx, domainagg.DeleteAssessmentInput{ActorUserID: actorID, ChapterID: chapterID})
}
