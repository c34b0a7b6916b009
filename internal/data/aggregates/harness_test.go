package aggregates

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type harness struct {
	ctx context.Context
	tx  *gorm.DB
	dbc dbctx.Context

	users       repos.UserRepo
	courses     repos.CourseRepo
	chapters    repos.ChapterRepo
	assessments repos.AssessmentRepo
	questions   repos.QuestionRepo
	enrollments repos.EnrollmentRepo
	progress    repos.ChapterProgressRepo
	results     repos.AssessmentResultRepo
	certs       repos.CertificateRepo
	discussions repos.DiscussionRepo
	replies     repos.ReplyRepo
	likes       repos.LikeRepo

	base  BaseDeps
	writes *spyObserver
}

// newHarness wires every repo to one rolled-back transaction; aggregate transactions nest as savepoints.
func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	h := &harness{
		ctx:         context.Background(),
		tx:          tx,
		users:       repos.NewUserRepo(tx, log),
		courses:     repos.NewCourseRepo(tx, log),
		chapters:    repos.NewChapterRepo(tx, log),
		assessments: repos.NewAssessmentRepo(tx, log),
		questions:   repos.NewQuestionRepo(tx, log),
		enrollments: repos.NewEnrollmentRepo(tx, log),
		progress:    repos.NewChapterProgressRepo(tx, log),
		results:     repos.NewAssessmentResultRepo(tx, log),
		certs:       repos.NewCertificateRepo(tx, log),
		discussions: repos.NewDiscussionRepo(tx, log),
		replies:     repos.NewReplyRepo(tx, log),
		likes:       repos.NewLikeRepo(tx, log),
		writes:      &spyObserver{},
	}
	h.dbc = dbctx.Context{Ctx: h.ctx}
	h.base = BaseDeps{DB: tx, Log: log, Runner: NewGormTxRunner(tx), Observer: h.writes}
	return h
}

func (h *harness) enrollmentAgg() *enrollmentAggregate {
	return NewEnrollmentAggregate(EnrollmentAggregateDeps{
		Base:        h.base,
		Courses:     h.courses,
		Enrollments: h.enrollments,
	}).(*enrollmentAggregate)
}

func (h *harness) progressAgg() *progressAggregate {
	return NewProgressAggregate(ProgressAggregateDeps{
		Base:        h.base,
		Courses:     h.courses,
		Chapters:    h.chapters,
		Assessments: h.assessments,
		Enrollments: h.enrollments,
		Progress:    h.progress,
		Results:     h.results,
	}).(*progressAggregate)
}

func (h *harness) assessmentAgg() *assessmentAggregate {
	return NewAssessmentAggregate(AssessmentAggregateDeps{
		Base:        h.base,
		Courses:     h.courses,
		Chapters:    h.chapters,
		Assessments: h.assessments,
		Questions:   h.questions,
		Enrollments: h.enrollments,
		Progress:    h.progress,
		Results:     h.results,
	}).(*assessmentAggregate)
}

func (h *harness) likeAgg(likes repos.LikeRepo) *likeAggregate {
	if likes == nil {
		likes = h.likes
	}
	return NewLikeAggregate(LikeAggregateDeps{
		Base:        h.base,
		Discussions: h.discussions,
		Replies:     h.replies,
		Likes:       likes,
	}).(*likeAggregate)
}

func (h *harness) certificateAgg() *certificateAggregate {
	return NewCertificateAggregate(CertificateAggregateDeps{
		Base:         h.base,
		Courses:      h.courses,
		Chapters:     h.chapters,
		Enrollments:  h.enrollments,
		Progress:     h.progress,
		Certificates: h.certs,
	}).(*certificateAggregate)
}

func (h *harness) authoringAgg() *courseAuthoringAggregate {
	return NewCourseAuthoringAggregate(CourseAuthoringAggregateDeps{
		Base:        h.base,
		Users:       h.users,
		Courses:     h.courses,
		Chapters:    h.chapters,
		Assessments: h.assessments,
		Questions:   h.questions,
	}).(*courseAuthoringAggregate)
}

// publishedCourse seeds an admin-owned published course with n published chapters.
func (h *harness) publishedCourse(t *testing.T, n int) (*types.User, *types.Course, []*types.Chapter) {
	t.Helper()
	owner := repotest.SeedUser(t, h.ctx, h.tx, types.RoleAdmin)
	course := repotest.SeedCourse(t, h.ctx, h.tx, owner.ID, true)
	chapters := make([]*types.Chapter, 0, n)
	for i := 1; i <= n; i++ {
		chapters = append(chapters, repotest.SeedChapter(t, h.ctx, h.tx, course.ID, i, true))
	}
	return owner, course, chapters
}

func (h *harness) enrolledStudent(t *testing.T, course *types.Course) *types.User {
	t.Helper()
	student := repotest.SeedUser(t, h.ctx, h.tx, types.RoleStudent)
	repotest.SeedEnrollment(t, h.ctx, h.tx, student.ID, course.ID)
	return student
}
