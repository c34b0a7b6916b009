package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/realtime"
	"github.com/yungbote/courseware-backend/internal/realtime/bus"
)

type eventRecorder struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (r *eventRecorder) record(m realtime.SSEMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *eventRecorder) count(event realtime.SSEEvent) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Event == event {
			n++
		}
	}
	return n
}

// fixture wires real repos, aggregates and services over one database. Services read
// outside transactions, so the fixture uses the shared database rather than a test tx.
type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	events *eventRecorder

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

	access      AccessService
	enrollment  EnrollmentService
	progressSvc ProgressService
	assessment  AssessmentService
	discussion  DiscussionService
	certificate CertificateService
	course      CourseService
	user        UserService
}

func newFixture(t *testing.T, policy learning.AccessPolicy) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	f := &fixture{
		ctx:         context.Background(),
		db:          db,
		events:      &eventRecorder{},
		users:       repos.NewUserRepo(db, log),
		courses:     repos.NewCourseRepo(db, log),
		chapters:    repos.NewChapterRepo(db, log),
		assessments: repos.NewAssessmentRepo(db, log),
		questions:   repos.NewQuestionRepo(db, log),
		enrollments: repos.NewEnrollmentRepo(db, log),
		progress:    repos.NewChapterProgressRepo(db, log),
		results:     repos.NewAssessmentResultRepo(db, log),
		certs:       repos.NewCertificateRepo(db, log),
		discussions: repos.NewDiscussionRepo(db, log),
		replies:     repos.NewReplyRepo(db, log),
		likes:       repos.NewLikeRepo(db, log),
	}

	b := bus.NewMemoryBus()
	if err := b.StartForwarder(f.ctx, f.events.record); err != nil {
		t.Fatalf("start forwarder: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	notifier := NewLearningNotifier(log, b)

	base := aggregates.BaseDeps{DB: db, Log: log}
	f.access = NewAccessService(AccessServiceDeps{
		Log:         log,
		Users:       f.users,
		Courses:     f.courses,
		Chapters:    f.chapters,
		Enrollments: f.enrollments,
		Progress:    f.progress,
		Results:     f.results,
		Policy:      policy,
	})
	f.enrollment = NewEnrollmentService(EnrollmentServiceDeps{
		Log:         log,
		Courses:     f.courses,
		Enrollments: f.enrollments,
		Aggregate: aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
			Base:        base,
			Courses:     f.courses,
			Enrollments: f.enrollments,
		}),
		Notifier: notifier,
	})
	f.progressSvc = NewProgressService(ProgressServiceDeps{
		Log: log,
		Aggregate: aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
			Base:        base,
			Courses:     f.courses,
			Chapters:    f.chapters,
			Assessments: f.assessments,
			Enrollments: f.enrollments,
			Progress:    f.progress,
			Results:     f.results,
		}),
		Access:   f.access,
		Notifier: notifier,
	})
	f.assessment = NewAssessmentService(AssessmentServiceDeps{
		Log:         log,
		Users:       f.users,
		Courses:     f.courses,
		Chapters:    f.chapters,
		Assessments: f.assessments,
		Questions:   f.questions,
		Enrollments: f.enrollments,
		Results:     f.results,
		Aggregate: aggregates.NewAssessmentAggregate(aggregates.AssessmentAggregateDeps{
			Base:        base,
			Courses:     f.courses,
			Chapters:    f.chapters,
			Assessments: f.assessments,
			Questions:   f.questions,
			Enrollments: f.enrollments,
			Progress:    f.progress,
			Results:     f.results,
		}),
		Access:   f.access,
		Notifier: notifier,
	})
	f.discussion = NewDiscussionService(DiscussionServiceDeps{
		Log:         log,
		Users:       f.users,
		Courses:     f.courses,
		Chapters:    f.chapters,
		Enrollments: f.enrollments,
		Discussions: f.discussions,
		Replies:     f.replies,
		Likes:       f.likes,
		Aggregate: aggregates.NewLikeAggregate(aggregates.LikeAggregateDeps{
			Base:        base,
			Discussions: f.discussions,
			Replies:     f.replies,
			Likes:       f.likes,
		}),
	})
	certSvc, err := NewCertificateService(CertificateServiceDeps{
		Log:          log,
		Courses:      f.courses,
		Certificates: f.certs,
		Aggregate: aggregates.NewCertificateAggregate(aggregates.CertificateAggregateDeps{
			Base:         base,
			Courses:      f.courses,
			Chapters:     f.chapters,
			Enrollments:  f.enrollments,
			Progress:     f.progress,
			Certificates: f.certs,
		}),
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("certificate service: %v", err)
	}
	f.certificate = certSvc
	f.course = NewCourseService(CourseServiceDeps{
		Log:         log,
		Users:       f.users,
		Courses:     f.courses,
		Chapters:    f.chapters,
		Assessments: f.assessments,
		Enrollments: f.enrollments,
		Authoring: aggregates.NewCourseAuthoringAggregate(aggregates.CourseAuthoringAggregateDeps{
			Base:        base,
			Users:       f.users,
			Courses:     f.courses,
			Chapters:    f.chapters,
			Assessments: f.assessments,
			Questions:   f.questions,
		}),
	})
	f.user = NewUserService(log, f.users, []string{"admin|bootstrap"}, 0)
	return f
}

func as(ctx context.Context, userID string) context.Context {
	return ctxutil.WithIdentity(ctx, &ctxutil.Identity{UserID: userID})
}

func (f *fixture) student(t *testing.T) *types.User {
	t.Helper()
	return repotest.SeedUser(t, f.ctx, f.db, types.RoleStudent)
}

func (f *fixture) admin(t *testing.T) *types.User {
	t.Helper()
	return repotest.SeedUser(t, f.ctx, f.db, types.RoleAdmin)
}
