package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime/bus"
	"github.com/yungbote/courseware-backend/internal/services"
)

type Services struct {
	Tokens      services.TokenVerifier
	User        services.UserService
	Course      services.CourseService
	Access      services.AccessService
	Enrollment  services.EnrollmentService
	Progress    services.ProgressService
	Assessment  services.AssessmentService
	Discussion  services.DiscussionService
	Certificate services.CertificateService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, r Repos, b bus.Bus) (Services, error) {
	log.Info("Wiring services...")

	timeout := cfg.Server.OperationTimeout
	base := aggregates.BaseDeps{
		DB:       db,
		Log:      log,
		Runner:   aggregates.NewGormTxRunner(db),
		Observer: aggregates.NewMetricsObserver(metrics),
	}
	notifier := services.NewLearningNotifier(log, b)

	tokens, err := services.NewTokenVerifier(log, services.IdentityConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Leeway:   cfg.Auth.Leeway,
	})
	if err != nil {
		return Services{}, err
	}

	access := services.NewAccessService(services.AccessServiceDeps{
		Log:         log,
		Metrics:     metrics,
		Users:       r.User,
		Courses:     r.Course,
		Chapters:    r.Chapter,
		Enrollments: r.Enrollment,
		Progress:    r.ChapterProgress,
		Results:     r.AssessmentResult,
		Policy:      cfg.AccessPolicy(),
		Timeout:     timeout,
	})

	enrollment := services.NewEnrollmentService(services.EnrollmentServiceDeps{
		Log:         log,
		Metrics:     metrics,
		Courses:     r.Course,
		Enrollments: r.Enrollment,
		Aggregate: aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
			Base:        base,
			Courses:     r.Course,
			Enrollments: r.Enrollment,
		}),
		Notifier: notifier,
		Timeout:  timeout,
	})

	progress := services.NewProgressService(services.ProgressServiceDeps{
		Log:     log,
		Metrics: metrics,
		Aggregate: aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
			Base:        base,
			Courses:     r.Course,
			Chapters:    r.Chapter,
			Assessments: r.Assessment,
			Enrollments: r.Enrollment,
			Progress:    r.ChapterProgress,
			Results:     r.AssessmentResult,
		}),
		Access:   access,
		Notifier: notifier,
		Timeout:  timeout,
	})

	assessment := services.NewAssessmentService(services.AssessmentServiceDeps{
		Log:         log,
		Metrics:     metrics,
		Users:       r.User,
		Courses:     r.Course,
		Chapters:    r.Chapter,
		Assessments: r.Assessment,
		Questions:   r.Question,
		Enrollments: r.Enrollment,
		Results:     r.AssessmentResult,
		Aggregate: aggregates.NewAssessmentAggregate(aggregates.AssessmentAggregateDeps{
			Base:        base,
			Courses:     r.Course,
			Chapters:    r.Chapter,
			Assessments: r.Assessment,
			Questions:   r.Question,
			Enrollments: r.Enrollment,
			Progress:    r.ChapterProgress,
			Results:     r.AssessmentResult,
		}),
		Access:              access,
		Notifier:            notifier,
		DefaultPassingScore: cfg.Learning.PassingScore,
		Timeout:             timeout,
	})

	discussion := services.NewDiscussionService(services.DiscussionServiceDeps{
		Log:         log,
		Metrics:     metrics,
		Users:       r.User,
		Courses:     r.Course,
		Chapters:    r.Chapter,
		Enrollments: r.Enrollment,
		Discussions: r.Discussion,
		Replies:     r.Reply,
		Likes:       r.Like,
		Aggregate: aggregates.NewLikeAggregate(aggregates.LikeAggregateDeps{
			Base:        base,
			Discussions: r.Discussion,
			Replies:     r.Reply,
			Likes:       r.Like,
		}),
		Timeout: timeout,
	})

	certificate, err := services.NewCertificateService(services.CertificateServiceDeps{
		Log:          log,
		Metrics:      metrics,
		Courses:      r.Course,
		Certificates: r.Certificate,
		Aggregate: aggregates.NewCertificateAggregate(aggregates.CertificateAggregateDeps{
			Base:         base,
			Courses:      r.Course,
			Chapters:     r.Chapter,
			Enrollments:  r.Enrollment,
			Progress:     r.ChapterProgress,
			Certificates: r.Certificate,
		}),
		Notifier: notifier,
		Timeout:  timeout,
	})
	if err != nil {
		return Services{}, err
	}

	course := services.NewCourseService(services.CourseServiceDeps{
		Log:         log,
		Users:       r.User,
		Courses:     r.Course,
		Chapters:    r.Chapter,
		Assessments: r.Assessment,
		Enrollments: r.Enrollment,
		Authoring: aggregates.NewCourseAuthoringAggregate(aggregates.CourseAuthoringAggregateDeps{
			Base:        base,
			Users:       r.User,
			Courses:     r.Course,
			Chapters:    r.Chapter,
			Assessments: r.Assessment,
			Questions:   r.Question,
		}),
		Timeout: timeout,
	})

	return Services{
		Tokens:      tokens,
		User:        services.NewUserService(log, r.User, cfg.Auth.AdminUserIDs, timeout),
		Course:      course,
		Access:      access,
		Enrollment:  enrollment,
		Progress:    progress,
		Assessment:  assessment,
		Discussion:  discussion,
		Certificate: certificate,
	}, nil
}
