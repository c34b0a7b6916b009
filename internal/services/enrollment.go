package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
	GetEnrollment(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
	ListMyEnrollments(ctx context.Context) ([]*EnrolledCourse, error)
}

type EnrolledCourse struct {
	Enrollment *types.Enrollment `json:"enrollment"`
	Course     *types.Course     `json:"course"`
}

type EnrollmentServiceDeps struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Courses     repos.CourseRepo
	Enrollments repos.EnrollmentRepo
	Aggregate   domainagg.EnrollmentAggregate
	Notifier    LearningNotifier
	Timeout     time.Duration
}

type enrollmentService struct {
	log         *logger.Logger
	metrics     *observability.Metrics
	courses     repos.CourseRepo
	enrollments repos.EnrollmentRepo
	agg         domainagg.EnrollmentAggregate
	notify      LearningNotifier
	timeout     time.Duration
}

func NewEnrollmentService(deps EnrollmentServiceDeps) EnrollmentService {
	return &enrollmentService{
		log:         deps.Log.With("service", "EnrollmentService"),
		metrics:     deps.Metrics,
		courses:     deps.Courses,
		enrollments: deps.Enrollments,
		agg:         deps.Aggregate,
		notify:      deps.Notifier,
		timeout:     deps.Timeout,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	const op = "Learning.Enrollment.Enroll"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.agg.Enroll(opCtx, domainagg.EnrollInput{UserID: userID, CourseID: courseID})
	if err != nil {
		s.metrics.IncEnrollment(string(domainagg.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncEnrollment("enrolled")
	s.log.Info("enrolled", "user_id", userID, "course_id", courseID)
	if s.notify != nil {
		s.notify.Enrolled(ctx, userID, res.Enrollment)
	}
	return res.Enrollment, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	const op = "Learning.Enrollment.Get"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	row, err := s.enrollments.Get(dbctx.Context{Ctx: ctx}, userID, courseID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if row == nil {
		return nil, notEnrolled(op)
	}
	return row, nil
}

func (s *enrollmentService) ListMyEnrollments(ctx context.Context) ([]*EnrolledCourse, error) {
	const op = "Learning.Enrollment.ListMine"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	rows, err := s.enrollments.ListByUser(dbc, userID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseID)
	}
	courses, err := s.courses.GetByIDs(dbc, ids)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	byID := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	out := make([]*EnrolledCourse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &EnrolledCourse{Enrollment: r, Course: byID[r.CourseID]})
	}
	return out, nil
}
