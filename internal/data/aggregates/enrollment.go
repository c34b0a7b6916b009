package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type EnrollmentAggregateDeps struct {
	Base BaseDeps

	Courses     repos.CourseRepo
	Enrollments repos.EnrollmentRepo
}

type enrollmentAggregate struct {
	deps EnrollmentAggregateDeps
}

func NewEnrollmentAggregate(deps EnrollmentAggregateDeps) domainagg.EnrollmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &enrollmentAggregate{deps: deps}
}

func (a *enrollmentAggregate) Contract() domainagg.Contract {
	return domainagg.EnrollmentAggregateContract
}

func (a *enrollmentAggregate) Enroll(ctx context.Context, in domainagg.EnrollInput) (domainagg.EnrollResult, error) {
	const op = domainagg.OpEnroll
	var out domainagg.EnrollResult
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing course_id", nil)
	}
	if a.deps.Courses == nil || a.deps.Enrollments == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "enrollment aggregate repos not configured", nil)
	}
	enrolledAt := atOrNow(in.EnrolledAt)

	err := executeWrite(ctx, a.deps.Base, domainagg.EnrollmentAggregateContract, op, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.GetByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil || !course.IsPublished {
			return domainagg.NewError(domainagg.CodeCourseNotAvailable, op, "course not available", nil)
		}

		existing, err := a.deps.Enrollments.Get(dbc, userID, course.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domainagg.NewError(domainagg.CodeAlreadyEnrolled, op, "already enrolled", nil)
		}

		row := &types.Enrollment{
			ID:        uuid.New(),
			UserID:    userID,
			CourseID:  course.ID,
			CreatedAt: enrolledAt,
		}
		if err := a.deps.Enrollments.Create(dbc, row); err != nil {
			if isUniqueViolation(err) {
				return domainagg.NewError(domainagg.CodeAlreadyEnrolled, op, "already enrolled", err)
			}
			return err
		}
		out.Enrollment = row
		return nil
	})
	return out, err
}
