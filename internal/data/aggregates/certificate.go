package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type CertificateAggregateDeps struct {
	Base BaseDeps

	Courses      repos.CourseRepo
	Chapters     repos.ChapterRepo
	Enrollments  repos.EnrollmentRepo
	Progress     repos.ChapterProgressRepo
	Certificates repos.CertificateRepo
}

type certificateAggregate struct {
	deps CertificateAggregateDeps
}

func NewCertificateAggregate(deps CertificateAggregateDeps) domainagg.CertificateAggregate {
	deps.Base = deps.Base.withDefaults()
	return &certificateAggregate{deps: deps}
}

func (a *certificateAggregate) Contract() domainagg.Contract {
	return domainagg.CertificateAggregateContract
}

func (a *certificateAggregate) Issue(ctx context.Context, in domainagg.IssueCertificateInput) (domainagg.IssueCertificateResult, error) {
	const op = domainagg.OpIssueCertificate
	var out domainagg.IssueCertificateResult
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing course_id", nil)
	}
	if a.deps.Courses == nil || a.deps.Chapters == nil || a.deps.Enrollments == nil ||
		a.deps.Progress == nil || a.deps.Certificates == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "certificate aggregate repos not configured", nil)
	}
	issuedAt := atOrNow(in.IssuedAt)

	err := executeWrite(ctx, a.deps.Base, domainagg.CertificateAggregateContract, op, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.GetByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "course not found", nil)
		}
		enrollment, err := a.deps.Enrollments.GetForUpdate(dbc, userID, course.ID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domainagg.NewError(domainagg.CodeNotEnrolled, op, "not enrolled in course", nil)
		}

		existing, err := a.deps.Certificates.Get(dbc, userID, course.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = domainagg.IssueCertificateResult{Certificate: existing}
			return nil
		}

		chapters, err := a.deps.Chapters.ListByCourse(dbc, course.ID, true)
		if err != nil {
			return err
		}
		progress, err := a.deps.Progress.ListByUserAndCourse(dbc, userID, course.ID)
		if err != nil {
			return err
		}
		if !learning.SummarizeCompletion(chapters, progress).AllComplete {
			return domainagg.NewError(domainagg.CodeForbidden, op, "course not complete", nil)
		}

		cert := &types.Certificate{
			ID:       uuid.New(),
			UserID:   userID,
			CourseID: course.ID,
			IssuedAt: issuedAt,
		}
		cert.Number = CertificateNumber(cert.ID, issuedAt)
		if err := a.deps.Certificates.Create(dbc, cert); err != nil {
			if isUniqueViolation(err) {
				return ConflictError("certificate already issued")
			}
			return err
		}
		out = domainagg.IssueCertificateResult{Certificate: cert, Created: true}
		return nil
	})
	if domainagg.IsCode(err, domainagg.CodeConflict) {
		existing, gerr := a.deps.Certificates.Get(dbctx.Context{Ctx: ctx}, userID, in.CourseID)
		if gerr != nil {
			return domainagg.IssueCertificateResult{}, MapError(op, gerr)
		}
		if existing != nil {
			return domainagg.IssueCertificateResult{Certificate: existing}, nil
		}
	}
	return out, err
}

// CertificateNumber is "CW-<yyyymmdd>-<first 8 hex of id>", upper-cased.
func CertificateNumber(id uuid.UUID, issuedAt time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(fmt.Sprintf("CW-%s-%s", issuedAt.UTC().Format("20060102"), hex[:8]))
}
