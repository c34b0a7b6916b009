package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

const OpIssueCertificate = "Learning.Certificate.Issue"

var CertificateAggregateContract = Contract{
	Name:   "Learning.CertificateAggregate",
	Writes: []string{OpIssueCertificate},
	Tables: []string{"certificate"},
	Notes:  "Issues at most one certificate per (user, course), only once every published chapter is complete.",
}

// CertificateAggregate owns certificate issuance.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeNotEnrolled, CodeForbidden, CodeRetryable, CodeInternal.
type CertificateAggregate interface {
	Aggregate

	// Issue is idempotent: a second call returns the existing certificate with Created=false.
	Issue(ctx context.Context, in IssueCertificateInput) (IssueCertificateResult, error)
}

type IssueCertificateInput struct {
	UserID   string
	CourseID uuid.UUID
	IssuedAt time.Time
}

type IssueCertificateResult struct {
	Certificate *learning.Certificate
	Created     bool
}
