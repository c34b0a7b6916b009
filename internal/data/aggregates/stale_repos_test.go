package aggregates

import (
	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

// staleEnrollmentRepo reads as if a concurrent insert had not committed yet.
type staleEnrollmentRepo struct {
	repos.EnrollmentRepo
}

func (staleEnrollmentRepo) Get(dbctx.Context, string, uuid.UUID) (*types.Enrollment, error) {
	return nil, nil
}

// staleLikeRepo reads as if a concurrent like had not committed yet.
type staleLikeRepo struct {
	repos.LikeRepo
}

func (staleLikeRepo) Get(dbctx.Context, string, uuid.UUID) (*types.Like, error) {
	return nil, nil
}
