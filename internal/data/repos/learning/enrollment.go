package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Get(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Enrollment, error)
	// GetForUpdate row-locks the enrollment; writes that derive from a user's course state take this lock first.
	GetForUpdate(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Enrollment, error)
	Create(dbc dbctx.Context, row *types.Enrollment) error
	ListByUser(dbc dbctx.Context, userID string) ([]*types.Enrollment, error)
	CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *enrollmentRepo) get(q *gorm.DB, userID string, courseID uuid.UUID) (*types.Enrollment, error) {
	if userID == "" || courseID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Enrollment
	if err := q.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *enrollmentRepo) Get(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Enrollment, error) {
	return r.get(r.dbx(dbc).WithContext(dbc.Ctx), userID, courseID)
}

func (r *enrollmentRepo) GetForUpdate(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Enrollment, error) {
	q := r.dbx(dbc).WithContext(dbc.Ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.get(q, userID, courseID)
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, row *types.Enrollment) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *enrollmentRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.Enrollment, error) {
	out := []*types.Enrollment{}
	if userID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	if courseID == uuid.Nil {
		return 0, nil
	}
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&n).Error
	return n, err
}
