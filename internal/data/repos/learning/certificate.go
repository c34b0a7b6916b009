package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type CertificateRepo interface {
	Get(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Certificate, error)
	Create(dbc dbctx.Context, row *types.Certificate) error
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *certificateRepo) Get(dbc dbctx.Context, userID string, courseID uuid.UUID) (*types.Certificate, error) {
	if userID == "" || courseID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Certificate
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
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

func (r *certificateRepo) Create(dbc dbctx.Context, row *types.Certificate) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.IssuedAt.IsZero() {
		row.IssuedAt = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}
