package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type AssessmentResultRepo interface {
	Create(dbc dbctx.Context, row *types.AssessmentResult) error
	// ListByUserAndAssessment returns attempts newest first.
	ListByUserAndAssessment(dbc dbctx.Context, userID string, assessmentID uuid.UUID) ([]*types.AssessmentResult, error)
	HasPassed(dbc dbctx.Context, userID string, assessmentID uuid.UUID) (bool, error)
	ListByUserAndChapters(dbc dbctx.Context, userID string, chapterIDs []uuid.UUID) ([]*types.AssessmentResult, error)
}

type assessmentResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentResultRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentResultRepo {
	return &assessmentResultRepo{db: db, log: baseLog.With("repo", "AssessmentResultRepo")}
}

func (r *assessmentResultRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *assessmentResultRepo) Create(dbc dbctx.Context, row *types.AssessmentResult) error {
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

func (r *assessmentResultRepo) ListByUserAndAssessment(dbc dbctx.Context, userID string, assessmentID uuid.UUID) ([]*types.AssessmentResult, error) {
	out := []*types.AssessmentResult{}
	if userID == "" || assessmentID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentResultRepo) HasPassed(dbc dbctx.Context, userID string, assessmentID uuid.UUID) (bool, error) {
	if userID == "" || assessmentID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.AssessmentResult{}).
		Where("user_id = ? AND assessment_id = ? AND is_passed = ?", userID, assessmentID, true).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *assessmentResultRepo) ListByUserAndChapters(dbc dbctx.Context, userID string, chapterIDs []uuid.UUID) ([]*types.AssessmentResult, error) {
	out := []*types.AssessmentResult{}
	if userID == "" || len(chapterIDs) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
