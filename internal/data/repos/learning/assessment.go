package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	Create(dbc dbctx.Context, row *types.Assessment) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error)
	GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*types.Assessment, error)
	ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Assessment, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *assessmentRepo) Create(dbc dbctx.Context, row *types.Assessment) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *assessmentRepo) first(dbc dbctx.Context, query string, arg interface{}) (*types.Assessment, error) {
	var rows []*types.Assessment
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where(query, arg).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *assessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *assessmentRepo) GetByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (*types.Assessment, error) {
	if chapterID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "chapter_id = ?", chapterID)
}

func (r *assessmentRepo) ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Assessment, error) {
	out := []*types.Assessment{}
	if len(chapterIDs) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("chapter_id IN ?", chapterIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Assessment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *assessmentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Assessment{}).Error
}
