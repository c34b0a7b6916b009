package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type DiscussionRepo interface {
	Create(dbc dbctx.Context, row *types.Discussion) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error)
	// ListByChapter returns the chapter's threads newest first.
	ListByChapter(dbc dbctx.Context, chapterID uuid.UUID, limit int) ([]*types.Discussion, error)
}

type discussionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return &discussionRepo{db: db, log: baseLog.With("repo", "DiscussionRepo")}
}

func (r *discussionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *discussionRepo) Create(dbc dbctx.Context, row *types.Discussion) error {
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

func (r *discussionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Discussion, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Discussion
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *discussionRepo) ListByChapter(dbc dbctx.Context, chapterID uuid.UUID, limit int) ([]*types.Discussion, error) {
	out := []*types.Discussion{}
	if chapterID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("chapter_id = ?", chapterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
