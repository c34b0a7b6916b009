package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, row *types.Chapter) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	// ListByCourse returns chapters ordered by position.
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) ([]*types.Chapter, error)
	MaxPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// SetPositions renumbers the course's chapters 1..n in the given order.
	// order must contain every chapter of the course.
	SetPositions(dbc dbctx.Context, courseID uuid.UUID, order []uuid.UUID) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *chapterRepo) Create(dbc dbctx.Context, row *types.Chapter) error {
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

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Chapter
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

func (r *chapterRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) ([]*types.Chapter, error) {
	out := []*types.Chapter{}
	if courseID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.Order("position ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) MaxPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	var max *int
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Chapter{}).
		Where("course_id = ?", courseID).
		Select("MAX(position)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *chapterRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Chapter{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *chapterRepo) SetPositions(dbc dbctx.Context, courseID uuid.UUID, order []uuid.UUID) error {
	t := r.dbx(dbc).WithContext(dbc.Ctx)
	now := time.Now().UTC()
	// Park every row on a negative position first so the unique (course_id, position) index
	// never sees two rows on the same slot mid-renumbering.
	if err := t.Model(&types.Chapter{}).
		Where("course_id = ?", courseID).
		Updates(map[string]interface{}{
			"position":   gorm.Expr("-position - 1"),
			"updated_at": now,
		}).Error; err != nil {
		return err
	}
	for i, id := range order {
		if err := t.Model(&types.Chapter{}).
			Where("course_id = ? AND id = ?", courseID, id).
			Update("position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *chapterRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Chapter{}).Error
}
