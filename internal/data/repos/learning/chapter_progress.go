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

type ChapterProgressRepo interface {
	Get(dbc dbctx.Context, userID string, chapterID uuid.UUID) (*types.ChapterProgress, error)
	// Upsert writes row keyed by (user_id, chapter_id). Flags only ever turn on and
	// first-set timestamps are kept, so concurrent writers converge.
	Upsert(dbc dbctx.Context, row *types.ChapterProgress) error
	ListByUserAndCourse(dbc dbctx.Context, userID string, courseID uuid.UUID) ([]*types.ChapterProgress, error)
}

type chapterProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChapterProgressRepo {
	return &chapterProgressRepo{db: db, log: baseLog.With("repo", "ChapterProgressRepo")}
}

func (r *chapterProgressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *chapterProgressRepo) Get(dbc dbctx.Context, userID string, chapterID uuid.UUID) (*types.ChapterProgress, error) {
	if userID == "" || chapterID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ChapterProgress
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *chapterProgressRepo) Upsert(dbc dbctx.Context, row *types.ChapterProgress) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "video_seen"}, Value: gorm.Expr("chapter_progress.video_seen OR excluded.video_seen")},
				{Column: clause.Column{Name: "is_completed"}, Value: gorm.Expr("chapter_progress.is_completed OR excluded.is_completed")},
				{Column: clause.Column{Name: "video_seen_at"}, Value: gorm.Expr("COALESCE(chapter_progress.video_seen_at, excluded.video_seen_at)")},
				{Column: clause.Column{Name: "completed_at"}, Value: gorm.Expr("COALESCE(chapter_progress.completed_at, excluded.completed_at)")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
		}).
		Create(row).Error
}

func (r *chapterProgressRepo) ListByUserAndCourse(dbc dbctx.Context, userID string, courseID uuid.UUID) ([]*types.ChapterProgress, error) {
	out := []*types.ChapterProgress{}
	if userID == "" || courseID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
