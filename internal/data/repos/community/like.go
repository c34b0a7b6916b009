package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type LikeRepo interface {
	Get(dbc dbctx.Context, userID string, targetID uuid.UUID) (*types.Like, error)
	Create(dbc dbctx.Context, row *types.Like) error
	// Delete removes the user's like and reports how many rows went away.
	Delete(dbc dbctx.Context, userID string, targetID uuid.UUID) (int64, error)
	CountByTarget(dbc dbctx.Context, targetID uuid.UUID) (int64, error)
	CountByTargets(dbc dbctx.Context, targetIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// ListLikedTargets returns the subset of targetIDs the user currently likes.
	ListLikedTargets(dbc dbctx.Context, userID string, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{db: db, log: baseLog.With("repo", "LikeRepo")}
}

func (r *likeRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *likeRepo) Get(dbc dbctx.Context, userID string, targetID uuid.UUID) (*types.Like, error) {
	if userID == "" || targetID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Like
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *likeRepo) Create(dbc dbctx.Context, row *types.Like) error {
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

func (r *likeRepo) Delete(dbc dbctx.Context, userID string, targetID uuid.UUID) (int64, error) {
	if userID == "" || targetID == uuid.Nil {
		return 0, nil
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Delete(&types.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepo) CountByTarget(dbc dbctx.Context, targetID uuid.UUID) (int64, error) {
	var n int64
	if targetID == uuid.Nil {
		return 0, nil
	}
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Like{}).
		Where("target_id = ?", targetID).
		Count(&n).Error
	return n, err
}

type targetCount struct {
	TargetID uuid.UUID
	N        int64
}

func (r *likeRepo) CountByTargets(dbc dbctx.Context, targetIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}
	var rows []targetCount
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Like{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_id IN ?", targetIDs).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TargetID] = row.N
	}
	return out, nil
}

func (r *likeRepo) ListLikedTargets(dbc dbctx.Context, userID string, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(targetIDs))
	if userID == "" || len(targetIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Like{}).
		Where("user_id = ? AND target_id IN ?", userID, targetIDs).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
