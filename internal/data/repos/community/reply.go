package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type ReplyRepo interface {
	Create(dbc dbctx.Context, row *types.Reply) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Reply, error)
	// ListByDiscussion returns replies oldest first.
	ListByDiscussion(dbc dbctx.Context, discussionID uuid.UUID) ([]*types.Reply, error)
	CountByDiscussions(dbc dbctx.Context, discussionIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type replyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReplyRepo(db *gorm.DB, baseLog *logger.Logger) ReplyRepo {
	return &replyRepo{db: db, log: baseLog.With("repo", "ReplyRepo")}
}

func (r *replyRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *replyRepo) Create(dbc dbctx.Context, row *types.Reply) error {
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

func (r *replyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Reply, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Reply
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

func (r *replyRepo) ListByDiscussion(dbc dbctx.Context, discussionID uuid.UUID) ([]*types.Reply, error) {
	out := []*types.Reply{}
	if discussionID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type discussionCount struct {
	DiscussionID uuid.UUID
	N            int64
}

func (r *replyRepo) CountByDiscussions(dbc dbctx.Context, discussionIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(discussionIDs))
	if len(discussionIDs) == 0 {
		return out, nil
	}
	var rows []discussionCount
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Reply{}).
		Select("discussion_id, COUNT(*) AS n").
		Where("discussion_id IN ?", discussionIDs).
		Group("discussion_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.DiscussionID] = row.N
	}
	return out, nil
}
