package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type UserRepo interface {
	GetByID(dbc dbctx.Context, id string) (*types.User, error)
	// EnsureUser inserts the user with the given role when absent and returns the stored row.
	// An existing row is returned untouched (its role is authoritative).
	EnsureUser(dbc dbctx.Context, id string, role types.Role) (*types.User, error)
	UpdateRole(dbc dbctx.Context, id string, role types.Role) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userRepo) GetByID(dbc dbctx.Context, id string) (*types.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var rows []*types.User
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

func (r *userRepo) EnsureUser(dbc dbctx.Context, id string, role types.Role) (*types.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	now := time.Now().UTC()
	row := &types.User{ID: id, Role: role, CreatedAt: now, UpdatedAt: now}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByID(dbc, id)
}

func (r *userRepo) UpdateRole(dbc dbctx.Context, id string, role types.Role) (*types.User, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(dbc, id)
}
