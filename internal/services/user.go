package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/domain/user"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type UserService interface {
	// SyncUser inserts the user on first sight; the stored role is never overwritten.
	SyncUser(ctx context.Context, userID string) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
	// SetUserRole is an admin action; the caller's stored role is checked.
	SetUserRole(ctx context.Context, targetUserID string, rawRole string) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	users    repos.UserRepo
	adminIDs map[string]bool
	timeout  time.Duration
}

func NewUserService(log *logger.Logger, users repos.UserRepo, adminUserIDs []string, timeout time.Duration) UserService {
	admins := make(map[string]bool, len(adminUserIDs))
	for _, id := range adminUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = true
		}
	}
	return &userService{
		log:      log.With("service", "UserService"),
		users:    users,
		adminIDs: admins,
		timeout:  timeout,
	}
}

func (s *userService) SyncUser(ctx context.Context, userID string) (*types.User, error) {
	const op = "User.Sync"
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, validation(op, "user id required")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	role := types.RoleStudent
	if s.adminIDs[userID] {
		role = types.RoleAdmin
	}
	u, err := s.users.EnsureUser(dbctx.Context{Ctx: ctx}, userID, role)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if u == nil {
		return nil, notFound(op, "user")
	}
	return u, nil
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
	const op = "User.GetMe"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	return s.SyncUser(ctx, userID)
}

func (s *userService) SetUserRole(ctx context.Context, targetUserID string, rawRole string) (*types.User, error) {
	const op = "User.SetRole"
	actorID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	role, ok := user.ParseRole(rawRole)
	if !ok {
		return nil, validation(op, "role must be STUDENT or ADMIN")
	}
	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return nil, validation(op, "user id required")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := requireAdmin(dbc, op, s.users, actorID); err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateRole(dbc, targetUserID, role)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if updated == nil {
		return nil, notFound(op, "user")
	}
	s.log.Info("user role changed", "actor_user_id", actorID, "target_user_id", targetUserID, "role", role)
	return updated, nil
}
