package user

import (
	"context"
	"testing"

	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestUserRepoEnsureKeepsStoredRole(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u, err := repo.EnsureUser(dbc, "subject-ensure-1", types.RoleStudent)
	if err != nil || u == nil {
		t.Fatalf("EnsureUser: err=%v user=%v", err, u)
	}
	if u.Role != types.RoleStudent {
		t.Fatalf("role: want=%s got=%s", types.RoleStudent, u.Role)
	}

	if _, err := repo.UpdateRole(dbc, u.ID, types.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	again, err := repo.EnsureUser(dbc, u.ID, types.RoleStudent)
	if err != nil {
		t.Fatalf("EnsureUser again: %v", err)
	}
	if again.Role != types.RoleAdmin {
		t.Fatalf("stored role should win, got=%s", again.Role)
	}
}

func TestUserRepoMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	if u, err := repo.GetByID(dbc, "nobody"); err != nil || u != nil {
		t.Fatalf("GetByID missing: err=%v user=%v", err, u)
	}
	if u, err := repo.UpdateRole(dbc, "nobody", types.RoleAdmin); err != nil || u != nil {
		t.Fatalf("UpdateRole missing: err=%v user=%v", err, u)
	}
}
