package community

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestLikeRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewLikeRepo(db, testutil.Logger(t))

	target := uuid.New()
	other := uuid.New()
	for _, user := range []string{"u1", "u2"} {
		if err := repo.Create(dbc, &types.Like{UserID: user, TargetID: target, TargetKind: types.LikeTargetDiscussion}); err != nil {
			t.Fatalf("Create %s: %v", user, err)
		}
	}
	err := repo.Create(dbc, &types.Like{UserID: "u1", TargetID: target, TargetKind: types.LikeTargetDiscussion})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second like by same user: want ErrDuplicatedKey got %v", err)
	}

	if n, err := repo.CountByTarget(dbc, target); err != nil || n != 2 {
		t.Fatalf("CountByTarget: err=%v n=%d", err, n)
	}
	counts, err := repo.CountByTargets(dbc, []uuid.UUID{target, other})
	if err != nil || counts[target] != 2 || counts[other] != 0 {
		t.Fatalf("CountByTargets: err=%v counts=%v", err, counts)
	}
	liked, err := repo.ListLikedTargets(dbc, "u1", []uuid.UUID{target, other})
	if err != nil || !liked[target] || liked[other] {
		t.Fatalf("ListLikedTargets: err=%v liked=%v", err, liked)
	}

	if n, err := repo.Delete(dbc, "u1", target); err != nil || n != 1 {
		t.Fatalf("Delete: err=%v n=%d", err, n)
	}
	if n, err := repo.Delete(dbc, "u1", target); err != nil || n != 0 {
		t.Fatalf("Delete again: err=%v n=%d", err, n)
	}
	if got, err := repo.Get(dbc, "u1", target); err != nil || got != nil {
		t.Fatalf("Get after delete: err=%v row=%v", err, got)
	}
}
