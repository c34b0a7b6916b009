package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestAssessmentResultRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAssessmentResultRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, types.RoleAdmin)
	student := testutil.SeedUser(t, ctx, tx, types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, owner.ID, true)
	ch := testutil.SeedChapter(t, ctx, tx, course.ID, 1, true)
	a := testutil.SeedAssessment(t, ctx, tx, ch.ID, "A", "B")

	if passed, err := repo.HasPassed(dbc, student.ID, a.ID); err != nil || passed {
		t.Fatalf("HasPassed before attempts: err=%v passed=%v", err, passed)
	}

	base := time.Now().UTC()
	for i, pass := range []bool{false, true, false} {
		row := &types.AssessmentResult{
			UserID:       student.ID,
			AssessmentID: a.ID,
			ChapterID:    ch.ID,
			Score:        50,
			IsPassed:     pass,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	rows, err := repo.ListByUserAndAssessment(dbc, student.ID, a.ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByUserAndAssessment: err=%v len=%d", err, len(rows))
	}
	if rows[0].IsPassed || !rows[1].IsPassed {
		t.Fatalf("attempts should be newest first")
	}
	// A later failure does not revoke an earlier pass.
	if passed, err := repo.HasPassed(dbc, student.ID, a.ID); err != nil || !passed {
		t.Fatalf("HasPassed: err=%v passed=%v", err, passed)
	}
	if rows, err := repo.ListByUserAndChapters(dbc, student.ID, []uuid.UUID{ch.ID}); err != nil || len(rows) != 3 {
		t.Fatalf("ListByUserAndChapters: err=%v len=%d", err, len(rows))
	}
}
