package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/courseware-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestEnrollCommitFailureIsRetryableAndObserved(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	log := repotest.Logger(t)

	owner := repotest.SeedUser(t, ctx, tx, types.RoleAdmin)
	course := repotest.SeedCourse(t, ctx, tx, owner.ID, true)
	student := repotest.SeedUser(t, ctx, tx, types.RoleStudent)

	writes := &aggtest.WriteRecorder{}
	runner := &aggtest.FaultRunner{Stage: aggtest.StageCommit, Err: aggregates.RetryableError("commit timed out")}
	agg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base:        aggregates.BaseDeps{DB: tx, Log: log, Runner: runner, Observer: writes},
		Courses:     repos.NewCourseRepo(tx, log),
		Enrollments: repos.NewEnrollmentRepo(tx, log),
	})

	_, err := agg.Enroll(ctx, domainagg.EnrollInput{UserID: student.ID, CourseID: course.ID})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable got %v", err)
	}
	if runner.Rollbacks != 1 || runner.Commits != 0 {
		t.Fatalf("runner counters: commit=%d rollback=%d", runner.Commits, runner.Rollbacks)
	}
	if n := writes.Count(domainagg.OpEnroll, domainagg.CodeRetryable); n != 1 {
		t.Fatalf("retryable enroll outcomes: want 1 got %d", n)
	}
	if statuses := writes.Statuses(); len(statuses) != 1 || statuses[0] != string(domainagg.CodeRetryable) {
		t.Fatalf("statuses: %+v", statuses)
	}
}

func TestEnrollBeginFailureSkipsWrites(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	log := repotest.Logger(t)

	owner := repotest.SeedUser(t, ctx, tx, types.RoleAdmin)
	course := repotest.SeedCourse(t, ctx, tx, owner.ID, true)
	enrollments := repos.NewEnrollmentRepo(tx, log)

	runner := &aggtest.FaultRunner{Stage: aggtest.StageBegin, Err: errors.New("connection refused")}
	agg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base:        aggregates.BaseDeps{DB: tx, Log: log, Runner: runner},
		Courses:     repos.NewCourseRepo(tx, log),
		Enrollments: enrollments,
	})
	_, err := agg.Enroll(ctx, domainagg.EnrollInput{UserID: "student-x", CourseID: course.ID})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal got %v", err)
	}
	if rows, _ := enrollments.ListByUser(dbctx.Context{Ctx: ctx}, "student-x"); len(rows) != 0 {
		t.Fatalf("no enrollment expected, got %d", len(rows))
	}
}
