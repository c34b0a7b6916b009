package aggregates

import (
	"testing"

	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestSubmitSevenOfTenPassesAndCompletes(t *testing.T) {
	h := newHarness(t)
	_, course, chapters := h.publishedCourse(t, 1)
	answers := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	a := repotest.SeedAssessment(t, h.ctx, h.tx, chapters[0].ID, answers...)
	student := h.enrolledStudent(t, course)

	if _, err := h.progressAgg().MarkChapterWatched(h.ctx, domainagg.MarkChapterWatchedInput{UserID: student.ID, ChapterID: chapters[0].ID}); err != nil {
		t.Fatalf("MarkChapterWatched: %v", err)
	}

	submitted := append([]string{}, answers[:7]...)
	submitted = append(submitted, "x", "y", "z")
	res, err := h.assessmentAgg().Submit(h.ctx, domainagg.SubmitAssessmentInput{
		UserID:              student.ID,
		AssessmentID:        a.ID,
		Answers:             submitted,
		DefaultPassingScore: 70,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome.Score != 70 || !res.Outcome.Passed || res.Result == nil || !res.Result.IsPassed {
		t.Fatalf("outcome: %+v result=%+v", res.Outcome, res.Result)
	}
	if !res.ChapterCompleted || res.Progress == nil || !res.Progress.IsCompleted {
		t.Fatalf("pass after watch should complete the chapter: %+v", res)
	}
}

func TestSubmitFailingKeepsChapterOpen(t *testing.T) {
	h := newHarness(t)
	_, course, chapters := h.publishedCourse(t, 1)
	a := repotest.SeedAssessment(t, h.ctx, h.tx, chapters[0].ID, "A", "B")
	student := h.enrolledStudent(t, course)
	if _, err := h.progressAgg().MarkChapterWatched(h.ctx, domainagg.MarkChapterWatchedInput{UserID: student.ID, ChapterID: chapters[0].ID}); err != nil {
		t.Fatalf("MarkChapterWatched: %v", err)
	}

	res, err := h.assessmentAgg().Submit(h.ctx, domainagg.SubmitAssessmentInput{
		UserID:       student.ID,
		AssessmentID: a.ID,
		Answers:      []string{"A", "wrong"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome.Score != 50 || res.Outcome.Passed || res.ChapterCompleted {
		t.Fatalf("failing attempt: %+v", res)
	}
	row, _ := h.progress.Get(h.dbc, student.ID, chapters[0].ID)
	if row == nil || row.IsCompleted || !row.VideoSeen {
		t.Fatalf("progress after fail: %+v", row)
	}
}

func TestSubmitMalformedPersistsNothing(t *testing.T) {
	h := newHarness(t)
	_, course, chapters := h.publishedCourse(t, 1)
	a := repotest.SeedAssessment(t, h.ctx, h.tx, chapters[0].ID, "A", "B", "C")
	student := h.enrolledStudent(t, course)

	_, err := h.assessmentAgg().Submit(h.ctx, domainagg.SubmitAssessmentInput{
		UserID:       student.ID,
		AssessmentID: a.ID,
		Answers:      []string{"A", "B"},
	})
	if !domainagg.IsCode(err, domainagg.CodeMalformedSubmission) {
		t.Fatalf("want malformed_submission got %v", err)
	}
	rows, err := h.results.ListByUserAndAssessment(dbctx.Context{Ctx: h.ctx}, student.ID, a.ID)
	if err != nil || len(rows) != 0 {
		t.Fatalf("no result may be persisted: err=%v len=%d", err, len(rows))
	}
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	h := newHarness(t)
	_, _, chapters := h.publishedCourse(t, 1)
	a := repotest.SeedAssessment(t, h.ctx, h.tx, chapters[0].ID, "A")
	outsider := repotest.SeedUser(t, h.ctx, h.tx, types.RoleStudent)

	_, err := h.assessmentAgg().Submit(h.ctx, domainagg.SubmitAssessmentInput{
		UserID:       outsider.ID,
		AssessmentID: a.ID,
		Answers:      []string{"A"},
	})
	if !domainagg.IsCode(err, domainagg.CodeNotEnrolled) {
		t.Fatalf("want not_enrolled got %v", err)
	}
}

func TestSubmitHonorsAssessmentOverride(t *testing.T) {
	h := newHarness(t)
	_, course, chapters := h.publishedCourse(t, 1)
	a := repotest.SeedAssessment(t, h.ctx, h.tx, chapters[0].ID, "A", "B")
	if err := h.assessments.UpdateFields(h.dbc, a.ID, map[string]interface{}{"passing_score": 50}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	student := h.enrolledStudent(t, course)

	res, err := h.assessmentAgg().Submit(h.ctx, domainagg.SubmitAssessmentInput{
		UserID:              student.ID,
		AssessmentID:        a.ID,
		Answers:             []string{"A", "nope"},
		DefaultPassingScore: 70,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome.Threshold != 50 || !res.Outcome.Passed {
		t.Fatalf("override threshold not applied: %+v", res.Outcome)
	}
}
