package services

import (
	"testing"

	"github.com/google/uuid"

	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

func TestCourseAuthoringRequiresStoredAdminOwner(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	otherAdmin := f.admin(t)
	student := f.student(t)

	if _, err := f.course.CreateCourse(as(f.ctx, student.ID), CreateCourseInput{Title: "Intro"}); !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("student create: want forbidden got %v", err)
	}
	course, err := f.course.CreateCourse(as(f.ctx, owner.ID), CreateCourseInput{Title: "Intro", ResearchNotes: "notes"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if course.IsPublished {
		t.Fatalf("new courses start unpublished")
	}
	title := "Renamed"
	if _, err := f.course.UpdateCourse(as(f.ctx, otherAdmin.ID), course.ID, UpdateCourseInput{Title: &title}); !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("non-owner update: want forbidden got %v", err)
	}
	updated, err := f.course.UpdateCourse(as(f.ctx, owner.ID), course.ID, UpdateCourseInput{Title: &title})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title: want Renamed got %q", updated.Title)
	}
}

func TestGetCourseHidesDraftsFromStudents(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	student := f.student(t)
	ownerCtx := as(f.ctx, owner.ID)

	course, err := f.course.CreateCourse(ownerCtx, CreateCourseInput{Title: "Intro", ResearchNotes: "notes"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := f.course.GetCourse(as(f.ctx, student.ID), course.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unpublished course for student: want not_found got %v", err)
	}

	first, err := f.course.CreateChapter(ownerCtx, course.ID, CreateChapterInput{Title: "One", VideoURL: "https://v/1"})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	second, err := f.course.CreateChapter(ownerCtx, course.ID, CreateChapterInput{Title: "Two", VideoURL: "https://v/2"})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	if second.Position <= first.Position {
		t.Fatalf("positions should grow: %d then %d", first.Position, second.Position)
	}
	if _, err := f.course.SetChapterPublished(ownerCtx, first.ID, true); err != nil {
		t.Fatalf("publish chapter: %v", err)
	}
	if _, err := f.course.SetCoursePublished(ownerCtx, course.ID, true); err != nil {
		t.Fatalf("publish course: %v", err)
	}

	view, err := f.course.GetCourse(as(f.ctx, student.ID), course.ID)
	if err != nil {
		t.Fatalf("student view: %v", err)
	}
	if len(view.Chapters) != 1 || view.Chapters[0].ID != first.ID {
		t.Fatalf("student should see only the published chapter: %+v", view.Chapters)
	}
	if view.ResearchNotes != "" || view.IsOwner {
		t.Fatalf("student view leaked owner fields")
	}

	ownerView, err := f.course.GetCourse(ownerCtx, course.ID)
	if err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if len(ownerView.Chapters) != 2 || ownerView.ResearchNotes != "notes" {
		t.Fatalf("owner view: chapters=%d notes=%q", len(ownerView.Chapters), ownerView.ResearchNotes)
	}
}

func TestReorderAndAssessmentUpsert(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	ownerCtx := as(f.ctx, owner.ID)
	course := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	a := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 1, true)
	b := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 2, true)

	ordered, err := f.course.ReorderChapters(ownerCtx, course.ID, []uuid.UUID{b.ID, a.ID})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(ordered) != 2 || ordered[0].ID != b.ID {
		t.Fatalf("reorder: unexpected order")
	}

	in := UpsertAssessmentInput{
		PassingScore: repotest.PtrInt(80),
		Questions: []domainagg.QuestionInput{
			{Prompt: "2+2", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
	}
	assessment, err := f.course.UpsertAssessment(ownerCtx, a.ID, in)
	if err != nil {
		t.Fatalf("upsert assessment: %v", err)
	}
	in.Questions = append(in.Questions, domainagg.QuestionInput{Prompt: "3+3", Options: []string{"6", "7"}, CorrectAnswer: "6"})
	again, err := f.course.UpsertAssessment(ownerCtx, a.ID, in)
	if err != nil {
		t.Fatalf("replace assessment: %v", err)
	}
	if again.ID != assessment.ID {
		t.Fatalf("replace should keep the assessment id")
	}
	var n int64
	f.db.Model(&types.Question{}).Where("assessment_id = ?", assessment.ID).Count(&n)
	if n != 2 {
		t.Fatalf("questions: want 2 got %d", n)
	}
	if err := f.course.DeleteAssessment(ownerCtx, a.ID); err != nil {
		t.Fatalf("delete assessment: %v", err)
	}
}

func TestUserSyncAndRoleChange(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})

	bootstrap, err := f.user.SyncUser(f.ctx, "admin|bootstrap")
	if err != nil {
		t.Fatalf("sync admin: %v", err)
	}
	if bootstrap.Role != types.RoleAdmin {
		t.Fatalf("configured admin id should sync as ADMIN, got %s", bootstrap.Role)
	}
	me, err := f.user.GetMe(as(f.ctx, "auth0|learner"))
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	if me.Role != types.RoleStudent {
		t.Fatalf("first sign-in should be STUDENT, got %s", me.Role)
	}

	if _, err := f.user.SetUserRole(as(f.ctx, me.ID), bootstrap.ID, "STUDENT"); !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("student role change: want forbidden got %v", err)
	}
	if _, err := f.user.SetUserRole(as(f.ctx, bootstrap.ID), me.ID, "moderator"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad role: want validation got %v", err)
	}
	promoted, err := f.user.SetUserRole(as(f.ctx, bootstrap.ID), me.ID, "admin")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != types.RoleAdmin {
		t.Fatalf("promote: want ADMIN got %s", promoted.Role)
	}
}
