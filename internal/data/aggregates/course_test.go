package aggregates

import (
	"testing"

	"github.com/google/uuid"

	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func TestCreateAndReorderChapters(t *testing.T) {
	h := newHarness(t)
	owner, course, chapters := h.publishedCourse(t, 2)
	agg := h.authoringAgg()

	created, err := agg.CreateChapter(h.ctx, domainagg.CreateChapterInput{
		ActorUserID: owner.ID,
		CourseID:    course.ID,
		Title:       "third",
	})
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	if created.Chapter.Position != 3 || created.Chapter.IsPublished {
		t.Fatalf("new chapter: %+v", created.Chapter)
	}

	order := []uuid.UUID{created.Chapter.ID, chapters[1].ID, chapters[0].ID}
	res, err := agg.ReorderChapters(h.ctx, domainagg.ReorderChaptersInput{
		ActorUserID: owner.ID,
		CourseID:    course.ID,
		ChapterIDs:  order,
	})
	if err != nil {
		t.Fatalf("ReorderChapters: %v", err)
	}
	for i, ch := range res.Chapters {
		if ch.ID != order[i] || ch.Position != i+1 {
			t.Fatalf("position %d: got id=%s pos=%d", i, ch.ID, ch.Position)
		}
	}

	_, err = agg.ReorderChapters(h.ctx, domainagg.ReorderChaptersInput{
		ActorUserID: owner.ID,
		CourseID:    course.ID,
		ChapterIDs:  order[:2],
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("partial order: want validation got %v", err)
	}
}

func TestAuthoringRequiresStoredAdminOwner(t *testing.T) {
	h := newHarness(t)
	_, course, _ := h.publishedCourse(t, 1)
	otherAdmin := repotest.SeedUser(t, h.ctx, h.tx, types.RoleAdmin)
	student := repotest.SeedUser(t, h.ctx, h.tx, types.RoleStudent)
	agg := h.authoringAgg()

	for _, actor := range []string{otherAdmin.ID, student.ID, "unknown"} {
		_, err := agg.CreateChapter(h.ctx, domainagg.CreateChapterInput{ActorUserID: actor, CourseID: course.ID, Title: "x"})
		if !domainagg.IsCode(err, domainagg.CodeForbidden) {
			t.Fatalf("actor %s: want forbidden got %v", actor, err)
		}
	}
}

func TestReplaceAndDeleteAssessment(t *testing.T) {
	h := newHarness(t)
	owner, _, chapters := h.publishedCourse(t, 1)
	agg := h.authoringAgg()
	score := 80

	first, err := agg.ReplaceAssessment(h.ctx, domainagg.ReplaceAssessmentInput{
		ActorUserID:  owner.ID,
		ChapterID:    chapters[0].ID,
		PassingScore: &score,
		Questions: []domainagg.QuestionInput{
			{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceAssessment create: %v", err)
	}
	if !first.Created || len(first.Assessment.Questions) != 1 {
		t.Fatalf("create result: %+v", first)
	}

	second, err := agg.ReplaceAssessment(h.ctx, domainagg.ReplaceAssessmentInput{
		ActorUserID: owner.ID,
		ChapterID:   chapters[0].ID,
		Questions: []domainagg.QuestionInput{
			{Prompt: "a", Options: []string{"x", "y"}, CorrectAnswer: "x"},
			{Prompt: "b", Options: []string{"x", "y"}, CorrectAnswer: "y"},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceAssessment update: %v", err)
	}
	if second.Created || second.Assessment.ID != first.Assessment.ID || second.Assessment.PassingScore != nil {
		t.Fatalf("update result: %+v", second.Assessment)
	}
	qs, err := h.questions.ListByAssessmentID(h.dbc, first.Assessment.ID)
	if err != nil || len(qs) != 2 {
		t.Fatalf("questions after replace: err=%v len=%d", err, len(qs))
	}

	_, err = agg.ReplaceAssessment(h.ctx, domainagg.ReplaceAssessmentInput{
		ActorUserID: owner.ID,
		ChapterID:   chapters[0].ID,
		Questions:   []domainagg.QuestionInput{{Prompt: "a", Options: []string{"x", "y"}, CorrectAnswer: "z"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("answer outside options: want validation got %v", err)
	}

	if err := agg.DeleteAssessment(h.ctx, domainagg.DeleteAssessmentInput{ActorUserID: owner.ID, ChapterID: chapters[0].ID}); err != nil {
		t.Fatalf("DeleteAssessment: %v", err)
	}
	if got, _ := h.assessments.GetByChapterID(h.dbc, chapters[0].ID); got != nil {
		t.Fatalf("assessment should be gone")
	}
	if err := agg.DeleteChapter(h.ctx, domainagg.DeleteChapterInput{ActorUserID: owner.ID, ChapterID: chapters[0].ID}); err != nil {
		t.Fatalf("DeleteChapter: %v", err)
	}
	if got, _ := h.chapters.GetByID(h.dbc, chapters[0].ID); got != nil {
		t.Fatalf("chapter should be gone")
	}
}
