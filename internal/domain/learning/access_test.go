package learning

import (
	"testing"

	"github.com/google/uuid"
)

func publishedChapters(n int) []*Chapter {
	courseID := uuid.New()
	out := make([]*Chapter, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Chapter{ID: uuid.New(), CourseID: courseID, Position: (i + 1) * 10, IsPublished: true})
	}
	return out
}

func completed(chapters ...*Chapter) []*ChapterProgress {
	out := make([]*ChapterProgress, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, &ChapterProgress{ChapterID: ch.ID, VideoSeen: true, IsCompleted: true})
	}
	return out
}

func TestSummarizeCompletionTwoOfThree(t *testing.T) {
	chs := publishedChapters(3)
	s := SummarizeCompletion(chs, completed(chs[0], chs[1]))
	if s.CompletedCount != 2 || s.TotalCount != 3 || s.AllComplete {
		t.Fatalf("unexpected summary: %+v", s)
	}
	s = SummarizeCompletion(chs, completed(chs...))
	if !s.AllComplete {
		t.Fatalf("expected allComplete, got=%+v", s)
	}
}

func TestSummarizeCompletionIgnoresUnpublished(t *testing.T) {
	chs := publishedChapters(2)
	draft := &Chapter{ID: uuid.New(), CourseID: chs[0].CourseID, Position: 99}
	all := append(chs, draft)

	s := SummarizeCompletion(all, completed(chs[0], draft))
	if s.TotalCount != 2 || s.CompletedCount != 1 {
		t.Fatalf("unpublished chapter must not count: %+v", s)
	}
}

func TestSummarizeCompletionEmptyCourseIsNeverComplete(t *testing.T) {
	if s := SummarizeCompletion(nil, nil); s.AllComplete {
		t.Fatalf("empty course must not be all complete")
	}
}

func TestEvaluateAccessResearchPageUnlocksOnLastChapter(t *testing.T) {
	chs := publishedChapters(3)
	enr := &Enrollment{ID: uuid.New()}

	view := EvaluateAccess(AccessInput{Enrollment: enr, Chapters: chs, Progress: completed(chs[0], chs[1])})
	if view.CanAccessResearchPage || view.CanRequestCertificate {
		t.Fatalf("research page must stay locked at 2/3")
	}
	if view.NextUnlockedChapterPosition == nil || *view.NextUnlockedChapterPosition != chs[2].Position {
		t.Fatalf("next position: got=%v", view.NextUnlockedChapterPosition)
	}

	view = EvaluateAccess(AccessInput{Enrollment: enr, Chapters: chs, Progress: completed(chs...)})
	if !view.CanAccessResearchPage || !view.CanRequestCertificate {
		t.Fatalf("research page should unlock at 3/3, view=%+v", view)
	}
	if view.NextUnlockedChapterPosition != nil {
		t.Fatalf("next position should be nil when all complete")
	}
}

func TestEvaluateAccessNotEnrolled(t *testing.T) {
	chs := publishedChapters(1)
	view := EvaluateAccess(AccessInput{Chapters: chs, Progress: completed(chs...)})
	if view.Enrolled || view.CanAccessResearchPage {
		t.Fatalf("unenrolled learner must not unlock anything: %+v", view)
	}
	if view.CanViewChapter(chs[0].ID) {
		t.Fatalf("unenrolled learner must not view chapters")
	}
}

func TestEvaluateAccessOpenOrderByDefault(t *testing.T) {
	chs := publishedChapters(3)
	view := EvaluateAccess(AccessInput{Enrollment: &Enrollment{}, Chapters: chs})
	for _, ch := range chs {
		if !view.CanViewChapter(ch.ID) {
			t.Fatalf("chapter %d should be viewable in open order", ch.Position)
		}
	}
}

func TestEvaluateAccessSequentialGating(t *testing.T) {
	chs := publishedChapters(3)
	view := EvaluateAccess(AccessInput{
		Enrollment: &Enrollment{},
		Chapters:   chs,
		Progress:   completed(chs[0]),
		Policy:     AccessPolicy{SequentialGating: true},
	})
	if !view.CanViewChapter(chs[0].ID) || !view.CanViewChapter(chs[1].ID) {
		t.Fatalf("first two chapters should be unlocked")
	}
	if view.CanViewChapter(chs[2].ID) {
		t.Fatalf("third chapter should stay locked until the second is complete")
	}
}

func TestEvaluateAccessBestScores(t *testing.T) {
	aid := uuid.New()
	view := EvaluateAccess(AccessInput{
		Enrollment: &Enrollment{},
		Results: []*AssessmentResult{
			{AssessmentID: aid, Score: 40},
			{AssessmentID: aid, Score: 90},
			{AssessmentID: aid, Score: 60},
		},
	})
	if got := view.BestScores[aid.String()]; got != 90 {
		t.Fatalf("best score: got=%d", got)
	}
}
