package aggregates

import (
	"strings"
	"testing"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func TestIssueCertificateRequiresCompletion(t *testing.T) {
	h := newHarness(t)
	_, course, chapters := h.publishedCourse(t, 2)
	student := h.enrolledStudent(t, course)
	certs := h.certificateAgg()
	progress := h.progressAgg()

	if _, err := progress.MarkChapterWatched(h.ctx, domainagg.MarkChapterWatchedInput{UserID: student.ID, ChapterID: chapters[0].ID}); err != nil {
		t.Fatalf("MarkChapterWatched: %v", err)
	}
	_, err := certs.Issue(h.ctx, domainagg.IssueCertificateInput{UserID: student.ID, CourseID: course.ID})
	if !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("incomplete course: want forbidden got %v", err)
	}

	if _, err := progress.MarkChapterWatched(h.ctx, domainagg.MarkChapterWatchedInput{UserID: student.ID, ChapterID: chapters[1].ID}); err != nil {
		t.Fatalf("MarkChapterWatched: %v", err)
	}
	first, err := certs.Issue(h.ctx, domainagg.IssueCertificateInput{UserID: student.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !first.Created || !strings.HasPrefix(first.Certificate.Number, "CW-") {
		t.Fatalf("first issue: %+v", first.Certificate)
	}

	again, err := certs.Issue(h.ctx, domainagg.IssueCertificateInput{UserID: student.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if again.Created || again.Certificate.ID != first.Certificate.ID {
		t.Fatalf("second issue should return the existing certificate: %+v", again)
	}
}
