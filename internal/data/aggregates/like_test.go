package aggregates

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func (h *harness) seedDiscussion(t *testing.T) *types.Discussion {
	t.Helper()
	_, course, chapters := h.publishedCourse(t, 1)
	d := &types.Discussion{CourseID: course.ID, ChapterID: chapters[0].ID, UserID: "author", Body: "question"}
	if err := h.discussions.Create(h.dbc, d); err != nil {
		t.Fatalf("seed discussion: %v", err)
	}
	return d
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	h := newHarness(t)
	d := h.seedDiscussion(t)
	agg := h.likeAgg(nil)
	in := domainagg.ToggleLikeInput{UserID: "u1", TargetID: d.ID, TargetKind: types.LikeTargetDiscussion}

	on, err := agg.Toggle(h.ctx, in)
	if err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	if !on.Liked || on.LikeCount != 1 {
		t.Fatalf("first Toggle: %+v", on)
	}
	off, err := agg.Toggle(h.ctx, in)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if off.Liked || off.LikeCount != 0 {
		t.Fatalf("second Toggle: %+v", off)
	}
}

func TestToggleLikeLostInsertRaceReportsLiked(t *testing.T) {
	h := newHarness(t)
	d := h.seedDiscussion(t)
	if err := h.likes.Create(h.dbc, &types.Like{UserID: "u1", TargetID: d.ID, TargetKind: types.LikeTargetDiscussion}); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	res, err := h.likeAgg(staleLikeRepo{h.likes}).Toggle(h.ctx, domainagg.ToggleLikeInput{
		UserID:     "u1",
		TargetID:   d.ID,
		TargetKind: types.LikeTargetDiscussion,
	})
	if err != nil {
		t.Fatalf("Toggle after lost race should not surface an error: %v", err)
	}
	if !res.Liked || res.LikeCount != 1 {
		t.Fatalf("lost race result: %+v", res)
	}
	if n := h.writes.count(domainagg.CodeConflict); n != 1 {
		t.Fatalf("lost race should report one conflict, got %d", n)
	}
}

func TestToggleLikeUnknownTarget(t *testing.T) {
	h := newHarness(t)
	_, err := h.likeAgg(nil).Toggle(h.ctx, domainagg.ToggleLikeInput{
		UserID:     "u1",
		TargetID:   uuid.New(),
		TargetKind: types.LikeTargetReply,
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("want not_found got %v", err)
	}
}
