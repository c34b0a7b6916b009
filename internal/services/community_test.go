package services

import (
	"strings"
	"testing"

	repotest "github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	student := f.student(t)
	course := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	ch := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 1, true)
	repotest.SeedEnrollment(t, f.ctx, f.db, student.ID, course.ID)
	ctx := as(f.ctx, student.ID)

	d, err := f.discussion.CreateDiscussion(ctx, course.ID, ch.ID, "  why is the sky blue?  ")
	if err != nil {
		t.Fatalf("create discussion: %v", err)
	}
	if d.Body != "why is the sky blue?" {
		t.Fatalf("body should be trimmed, got %q", d.Body)
	}

	on, err := f.discussion.ToggleLike(ctx, d.ID, types.LikeTargetDiscussion)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !on.Liked || on.LikeCount != 1 {
		t.Fatalf("like: %+v", on)
	}
	off, err := f.discussion.ToggleLike(ctx, d.ID, "discussion")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if off.Liked || off.LikeCount != 0 {
		t.Fatalf("unlike: %+v", off)
	}
	var n int64
	f.db.Model(&types.Like{}).Where("target_id = ?", d.ID).Count(&n)
	if n != 0 {
		t.Fatalf("like rows: want 0 got %d", n)
	}
}

func TestToggleLikeRequiresMembership(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	author := f.student(t)
	outsider := f.student(t)
	course := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	ch := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 1, true)
	repotest.SeedEnrollment(t, f.ctx, f.db, author.ID, course.ID)

	d, err := f.discussion.CreateDiscussion(as(f.ctx, author.ID), course.ID, ch.ID, "hello")
	if err != nil {
		t.Fatalf("create discussion: %v", err)
	}
	if _, err := f.discussion.ToggleLike(as(f.ctx, outsider.ID), d.ID, types.LikeTargetDiscussion); !domainagg.IsCode(err, domainagg.CodeNotEnrolled) {
		t.Fatalf("outsider like: want not_enrolled got %v", err)
	}
	if _, err := f.discussion.ToggleLike(as(f.ctx, owner.ID), d.ID, types.LikeTargetDiscussion); err != nil {
		t.Fatalf("owner like: %v", err)
	}
	if _, err := f.discussion.ToggleLike(as(f.ctx, author.ID), d.ID, "POLL"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown kind: want validation got %v", err)
	}
}

func TestListDiscussionsReportsCounts(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	alice := f.student(t)
	bob := f.student(t)
	course := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	ch := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 1, true)
	repotest.SeedEnrollment(t, f.ctx, f.db, alice.ID, course.ID)
	repotest.SeedEnrollment(t, f.ctx, f.db, bob.ID, course.ID)
	aliceCtx := as(f.ctx, alice.ID)
	bobCtx := as(f.ctx, bob.ID)

	d, err := f.discussion.CreateDiscussion(aliceCtx, course.ID, ch.ID, "thread")
	if err != nil {
		t.Fatalf("create discussion: %v", err)
	}
	r, err := f.discussion.CreateReply(bobCtx, d.ID, "answer")
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if _, err := f.discussion.ToggleLike(bobCtx, d.ID, types.LikeTargetDiscussion); err != nil {
		t.Fatalf("like discussion: %v", err)
	}
	if _, err := f.discussion.ToggleLike(aliceCtx, r.ID, types.LikeTargetReply); err != nil {
		t.Fatalf("like reply: %v", err)
	}

	threads, err := f.discussion.ListDiscussions(aliceCtx, course.ID, ch.ID, 0)
	if err != nil {
		t.Fatalf("list discussions: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("threads: want 1 got %d", len(threads))
	}
	if threads[0].ReplyCount != 1 || threads[0].LikeCount != 1 || threads[0].LikedByMe {
		t.Fatalf("thread view for alice: %+v", threads[0])
	}

	replies, err := f.discussion.ListReplies(aliceCtx, d.ID)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(replies) != 1 || replies[0].LikeCount != 1 || !replies[0].LikedByMe {
		t.Fatalf("reply view for alice: %+v", replies)
	}
}

func TestCreateDiscussionValidation(t *testing.T) {
	f := newFixture(t, learning.AccessPolicy{})
	owner := f.admin(t)
	student := f.student(t)
	course := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	ch := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 1, true)
	draft := repotest.SeedChapter(t, f.ctx, f.db, course.ID, 2, false)
	other := repotest.SeedCourse(t, f.ctx, f.db, owner.ID, true)
	foreign := repotest.SeedChapter(t, f.ctx, f.db, other.ID, 1, true)
	repotest.SeedEnrollment(t, f.ctx, f.db, student.ID, course.ID)
	ctx := as(f.ctx, student.ID)

	cases := []struct {
		name      string
		chapterID func() types.Chapter
		body      string
		want      domainagg.ErrorCode
	}{
		{"blank body", func() types.Chapter { return *ch }, "   ", domainagg.CodeValidation},
		{"too long", func() types.Chapter { return *ch }, strings.Repeat("x", maxPostRunes+1), domainagg.CodeValidation},
		{"unpublished chapter", func() types.Chapter { return *draft }, "hi", domainagg.CodeNotFound},
		{"chapter of another course", func() types.Chapter { return *foreign }, "hi", domainagg.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := tc.chapterID()
			_, err := f.discussion.CreateDiscussion(ctx, course.ID, target.ID, tc.body)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want %s got %v", tc.want, err)
			}
		})
	}
}
