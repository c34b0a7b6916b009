package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/community"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

const maxPostRunes = 10000

type DiscussionView struct {
	*types.Discussion
	ReplyCount int64 `json:"reply_count"`
	LikeCount  int64 `json:"like_count"`
	LikedByMe  bool  `json:"liked_by_me"`
}

type ReplyView struct {
	*types.Reply
	LikeCount int64 `json:"like_count"`
	LikedByMe bool  `json:"liked_by_me"`
}

type LikeView = domainagg.ToggleLikeResult

type DiscussionService interface {
	CreateDiscussion(ctx context.Context, courseID, chapterID uuid.UUID, body string) (*types.Discussion, error)
	ListDiscussions(ctx context.Context, courseID, chapterID uuid.UUID, limit int) ([]*DiscussionView, error)
	CreateReply(ctx context.Context, discussionID uuid.UUID, body string) (*types.Reply, error)
	ListReplies(ctx context.Context, discussionID uuid.UUID) ([]*ReplyView, error)
	ToggleLike(ctx context.Context, targetID uuid.UUID, kind types.LikeTargetKind) (LikeView, error)
}

type DiscussionServiceDeps struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Users       repos.UserRepo
	Courses     repos.CourseRepo
	Chapters    repos.ChapterRepo
	Enrollments repos.EnrollmentRepo
	Discussions repos.DiscussionRepo
	Replies     repos.ReplyRepo
	Likes       repos.LikeRepo
	Aggregate   domainagg.LikeAggregate
	Timeout     time.Duration
}

type discussionService struct {
	deps DiscussionServiceDeps
	log  *logger.Logger
}

func NewDiscussionService(deps DiscussionServiceDeps) DiscussionService {
	return &discussionService{deps: deps, log: deps.Log.With("service", "DiscussionService")}
}

// requireParticipant admits enrolled learners and the course owner.
func (s *discussionService) requireParticipant(dbc dbctx.Context, op, userID string, courseID uuid.UUID) (*courseAudience, error) {
	aud, err := loadCourseAudience(dbc, op, s.deps.Users, s.deps.Courses, s.deps.Enrollments, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !aud.IsOwner && aud.Enrollment == nil {
		return nil, notEnrolled(op)
	}
	return aud, nil
}

func (s *discussionService) chapterInCourse(dbc dbctx.Context, op string, aud *courseAudience, chapterID uuid.UUID) error {
	chapter, err := s.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return mapReadErr(op, err)
	}
	if chapter == nil || chapter.CourseID != aud.Course.ID || (!chapter.IsPublished && !aud.IsOwner) {
		return notFound(op, "chapter")
	}
	return nil
}

func normalizeBody(op, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", validation(op, "body is required")
	}
	if utf8.RuneCountInString(body) > maxPostRunes {
		return "", validation(op, "body is too long")
	}
	return body, nil
}

func (s *discussionService) CreateDiscussion(ctx context.Context, courseID, chapterID uuid.UUID, body string) (*types.Discussion, error) {
	const op = "Community.Discussion.Create"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	body, err = normalizeBody(op, body)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	aud, err := s.requireParticipant(dbc, op, userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.chapterInCourse(dbc, op, aud, chapterID); err != nil {
		return nil, err
	}
	row := &types.Discussion{CourseID: courseID, ChapterID: chapterID, UserID: userID, Body: body}
	if err := s.deps.Discussions.Create(dbc, row); err != nil {
		return nil, mapReadErr(op, err)
	}
	return row, nil
}

func (s *discussionService) ListDiscussions(ctx context.Context, courseID, chapterID uuid.UUID, limit int) ([]*DiscussionView, error) {
	const op = "Community.Discussion.List"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	aud, err := s.requireParticipant(dbc, op, userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.chapterInCourse(dbc, op, aud, chapterID); err != nil {
		return nil, err
	}
	rows, err := s.deps.Discussions.ListByChapter(dbc, chapterID, limit)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, d := range rows {
		ids = append(ids, d.ID)
	}
	replyCounts, err := s.deps.Replies.CountByDiscussions(dbc, ids)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	likeCounts, liked, err := s.likeState(dbc, userID, ids)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	out := make([]*DiscussionView, 0, len(rows))
	for _, d := range rows {
		out = append(out, &DiscussionView{
			Discussion: d,
			ReplyCount: replyCounts[d.ID],
			LikeCount:  likeCounts[d.ID],
			LikedByMe:  liked[d.ID],
		})
	}
	return out, nil
}

func (s *discussionService) likeState(dbc dbctx.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]int64, map[uuid.UUID]bool, error) {
	counts, err := s.deps.Likes.CountByTargets(dbc, ids)
	if err != nil {
		return nil, nil, err
	}
	liked, err := s.deps.Likes.ListLikedTargets(dbc, userID, ids)
	if err != nil {
		return nil, nil, err
	}
	return counts, liked, nil
}

func (s *discussionService) loadDiscussion(dbc dbctx.Context, op, userID string, discussionID uuid.UUID) (*types.Discussion, error) {
	d, err := s.deps.Discussions.GetByID(dbc, discussionID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	if d == nil {
		return nil, notFound(op, "discussion")
	}
	if _, err := s.requireParticipant(dbc, op, userID, d.CourseID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *discussionService) CreateReply(ctx context.Context, discussionID uuid.UUID, body string) (*types.Reply, error) {
	const op = "Community.Reply.Create"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	body, err = normalizeBody(op, body)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.loadDiscussion(dbc, op, userID, discussionID); err != nil {
		return nil, err
	}
	row := &types.Reply{DiscussionID: discussionID, UserID: userID, Body: body}
	if err := s.deps.Replies.Create(dbc, row); err != nil {
		return nil, mapReadErr(op, err)
	}
	return row, nil
}

func (s *discussionService) ListReplies(ctx context.Context, discussionID uuid.UUID) ([]*ReplyView, error) {
	const op = "Community.Reply.List"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.loadDiscussion(dbc, op, userID, discussionID); err != nil {
		return nil, err
	}
	rows, err := s.deps.Replies.ListByDiscussion(dbc, discussionID)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts, liked, err := s.likeState(dbc, userID, ids)
	if err != nil {
		return nil, mapReadErr(op, err)
	}
	out := make([]*ReplyView, 0, len(rows))
	for _, r := range rows {
		out = append(out, &ReplyView{Reply: r, LikeCount: counts[r.ID], LikedByMe: liked[r.ID]})
	}
	return out, nil
}

func (s *discussionService) ToggleLike(ctx context.Context, targetID uuid.UUID, kind types.LikeTargetKind) (LikeView, error) {
	const op = "Community.Like.Toggle"
	userID, err := callerID(ctx, op)
	if err != nil {
		return LikeView{}, err
	}
	kind, ok := community.ParseLikeTargetKind(string(kind))
	if !ok {
		return LikeView{}, validation(op, "unknown like target kind")
	}
	opCtx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: opCtx}

	courseID, err := s.targetCourse(dbc, op, targetID, kind)
	if err != nil {
		return LikeView{}, err
	}
	if _, err := s.requireParticipant(dbc, op, userID, courseID); err != nil {
		return LikeView{}, err
	}
	res, err := s.deps.Aggregate.Toggle(opCtx, domainagg.ToggleLikeInput{UserID: userID, TargetID: targetID, TargetKind: kind})
	if err != nil {
		return LikeView{}, err
	}
	s.deps.Metrics.IncLikeToggle(string(kind), res.Liked)
	return res, nil
}

// targetCourse resolves the course a like target belongs to.
func (s *discussionService) targetCourse(dbc dbctx.Context, op string, targetID uuid.UUID, kind types.LikeTargetKind) (uuid.UUID, error) {
	discussionID := targetID
	if kind == types.LikeTargetReply {
		reply, err := s.deps.Replies.GetByID(dbc, targetID)
		if err != nil {
			return uuid.Nil, mapReadErr(op, err)
		}
		if reply == nil {
			return uuid.Nil, notFound(op, "reply")
		}
		discussionID = reply.DiscussionID
	}
	d, err := s.deps.Discussions.GetByID(dbc, discussionID)
	if err != nil {
		return uuid.Nil, mapReadErr(op, err)
	}
	if d == nil {
		return uuid.Nil, notFound(op, "discussion")
	}
	return d.CourseID, nil
}
