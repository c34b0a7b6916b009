package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

type LikeAggregateDeps struct {
	Base BaseDeps

	Discussions repos.DiscussionRepo
	Replies     repos.ReplyRepo
	Likes       repos.LikeRepo
}

type likeAggregate struct {
	deps LikeAggregateDeps
}

func NewLikeAggregate(deps LikeAggregateDeps) domainagg.LikeAggregate {
	deps.Base = deps.Base.withDefaults()
	return &likeAggregate{deps: deps}
}

func (a *likeAggregate) Contract() domainagg.Contract {
	return domainagg.LikeAggregateContract
}

func (a *likeAggregate) Toggle(ctx context.Context, in domainagg.ToggleLikeInput) (domainagg.ToggleLikeResult, error) {
	const op = domainagg.OpToggleLike
	var out domainagg.ToggleLikeResult
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.TargetID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing target_id", nil)
	}
	if in.TargetKind != types.LikeTargetDiscussion && in.TargetKind != types.LikeTargetReply {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "unknown like target kind", nil)
	}
	if a.deps.Discussions == nil || a.deps.Replies == nil || a.deps.Likes == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "like aggregate repos not configured", nil)
	}
	at := atOrNow(in.At)

	err := executeWrite(ctx, a.deps.Base, domainagg.LikeAggregateContract, op, func(dbc dbctx.Context) error {
		exists, err := a.targetExists(dbc, in.TargetKind, in.TargetID)
		if err != nil {
			return err
		}
		if !exists {
			return domainagg.NewError(domainagg.CodeNotFound, op, "like target not found", nil)
		}

		existing, err := a.deps.Likes.Get(dbc, userID, in.TargetID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Zero rows removed means a concurrent toggle already unliked; the outcome is the same.
			if _, err := a.deps.Likes.Delete(dbc, userID, in.TargetID); err != nil {
				return err
			}
			out.Liked = false
		} else {
			row := &types.Like{
				ID:         uuid.New(),
				UserID:     userID,
				TargetID:   in.TargetID,
				TargetKind: in.TargetKind,
				CreatedAt:  at,
			}
			if err := a.deps.Likes.Create(dbc, row); err != nil {
				if isUniqueViolation(err) {
					return ConflictError("like already recorded")
				}
				return err
			}
			out.Liked = true
		}

		count, err := a.deps.Likes.CountByTarget(dbc, in.TargetID)
		if err != nil {
			return err
		}
		out.LikeCount = count
		return nil
	})
	if domainagg.IsCode(err, domainagg.CodeConflict) {
		// Lost the insert race: the row the other writer committed is the like.
		count, cerr := a.deps.Likes.CountByTarget(dbctx.Context{Ctx: ctx}, in.TargetID)
		if cerr != nil {
			return domainagg.ToggleLikeResult{}, MapError(op, cerr)
		}
		return domainagg.ToggleLikeResult{Liked: true, LikeCount: count}, nil
	}
	return out, err
}

func (a *likeAggregate) targetExists(dbc dbctx.Context, kind types.LikeTargetKind, id uuid.UUID) (bool, error) {
	switch kind {
	case types.LikeTargetReply:
		row, err := a.deps.Replies.GetByID(dbc, id)
		return row != nil, err
	default:
		row, err := a.deps.Discussions.GetByID(dbc, id)
		return row != nil, err
	}
}
