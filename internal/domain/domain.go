package domain

import (
	"github.com/yungbote/courseware-backend/internal/domain/community"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/domain/user"
)

type User = user.User
type Role = user.Role

const (
	RoleStudent = user.RoleStudent
	RoleAdmin   = user.RoleAdmin
)

type Course = learning.Course
type Chapter = learning.Chapter
type Assessment = learning.Assessment
type Question = learning.Question
type Enrollment = learning.Enrollment
type ChapterProgress = learning.ChapterProgress
type AssessmentResult = learning.AssessmentResult
type Certificate = learning.Certificate

type ChapterState = learning.ChapterState
type CompletionSummary = learning.CompletionSummary
type AccessView = learning.AccessView

type Discussion = community.Discussion
type Reply = community.Reply
type Like = community.Like
type LikeTargetKind = community.LikeTargetKind

const (
	LikeTargetDiscussion = community.LikeTargetDiscussion
	LikeTargetReply      = community.LikeTargetReply
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Chapter{},
		&Assessment{},
		&Question{},
		&Enrollment{},
		&ChapterProgress{},
		&AssessmentResult{},
		&Certificate{},
		&Discussion{},
		&Reply{},
		&Like{},
	}
}
