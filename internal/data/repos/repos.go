package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/repos/community"
	"github.com/yungbote/courseware-backend/internal/data/repos/learning"
	"github.com/yungbote/courseware-backend/internal/data/repos/user"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type ChapterRepo = learning.ChapterRepo
type AssessmentRepo = learning.AssessmentRepo
type QuestionRepo = learning.QuestionRepo
type EnrollmentRepo = learning.EnrollmentRepo
type ChapterProgressRepo = learning.ChapterProgressRepo
type AssessmentResultRepo = learning.AssessmentResultRepo
type CertificateRepo = learning.CertificateRepo

type DiscussionRepo = community.DiscussionRepo
type ReplyRepo = community.ReplyRepo
type LikeRepo = community.LikeRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return learning.NewChapterRepo(db, baseLog)
}
func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return learning.NewAssessmentRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return learning.NewQuestionRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewChapterProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChapterProgressRepo {
	return learning.NewChapterProgressRepo(db, baseLog)
}
func NewAssessmentResultRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentResultRepo {
	return learning.NewAssessmentResultRepo(db, baseLog)
}
func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return learning.NewCertificateRepo(db, baseLog)
}

func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return community.NewDiscussionRepo(db, baseLog)
}
func NewReplyRepo(db *gorm.DB, baseLog *logger.Logger) ReplyRepo {
	return community.NewReplyRepo(db, baseLog)
}
func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return community.NewLikeRepo(db, baseLog)
}
