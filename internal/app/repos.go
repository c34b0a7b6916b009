package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	Course           repos.CourseRepo
	Chapter          repos.ChapterRepo
	Assessment       repos.AssessmentRepo
	Question         repos.QuestionRepo
	Enrollment       repos.EnrollmentRepo
	ChapterProgress  repos.ChapterProgressRepo
	AssessmentResult repos.AssessmentResultRepo
	Certificate      repos.CertificateRepo
	Discussion       repos.DiscussionRepo
	Reply            repos.ReplyRepo
	Like             repos.LikeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		Course:           repos.NewCourseRepo(db, log),
		Chapter:          repos.NewChapterRepo(db, log),
		Assessment:       repos.NewAssessmentRepo(db, log),
		Question:         repos.NewQuestionRepo(db, log),
		Enrollment:       repos.NewEnrollmentRepo(db, log),
		ChapterProgress:  repos.NewChapterProgressRepo(db, log),
		AssessmentResult: repos.NewAssessmentResultRepo(db, log),
		Certificate:      repos.NewCertificateRepo(db, log),
		Discussion:       repos.NewDiscussionRepo(db, log),
		Reply:            repos.NewReplyRepo(db, log),
		Like:             repos.NewLikeRepo(db, log),
	}
}
