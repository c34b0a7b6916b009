package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type QuestionRepo interface {
	// ListByAssessmentID returns questions in display (position) order.
	ListByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.Question, error)
	// ReplaceForAssessment deletes the current question set and inserts rows, numbering positions in slice order.
	ReplaceForAssessment(dbc dbctx.Context, assessmentID uuid.UUID, rows []*types.Question) error
	DeleteByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *questionRepo) ListByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.Question, error) {
	out := []*types.Question{}
	if assessmentID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assessment_id = ?", assessmentID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) ReplaceForAssessment(dbc dbctx.Context, assessmentID uuid.UUID, rows []*types.Question) error {
	if assessmentID == uuid.Nil {
		return nil
	}
	if err := r.DeleteByAssessmentID(dbc, assessmentID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i, q := range rows {
		if q == nil {
			continue
		}
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.AssessmentID = assessmentID
		q.Position = i
		q.CreatedAt = now
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(&rows).Error
}

func (r *questionRepo) DeleteByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) error {
	if assessmentID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assessment_id = ?", assessmentID).
		Delete(&types.Question{}).Error
}
