package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentResult rows are append-only; every submission is kept as history.
type AssessmentResult struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"column:user_id;type:varchar(255);not null;index:idx_result_user_assessment,priority:1" json:"user_id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_result_user_assessment,priority:2" json:"assessment_id"`
	ChapterID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Score        int            `gorm:"column:score;not null" json:"score"`
	IsPassed     bool           `gorm:"column:is_passed;not null" json:"is_passed"`
	Answers      datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (AssessmentResult) TableName() string { return "assessment_result" }
