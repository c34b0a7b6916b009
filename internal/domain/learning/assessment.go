package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment is the optional quiz attached to a chapter (at most one per chapter).
type Assessment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"chapter_id"`
	// PassingScore overrides the deployment-wide threshold when set.
	PassingScore *int `gorm:"column:passing_score" json:"passing_score,omitempty"`

	Questions []*Question `gorm:"-" json:"questions,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Assessment) TableName() string { return "assessment" }

// Question order is insertion order (Position) and is the order answers are matched against.
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AssessmentID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Position      int            `gorm:"column:position;not null" json:"position"`
	Prompt        string         `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Options       datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`
	CorrectAnswer string         `gorm:"column:correct_answer;not null" json:"correct_answer,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) OptionList() []string {
	if q == nil || len(q.Options) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(q.Options, &out); err != nil {
		return []string{}
	}
	return out
}
