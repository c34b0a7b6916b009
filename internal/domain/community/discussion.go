package community

import (
	"time"

	"github.com/google/uuid"
)

type Discussion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;index" json:"chapter_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(255);not null;index" json:"user_id"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Discussion) TableName() string { return "discussion" }

type Reply struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DiscussionID uuid.UUID `gorm:"type:uuid;not null;index" json:"discussion_id"`
	UserID       string    `gorm:"column:user_id;type:varchar(255);not null;index" json:"user_id"`
	Body         string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Reply) TableName() string { return "reply" }
