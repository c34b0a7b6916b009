package learning

import (
	"time"

	"github.com/google/uuid"
)

type ChapterProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_progress_user_chapter,priority:1" json:"user_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_chapter,priority:2" json:"chapter_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`

	VideoSeen   bool       `gorm:"column:video_seen;not null" json:"video_seen"`
	IsCompleted bool       `gorm:"column:is_completed;not null" json:"is_completed"`
	VideoSeenAt *time.Time `gorm:"column:video_seen_at" json:"video_seen_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ChapterProgress) TableName() string { return "chapter_progress" }
