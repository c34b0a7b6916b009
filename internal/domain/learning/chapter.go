package learning

import (
	"time"

	"github.com/google/uuid"
)

// Chapter positions are unique per course; gaps are allowed and only relative order matters.
type Chapter struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_course_position,priority:1" json:"course_id"`
	Position int       `gorm:"column:position;not null;uniqueIndex:idx_chapter_course_position,priority:2" json:"position"`

	Title          string `gorm:"column:title;not null" json:"title"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	VideoURL       string `gorm:"column:video_url" json:"video_url"`
	AttachmentURL  string `gorm:"column:attachment_url" json:"attachment_url,omitempty"`
	AttachmentName string `gorm:"column:attachment_name" json:"attachment_name,omitempty"`
	IsPublished    bool   `gorm:"column:is_published;not null;index" json:"is_published"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }
