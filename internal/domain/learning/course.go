package learning

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID string    `gorm:"column:owner_user_id;type:varchar(255);not null;index" json:"owner_user_id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	// ResearchNotes is the content of the research page unlocked once every published chapter is complete.
	ResearchNotes string `gorm:"column:research_notes;type:text" json:"-"`
	IsPublished   bool   `gorm:"column:is_published;not null;index" json:"is_published"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
