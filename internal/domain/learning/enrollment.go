package learning

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is created once per (user, course) and never transitions afterwards.
type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_enrollment_user_course,priority:1" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:2;index" json:"course_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollment" }
