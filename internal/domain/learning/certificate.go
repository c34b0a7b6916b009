package learning

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_certificate_user_course,priority:1" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course,priority:2" json:"course_id"`
	Number   string    `gorm:"column:number;not null;uniqueIndex" json:"number"`
	IssuedAt time.Time `gorm:"column:issued_at;not null" json:"issued_at"`
}

func (Certificate) TableName() string { return "certificate" }
