package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes a role string; ok is false for unknown roles.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User mirrors an auth provider account. ID is the provider subject and never changes.
type User struct {
	ID        string    `gorm:"column:id;type:varchar(255);primaryKey" json:"id"`
	Role      Role      `gorm:"column:role;type:varchar(16);not null;index" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
