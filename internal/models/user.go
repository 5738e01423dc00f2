package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Handle       string    `gorm:"uniqueIndex;type:varchar(32);not null" json:"handle"`
	Email        string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	DisplayName  string    `gorm:"type:varchar(255)" json:"display_name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	AvatarPath   string    `gorm:"type:varchar(500)" json:"avatar_path"`
	LastActivity time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"last_activity"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
