package models

import (
	"time"
)

// PushSubscription is one browser push endpoint registered by a user. A user
// may hold several (one per device/browser profile).
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_push_endpoint,unique" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Endpoint  string    `gorm:"type:varchar(1024);not null;index:idx_push_endpoint,unique" json:"endpoint"`
	P256dh    string    `gorm:"type:varchar(255);not null" json:"p256dh"`
	Auth      string    `gorm:"type:varchar(255);not null" json:"auth"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
