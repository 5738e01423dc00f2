package models

import (
	"time"
)

// InviteGrant is one row of the jti ledger. Tokens themselves are never
// persisted; redeeming stamps used_at exactly once, so a second attempt for
// the same jti reads back a non-NULL used_at and is rejected.
type InviteGrant struct {
	JTI       string     `gorm:"primaryKey;type:varchar(64)" json:"jti"`
	IssuerID  uint       `gorm:"not null;index" json:"issuer_id"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (InviteGrant) TableName() string {
	return "invite_jti_ledger"
}
