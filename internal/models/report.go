package models

import (
	"time"
)

type Report struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ReporterID      uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter        User       `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"-"`
	ReportedID      uint       `gorm:"not null;index" json:"reported_id"`
	Reported        User       `gorm:"foreignKey:ReportedID;constraint:OnDelete:CASCADE" json:"-"`
	Category        string     `gorm:"type:varchar(50);not null" json:"category"`
	Details         string     `gorm:"type:text" json:"details"`
	Status          string     `gorm:"type:varchar(20);default:'open'" json:"status"`
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

// Report status constants
const (
	ReportStatusOpen     = "open"
	ReportStatusInReview = "in_review"
	ReportStatusResolved = "resolved"
)

// CanTransitionReport allows the forward path open -> in_review -> resolved
// plus reopening a resolved report. Nothing else.
func CanTransitionReport(from, to string) bool {
	switch from {
	case ReportStatusOpen:
		return to == ReportStatusInReview
	case ReportStatusInReview:
		return to == ReportStatusResolved
	case ReportStatusResolved:
		return to == ReportStatusOpen
	}
	return false
}

// Admin is the allow-list of principals who may triage reports.
type Admin struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Admin) TableName() string {
	return "app_admins"
}
