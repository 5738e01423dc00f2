package services

import (
	"time"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/pkg/errors"
)

type ReportService struct {
	repo     *repositories.ReportRepository
	userRepo *repositories.UserRepository
	notify   *NotifyService
}

func NewReportService(repo *repositories.ReportRepository, userRepo *repositories.UserRepository, notify *NotifyService) *ReportService {
	return &ReportService{
		repo:     repo,
		userRepo: userRepo,
		notify:   notify,
	}
}

// Create files a report against another user and fires the admin alert.
func (s *ReportService) Create(reporterID, reportedID uint, category, details string) (*models.Report, error) {
	if reporterID == reportedID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot report yourself")
	}

	category = security.SanitizeText(category)
	if category == "" {
		return nil, errors.New(errors.ErrCodeValidation, "category is required")
	}

	if _, err := s.userRepo.GetUserByID(reportedID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Category:   category,
		Details:    security.SanitizeText(details),
		Status:     models.ReportStatusOpen,
	}
	if err := s.repo.Create(report); err != nil {
		return nil, err
	}

	// advisory, never blocks the insert
	go s.notify.NotifyNewReport(report)

	return report, nil
}

// SetStatus performs an admin triage transition.
func (s *ReportService) SetStatus(adminID, reportID uint, to, notes string) (*models.Report, error) {
	admin, err := s.repo.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, errors.New(errors.ErrCodeForbidden, "admin access required")
	}

	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransitionReport(report.Status, to) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid report status transition")
	}

	now := time.Now()
	report.Status = to
	report.ReviewedBy = &adminID
	report.ReviewedAt = &now
	if notes != "" {
		report.ResolutionNotes = security.SanitizeText(notes)
	}

	if err := s.repo.Save(report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns reports for admin triage.
func (s *ReportService) List(adminID uint, since, until *time.Time, status string) ([]models.Report, error) {
	admin, err := s.repo.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, errors.New(errors.ErrCodeForbidden, "admin access required")
	}
	return s.repo.List(since, until, status)
}

// IsAdmin exposes the allow-list check.
func (s *ReportService) IsAdmin(userID uint) (bool, error) {
	return s.repo.IsAdmin(userID)
}
