package repositories

import (
	"time"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report
func (r *ReportRepository) Create(report *models.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create report")
	}
	return nil
}

// GetByID retrieves a report by primary key
func (r *ReportRepository) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	result := r.db.First(&report, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get report")
	}
	return &report, nil
}

// Save persists triage mutations
func (r *ReportRepository) Save(report *models.Report) error {
	if err := r.db.Save(report).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save report")
	}
	return nil
}

// List returns reports newest first, optionally bounded by creation time
func (r *ReportRepository) List(since, until *time.Time, status string) ([]models.Report, error) {
	var reports []models.Report

	q := r.db.Order("created_at DESC")
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if until != nil {
		q = q.Where("created_at <= ?", *until)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Find(&reports).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list reports")
	}
	return reports, nil
}

// IsAdmin checks the admin allow-list
func (r *ReportRepository) IsAdmin(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check admin list")
	}
	return count > 0, nil
}

// DeleteByReporter removes reports filed by the user
func (r *ReportRepository) DeleteByReporter(userID uint) error {
	err := r.db.Where("reporter_id = ?", userID).Delete(&models.Report{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete reports")
	}
	return nil
}
