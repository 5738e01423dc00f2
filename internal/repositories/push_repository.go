package repositories

import (
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushRepository struct {
	db *gorm.DB
}

func NewPushRepository(db *gorm.DB) *PushRepository {
	return &PushRepository{db: db}
}

// Upsert registers a push endpoint for a user, refreshing keys on re-subscribe
func (r *PushRepository) Upsert(sub *models.PushSubscription) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save push subscription")
	}
	return nil
}

// ListForUser returns all registered endpoints of a user
func (r *PushRepository) ListForUser(userID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription

	if err := r.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list push subscriptions")
	}
	return subs, nil
}

// DeleteEndpoint prunes a single endpoint, used both for explicit
// unsubscribes and for endpoints the push service reported gone.
func (r *PushRepository) DeleteEndpoint(userID uint, endpoint string) error {
	err := r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete push subscription")
	}
	return nil
}

// DeleteForUser removes every subscription of a user
func (r *PushRepository) DeleteForUser(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&models.PushSubscription{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete push subscriptions")
	}
	return nil
}
