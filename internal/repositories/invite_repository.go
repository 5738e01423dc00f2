package repositories

import (
	"time"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// RedeemOnce stamps used_at for a jti exactly once. The grant row is upserted
// first (idempotent), then used_at is set only where it is still NULL and the
// grant is not revoked; zero rows affected means the token was already spent.
func (r *InviteRepository) RedeemOnce(jti string, issuerID uint) error {
	grant := models.InviteGrant{JTI: jti, IssuerID: issuerID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(&grant).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record invite grant")
	}

	result := r.db.Model(&models.InviteGrant{}).
		Where("jti = ? AND used_at IS NULL AND revoked_at IS NULL", jti).
		Update("used_at", time.Now())

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to redeem invite")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeConflict, "invite already used or revoked")
	}
	return nil
}

// Revoke invalidates an unused grant, e.g. when the issuer regenerates their
// invite QR.
func (r *InviteRepository) Revoke(jti string, issuerID uint) error {
	result := r.db.Model(&models.InviteGrant{}).
		Where("jti = ? AND issuer_id = ? AND used_at IS NULL AND revoked_at IS NULL", jti, issuerID).
		Update("revoked_at", time.Now())

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to revoke invite")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "invite not found or already settled")
	}
	return nil
}

// GetGrant looks up a ledger row
func (r *InviteRepository) GetGrant(jti string) (*models.InviteGrant, error) {
	var grant models.InviteGrant
	result := r.db.Where("jti = ?", jti).First(&grant)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "invite not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get invite")
	}
	return &grant, nil
}
