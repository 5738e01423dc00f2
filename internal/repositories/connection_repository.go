package repositories

import (
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
	"gorm.io/gorm"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// GetByID retrieves a connection by primary key
func (r *ConnectionRepository) GetByID(id uint) (*models.Connection, error) {
	var conn models.Connection
	result := r.db.First(&conn, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "connection not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get connection")
	}
	return &conn, nil
}

// GetByPair retrieves the connection for an unordered user pair, or nil when
// no row exists yet.
func (r *ConnectionRepository) GetByPair(a, b uint) (*models.Connection, error) {
	var conn models.Connection
	result := r.db.Where("pair_key = ?", models.PairKey(a, b)).First(&conn)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get connection")
	}
	return &conn, nil
}

// Create inserts a new connection row. The unique pair_key index turns a
// racing duplicate request into a conflict instead of a second row.
func (r *ConnectionRepository) Create(conn *models.Connection) error {
	conn.PairKey = models.PairKey(conn.RequesterID, conn.AddresseeID)

	if err := r.db.Create(conn).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.New(errors.ErrCodeConflict, "connection already exists for this pair")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create connection")
	}
	return nil
}

// Save persists lifecycle mutations on an existing row
func (r *ConnectionRepository) Save(conn *models.Connection) error {
	if err := r.db.Save(conn).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save connection")
	}
	return nil
}

// ListForUser returns all connections the user is party to, optionally
// filtered by status, newest first.
func (r *ConnectionRepository) ListForUser(userID uint, status string) ([]models.Connection, error) {
	var conns []models.Connection

	q := r.db.Where("requester_id = ? OR addressee_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Order("updated_at DESC").Find(&conns).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list connections")
	}
	return conns, nil
}

// DeleteForUser removes all connections involving the user
func (r *ConnectionRepository) DeleteForUser(userID uint) error {
	err := r.db.Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Delete(&models.Connection{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete connections")
	}
	return nil
}
