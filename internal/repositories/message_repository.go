package repositories

import (
	"time"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(msg *models.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create message")
	}
	return nil
}

// GetByID retrieves a message by primary key
func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var msg models.Message
	result := r.db.First(&msg, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "message not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get message")
	}
	return &msg, nil
}

// ListByConnection returns all messages on a connection in creation order.
// The id tie-break keeps same-timestamp messages stable.
func (r *MessageRepository) ListByConnection(connectionID uint) ([]models.Message, error) {
	var msgs []models.Message

	err := r.db.Where("connection_id = ?", connectionID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list messages")
	}
	return msgs, nil
}

// MarkRead stamps read_at on the recipient's unread messages of a connection
func (r *MessageRepository) MarkRead(connectionID, recipientID uint) (int64, error) {
	result := r.db.Model(&models.Message{}).
		Where("connection_id = ? AND recipient_id = ? AND read_at IS NULL", connectionID, recipientID).
		Update("read_at", time.Now())

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark messages read")
	}
	return result.RowsAffected, nil
}

// CountUnread returns how many messages addressed to the user are unread
func (r *MessageRepository) CountUnread(userID uint) (int64, error) {
	var count int64

	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count unread messages")
	}
	return count, nil
}

// ListAttachmentPaths collects storage paths of every attachment on the
// user's messages, sent or received, including rows still carrying the
// legacy sentinel body. Deleting a user removes both directions, so both
// directions must be harvested or the peer's files orphan on disk.
func (r *MessageRepository) ListAttachmentPaths(userID uint) ([]string, error) {
	var msgs []models.Message

	err := r.db.Select("kind, body, file_path").
		Where("(sender_id = ? OR recipient_id = ?) AND (kind = ? OR body LIKE ?)",
			userID, userID, models.MessageKindAttachment, "[[file:%").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list attachments")
	}

	seen := make(map[string]bool)
	var paths []string
	for _, m := range msgs {
		p := m.FilePath
		if p == "" {
			if meta, ok := models.DecodeLegacyAttachment(m.Body); ok {
				p = meta.Path
			}
		}
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// DeleteForUser removes every message the user sent or received
func (r *MessageRepository) DeleteForUser(userID uint) error {
	err := r.db.Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Delete(&models.Message{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete messages")
	}
	return nil
}
