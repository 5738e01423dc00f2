package services

import (
	"context"
	"io"
	"time"

	"github.com/trymedating/trymed/internal/events"
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/internal/storage"
	"github.com/trymedating/trymed/pkg/errors"
	"github.com/trymedating/trymed/pkg/logger"
)

type ChatService struct {
	msgRepo   *repositories.MessageRepository
	connRepo  *repositories.ConnectionRepository
	files     *storage.FileStore
	bus       events.Publisher
	activeBus *events.Bus
	notify    *NotifyService
	maxUpload int64
}

func NewChatService(msgRepo *repositories.MessageRepository, connRepo *repositories.ConnectionRepository,
	files *storage.FileStore, bus events.Publisher, activeBus *events.Bus, notify *NotifyService, maxUpload int64) *ChatService {
	return &ChatService{
		msgRepo:   msgRepo,
		connRepo:  connRepo,
		files:     files,
		bus:       bus,
		activeBus: activeBus,
		notify:    notify,
		maxUpload: maxUpload,
	}
}

// List returns the full message history of a connection in creation order
func (s *ChatService) List(connectionID, userID uint) ([]models.Message, error) {
	if _, err := s.authorize(connectionID, userID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListByConnection(connectionID)
}

// SendText sends a plain text message. Empty (after trimming) bodies are
// rejected before any write, and sends are only allowed on accepted
// connections.
func (s *ChatService) SendText(connectionID, senderID uint, body string) (*models.Message, error) {
	conn, err := s.authorize(connectionID, senderID)
	if err != nil {
		return nil, err
	}

	body = security.SanitizeText(body)
	if body == "" {
		return nil, errors.New(errors.ErrCodeValidation, "message body is empty")
	}
	if !conn.CanChat() {
		return nil, errors.New(errors.ErrCodeForbidden, "connection is not accepted")
	}

	msg := &models.Message{
		ConnectionID: connectionID,
		SenderID:     senderID,
		RecipientID:  conn.PeerOf(senderID),
		Kind:         models.MessageKindText,
		Body:         body,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, err
	}

	s.publishMessage(msg)
	return msg, nil
}

// SendAttachment stores the upload first and only then inserts the message;
// an upload failure aborts the send with nothing persisted.
func (s *ChatService) SendAttachment(connectionID, senderID uint, name, mimeType string, size int64, r io.Reader) (*models.Message, error) {
	conn, err := s.authorize(connectionID, senderID)
	if err != nil {
		return nil, err
	}
	if !conn.CanChat() {
		return nil, errors.New(errors.ErrCodeForbidden, "connection is not accepted")
	}

	if !security.ValidateAttachmentType(mimeType) {
		return nil, errors.New(errors.ErrCodeValidationFailed, "attachment type not allowed")
	}
	if size > 0 && !security.ValidateAttachmentSize(size, s.maxUpload) {
		return nil, errors.New(errors.ErrCodeValidationFailed, "attachment exceeds size limit")
	}

	path, written, err := s.files.Save(connectionID, name, r)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConnectionID: connectionID,
		SenderID:     senderID,
		RecipientID:  conn.PeerOf(senderID),
		Kind:         models.MessageKindAttachment,
		FileName:     name,
		FileType:     mimeType,
		FileSize:     written,
		FilePath:     path,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		// keep storage consistent with the aborted send
		if rmErr := s.files.Remove(path); rmErr != nil {
			logger.Warn("Failed to remove orphaned attachment", "path", path, "error", rmErr)
		}
		return nil, err
	}

	s.publishMessage(msg)
	return msg, nil
}

// OpenAttachment streams a stored attachment to a participant
func (s *ChatService) OpenAttachment(messageID, userID uint) (io.ReadCloser, *models.Message, error) {
	msg, err := s.msgRepo.GetByID(messageID)
	if err != nil {
		return nil, nil, err
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		return nil, nil, errors.New(errors.ErrCodeForbidden, "not a party to this message")
	}
	if msg.Kind != models.MessageKindAttachment {
		return nil, nil, errors.New(errors.ErrCodeValidation, "message has no attachment")
	}

	rc, err := s.files.Open(msg.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return rc, msg, nil
}

// MarkRead stamps the caller's unread messages on a connection and pushes a
// fresh unread count.
func (s *ChatService) MarkRead(connectionID, userID uint) error {
	if _, err := s.authorize(connectionID, userID); err != nil {
		return err
	}

	affected, err := s.msgRepo.MarkRead(connectionID, userID)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.publishUnread(userID)
	}
	return nil
}

// UnreadCount returns the user's total unread message count
func (s *ChatService) UnreadCount(userID uint) (int64, error) {
	return s.msgRepo.CountUnread(userID)
}

// RunUnreadReconciler periodically re-broadcasts unread counts to connected
// subscribers. The event-driven path is authoritative; this coarse tick only
// repairs counts after dropped events or reconnects.
func (s *ChatService) RunUnreadReconciler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, uid := range s.activeBus.ActiveUsers() {
				s.publishUnread(uid)
			}
		}
	}
}

func (s *ChatService) authorize(connectionID, userID uint) (*models.Connection, error) {
	conn, err := s.connRepo.GetByID(connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.Involves(userID) {
		return nil, errors.New(errors.ErrCodeForbidden, "not a party to this connection")
	}
	return conn, nil
}

func (s *ChatService) publishMessage(msg *models.Message) {
	preview := msg.Body
	if msg.Kind == models.MessageKindAttachment {
		preview = "📎 " + msg.FileName
	}
	preview = security.Truncate(preview, 120)

	s.bus.Publish(events.Event{
		Type:   events.TypeMessageNew,
		UserID: msg.RecipientID,
		Payload: map[string]interface{}{
			"connection_id": msg.ConnectionID,
			"message_id":    msg.ID,
			"sender_id":     msg.SenderID,
			"kind":          msg.Kind,
			"preview":       preview,
		},
	})
	s.publishUnread(msg.RecipientID)

	if s.notify != nil {
		go s.notify.NotifyNewMessage(msg)
	}
}

func (s *ChatService) publishUnread(userID uint) {
	count, err := s.msgRepo.CountUnread(userID)
	if err != nil {
		logger.Warn("Failed to count unread messages", "user_id", userID, "error", err)
		return
	}
	s.bus.Publish(events.Event{
		Type:    events.TypeUnreadCount,
		UserID:  userID,
		Payload: map[string]interface{}{"count": count},
	})
}
