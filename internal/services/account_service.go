package services

import (
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/storage"
	"github.com/trymedating/trymed/pkg/logger"
)

// AccountService handles full account deletion: stored attachment files
// first (best-effort), then the user's rows. Database-level cascades cover
// anything referencing the user row itself.
type AccountService struct {
	userRepo *repositories.UserRepository
	connRepo *repositories.ConnectionRepository
	msgRepo  *repositories.MessageRepository
	pushRepo *repositories.PushRepository
	repRepo  *repositories.ReportRepository
	files    *storage.FileStore
}

func NewAccountService(userRepo *repositories.UserRepository, connRepo *repositories.ConnectionRepository,
	msgRepo *repositories.MessageRepository, pushRepo *repositories.PushRepository,
	repRepo *repositories.ReportRepository, files *storage.FileStore) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		connRepo: connRepo,
		msgRepo:  msgRepo,
		pushRepo: pushRepo,
		repRepo:  repRepo,
		files:    files,
	}
}

// Delete removes the account and everything it owns.
func (s *AccountService) Delete(userID uint) error {
	paths, err := s.msgRepo.ListAttachmentPaths(userID)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := s.files.Remove(p); err != nil {
			logger.Warn("Failed to remove attachment during account deletion",
				"user_id", userID, "path", p, "error", err)
		}
	}

	if err := s.msgRepo.DeleteForUser(userID); err != nil {
		return err
	}
	if err := s.connRepo.DeleteForUser(userID); err != nil {
		return err
	}
	if err := s.pushRepo.DeleteForUser(userID); err != nil {
		return err
	}
	if err := s.repRepo.DeleteByReporter(userID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(userID); err != nil {
		return err
	}

	logger.Info("Account deleted", "user_id", userID)
	return nil
}
