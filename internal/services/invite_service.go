package services

import (
	"github.com/trymedating/trymed/internal/deeplink"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/pkg/errors"
)

type InviteService struct {
	repo     *repositories.InviteRepository
	userRepo *repositories.UserRepository
	secret   string
}

func NewInviteService(repo *repositories.InviteRepository, userRepo *repositories.UserRepository, secret string) *InviteService {
	return &InviteService{
		repo:     repo,
		userRepo: userRepo,
		secret:   secret,
	}
}

// Mint issues a short-lived single-use invite token for the caller.
func (s *InviteService) Mint(issuerID uint) (string, int64, error) {
	token, exp, _, err := security.MintInviteToken(issuerID, s.secret)
	if err != nil {
		return "", 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to mint invite")
	}
	return token, exp, nil
}

// Redeem verifies the token and spends its jti. The first redemption returns
// the issuer's user id; a second one conflicts; expired or malformed tokens
// are validation failures regardless of ledger state.
func (s *InviteService) Redeem(token string) (uint, error) {
	if token == "" {
		return 0, errors.New(errors.ErrCodeValidation, "missing token")
	}

	claims, err := security.VerifyInviteToken(token, s.secret)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeValidation, "invalid or expired token")
	}

	if err := s.repo.RedeemOnce(claims.ID, claims.PID); err != nil {
		return 0, err
	}
	return claims.PID, nil
}

// ResolveTarget turns an opaque connect parameter into a recipient user id.
// Invite tokens are redeemed (single use); otherwise the value is treated as a
// literal id, base64 payload or handle. Failures resolve to ok=false, they do
// not error.
func (s *InviteService) ResolveTarget(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}

	if pid, err := s.Redeem(raw); err == nil {
		return pid, true
	}

	if pid, ok := deeplink.ResolveRecipient(raw); ok {
		if _, err := s.userRepo.GetUserByID(pid); err == nil {
			return pid, true
		}
		return 0, false
	}

	if user, err := s.userRepo.GetUserByHandle(raw); err == nil {
		return user.ID, true
	}
	return 0, false
}
