package repositories

import (
	"testing"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
)

func TestRedeemOnce(t *testing.T) {
	repo := NewInviteRepository(newTestDB(t))

	if err := repo.RedeemOnce("jti-one", 7); err != nil {
		t.Fatalf("first redemption error = %v", err)
	}

	grant, err := repo.GetGrant("jti-one")
	if err != nil {
		t.Fatalf("GetGrant() error = %v", err)
	}
	if grant.UsedAt == nil {
		t.Error("used_at not stamped on first redemption")
	}
	if grant.IssuerID != 7 {
		t.Errorf("issuer = %d, want 7", grant.IssuerID)
	}

	// The same jti must never redeem twice.
	err = repo.RedeemOnce("jti-one", 7)
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Errorf("second redemption error = %v, want conflict", err)
	}
}

func TestRedeemOnce_IndependentGrants(t *testing.T) {
	repo := NewInviteRepository(newTestDB(t))

	if err := repo.RedeemOnce("jti-a", 1); err != nil {
		t.Fatalf("redeem jti-a error = %v", err)
	}
	if err := repo.RedeemOnce("jti-b", 2); err != nil {
		t.Errorf("redeem jti-b error = %v; grants must not interfere", err)
	}
}

func TestRedeemOnce_Revoked(t *testing.T) {
	repo := NewInviteRepository(newTestDB(t))

	// Seed a grant the issuer revokes before anyone scans it.
	grant := models.InviteGrant{JTI: "jti-revoked", IssuerID: 7}
	if err := repo.db.Create(&grant).Error; err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	if err := repo.Revoke("jti-revoked", 7); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	err := repo.RedeemOnce("jti-revoked", 7)
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Errorf("redeeming revoked grant error = %v, want conflict", err)
	}
}

func TestRevoke_SettledGrant(t *testing.T) {
	repo := NewInviteRepository(newTestDB(t))

	if err := repo.RedeemOnce("jti-used", 7); err != nil {
		t.Fatalf("redeem error = %v", err)
	}

	// Already used: nothing to revoke.
	err := repo.Revoke("jti-used", 7)
	if errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("Revoke() on used grant error = %v, want not found", err)
	}
}
