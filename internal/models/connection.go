package models

import (
	"fmt"
	"time"

	"github.com/trymedating/trymed/pkg/errors"
)

// Connection is the relationship record between two users. A single row
// exists per unordered pair, keyed by PairKey, and carries the full
// lifecycle: pending, accepted, rejected, disconnected, blocked.
type Connection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PairKey     string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"-"`
	RequesterID uint      `gorm:"not null;index" json:"requester_id"`
	Requester   User      `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	AddresseeID uint      `gorm:"not null;index" json:"addressee_id"`
	Addressee   User      `gorm:"foreignKey:AddresseeID;constraint:OnDelete:CASCADE" json:"-"`
	Status      string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	BlockedBy   *uint     `gorm:"index" json:"blocked_by,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}

// Connection status constants
const (
	ConnectionStatusPending      = "pending"
	ConnectionStatusAccepted     = "accepted"
	ConnectionStatusRejected     = "rejected"
	ConnectionStatusDisconnected = "disconnected"
	ConnectionStatusBlocked      = "blocked"
)

// Connection actions
const (
	ConnectionActionAccept     = "accept"
	ConnectionActionReject     = "reject"
	ConnectionActionCancel     = "cancel"
	ConnectionActionDisconnect = "disconnect"
	ConnectionActionBlock      = "block"
	ConnectionActionUnblock    = "unblock"
	ConnectionActionReconnect  = "reconnect"
)

// PairKey canonicalizes an unordered user pair so the unique index holds
// regardless of which side initiated.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Involves reports whether userID is one of the two parties.
func (c *Connection) Involves(userID uint) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}

// PeerOf returns the other party's id.
func (c *Connection) PeerOf(userID uint) uint {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// CanChat reports whether messages may flow over this connection.
func (c *Connection) CanChat() bool {
	return c.Status == ConnectionStatusAccepted
}

// Apply validates and performs a lifecycle transition initiated by actorID.
// The receiver is mutated only when the transition is allowed.
func (c *Connection) Apply(action string, actorID uint) error {
	if !c.Involves(actorID) {
		return errors.New(errors.ErrCodeForbidden, "not a party to this connection")
	}

	switch action {
	case ConnectionActionAccept:
		if c.Status != ConnectionStatusPending {
			return errors.New(errors.ErrCodeValidation, "connection is not pending")
		}
		if actorID != c.AddresseeID {
			return errors.New(errors.ErrCodeForbidden, "only the addressee can accept")
		}
		c.Status = ConnectionStatusAccepted

	case ConnectionActionReject:
		if c.Status != ConnectionStatusPending {
			return errors.New(errors.ErrCodeValidation, "connection is not pending")
		}
		if actorID != c.AddresseeID {
			return errors.New(errors.ErrCodeForbidden, "only the addressee can reject")
		}
		c.Status = ConnectionStatusRejected

	case ConnectionActionCancel:
		if c.Status != ConnectionStatusPending {
			return errors.New(errors.ErrCodeValidation, "connection is not pending")
		}
		if actorID != c.RequesterID {
			return errors.New(errors.ErrCodeForbidden, "only the requester can cancel")
		}
		c.Status = ConnectionStatusDisconnected

	case ConnectionActionDisconnect:
		if c.Status != ConnectionStatusAccepted {
			return errors.New(errors.ErrCodeValidation, "connection is not accepted")
		}
		c.Status = ConnectionStatusDisconnected

	case ConnectionActionBlock:
		if c.Status == ConnectionStatusBlocked {
			return errors.New(errors.ErrCodeValidation, "connection is already blocked")
		}
		c.Status = ConnectionStatusBlocked
		blocker := actorID
		c.BlockedBy = &blocker

	case ConnectionActionUnblock:
		if c.Status != ConnectionStatusBlocked {
			return errors.New(errors.ErrCodeValidation, "connection is not blocked")
		}
		if c.BlockedBy == nil || *c.BlockedBy != actorID {
			return errors.New(errors.ErrCodeForbidden, "only the blocking party can unblock")
		}
		c.Status = ConnectionStatusDisconnected
		c.BlockedBy = nil

	case ConnectionActionReconnect:
		if c.Status != ConnectionStatusRejected && c.Status != ConnectionStatusDisconnected {
			return errors.New(errors.ErrCodeValidation, "connection cannot be re-requested in its current state")
		}
		peer := c.PeerOf(actorID)
		c.RequesterID = actorID
		c.AddresseeID = peer
		c.Status = ConnectionStatusPending
		c.BlockedBy = nil

	default:
		return errors.New(errors.ErrCodeValidation, "unknown connection action")
	}

	return nil
}
