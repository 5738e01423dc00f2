package models

import (
	"testing"
)

func TestPairKey(t *testing.T) {
	tests := []struct {
		name string
		a, b uint
		want string
	}{
		{name: "Ordered", a: 1, b: 2, want: "1:2"},
		{name: "Reversed", a: 2, b: 1, want: "1:2"},
		{name: "Large ids", a: 90000, b: 7, want: "7:90000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PairKey(tt.a, tt.b); got != tt.want {
				t.Errorf("PairKey(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestConnectionApply(t *testing.T) {
	const (
		requester = uint(1)
		addressee = uint(2)
		stranger  = uint(9)
	)

	newConn := func(status string, blockedBy *uint) *Connection {
		return &Connection{
			ID:          10,
			RequesterID: requester,
			AddresseeID: addressee,
			Status:      status,
			BlockedBy:   blockedBy,
		}
	}

	tests := []struct {
		name       string
		status     string
		blockedBy  *uint
		action     string
		actor      uint
		wantErr    bool
		wantStatus string
	}{
		{name: "Addressee accepts pending", status: ConnectionStatusPending, action: ConnectionActionAccept, actor: addressee, wantStatus: ConnectionStatusAccepted},
		{name: "Requester cannot accept own request", status: ConnectionStatusPending, action: ConnectionActionAccept, actor: requester, wantErr: true},
		{name: "Accept requires pending", status: ConnectionStatusAccepted, action: ConnectionActionAccept, actor: addressee, wantErr: true},

		{name: "Addressee rejects pending", status: ConnectionStatusPending, action: ConnectionActionReject, actor: addressee, wantStatus: ConnectionStatusRejected},
		{name: "Requester cannot reject", status: ConnectionStatusPending, action: ConnectionActionReject, actor: requester, wantErr: true},

		{name: "Requester cancels pending", status: ConnectionStatusPending, action: ConnectionActionCancel, actor: requester, wantStatus: ConnectionStatusDisconnected},
		{name: "Addressee cannot cancel", status: ConnectionStatusPending, action: ConnectionActionCancel, actor: addressee, wantErr: true},

		{name: "Requester disconnects accepted", status: ConnectionStatusAccepted, action: ConnectionActionDisconnect, actor: requester, wantStatus: ConnectionStatusDisconnected},
		{name: "Addressee disconnects accepted", status: ConnectionStatusAccepted, action: ConnectionActionDisconnect, actor: addressee, wantStatus: ConnectionStatusDisconnected},
		{name: "Disconnect requires accepted", status: ConnectionStatusRejected, action: ConnectionActionDisconnect, actor: requester, wantErr: true},

		{name: "Either party blocks", status: ConnectionStatusAccepted, action: ConnectionActionBlock, actor: addressee, wantStatus: ConnectionStatusBlocked},
		{name: "Block from pending", status: ConnectionStatusPending, action: ConnectionActionBlock, actor: requester, wantStatus: ConnectionStatusBlocked},
		{name: "Cannot block twice", status: ConnectionStatusBlocked, blockedBy: ptr(requester), action: ConnectionActionBlock, actor: addressee, wantErr: true},

		{name: "Blocker unblocks", status: ConnectionStatusBlocked, blockedBy: ptr(requester), action: ConnectionActionUnblock, actor: requester, wantStatus: ConnectionStatusDisconnected},
		{name: "Blocked party cannot unblock", status: ConnectionStatusBlocked, blockedBy: ptr(requester), action: ConnectionActionUnblock, actor: addressee, wantErr: true},
		{name: "Unblock requires blocked", status: ConnectionStatusAccepted, action: ConnectionActionUnblock, actor: requester, wantErr: true},

		{name: "Reconnect after rejection", status: ConnectionStatusRejected, action: ConnectionActionReconnect, actor: requester, wantStatus: ConnectionStatusPending},
		{name: "Reconnect after disconnect", status: ConnectionStatusDisconnected, action: ConnectionActionReconnect, actor: addressee, wantStatus: ConnectionStatusPending},
		{name: "Cannot reconnect while blocked", status: ConnectionStatusBlocked, blockedBy: ptr(requester), action: ConnectionActionReconnect, actor: addressee, wantErr: true},
		{name: "Cannot reconnect while accepted", status: ConnectionStatusAccepted, action: ConnectionActionReconnect, actor: requester, wantErr: true},

		{name: "Stranger cannot act", status: ConnectionStatusPending, action: ConnectionActionAccept, actor: stranger, wantErr: true},
		{name: "Unknown action", status: ConnectionStatusPending, action: "explode", actor: requester, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newConn(tt.status, tt.blockedBy)
			err := conn.Apply(tt.action, tt.actor)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Apply(%s) expected error, got status %q", tt.action, conn.Status)
				}
				if conn.Status != tt.status {
					t.Errorf("failed Apply mutated status to %q", conn.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("Apply(%s) error = %v", tt.action, err)
			}
			if conn.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", conn.Status, tt.wantStatus)
			}
		})
	}
}

func TestConnectionApply_BlockRecordsBlocker(t *testing.T) {
	conn := &Connection{RequesterID: 1, AddresseeID: 2, Status: ConnectionStatusAccepted}

	if err := conn.Apply(ConnectionActionBlock, 2); err != nil {
		t.Fatalf("Apply(block) error = %v", err)
	}
	if conn.BlockedBy == nil || *conn.BlockedBy != 2 {
		t.Errorf("BlockedBy = %v, want 2", conn.BlockedBy)
	}

	if err := conn.Apply(ConnectionActionUnblock, 2); err != nil {
		t.Fatalf("Apply(unblock) error = %v", err)
	}
	if conn.BlockedBy != nil {
		t.Errorf("BlockedBy = %v, want nil after unblock", conn.BlockedBy)
	}
}

func TestConnectionApply_ReconnectSwapsRoles(t *testing.T) {
	conn := &Connection{RequesterID: 1, AddresseeID: 2, Status: ConnectionStatusRejected}

	if err := conn.Apply(ConnectionActionReconnect, 2); err != nil {
		t.Fatalf("Apply(reconnect) error = %v", err)
	}

	if conn.RequesterID != 2 || conn.AddresseeID != 1 {
		t.Errorf("roles = (%d, %d), want (2, 1)", conn.RequesterID, conn.AddresseeID)
	}
	if conn.Status != ConnectionStatusPending {
		t.Errorf("status = %q, want pending", conn.Status)
	}
}

func TestConnectionHelpers(t *testing.T) {
	conn := &Connection{RequesterID: 3, AddresseeID: 7}

	if !conn.Involves(3) || !conn.Involves(7) {
		t.Error("Involves should be true for both parties")
	}
	if conn.Involves(4) {
		t.Error("Involves(4) should be false")
	}
	if got := conn.PeerOf(3); got != 7 {
		t.Errorf("PeerOf(3) = %d, want 7", got)
	}
	if got := conn.PeerOf(7); got != 3 {
		t.Errorf("PeerOf(7) = %d, want 3", got)
	}
}

func ptr(v uint) *uint {
	return &v
}
