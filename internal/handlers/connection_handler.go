package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/services"
	"github.com/trymedating/trymed/pkg/errors"
)

type ConnectionHandler struct {
	connections *services.ConnectionService
	invites     *services.InviteService
}

func NewConnectionHandler(connections *services.ConnectionService, invites *services.InviteService) *ConnectionHandler {
	return &ConnectionHandler{
		connections: connections,
		invites:     invites,
	}
}

// Request creates (or revives) a connection request. The target is either an
// explicit addressee id or an opaque connect value (invite token, literal id,
// base64 payload, handle).
func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		AddresseeID uint   `json:"addressee_id"`
		Token       string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	addresseeID := req.AddresseeID
	if addresseeID == 0 {
		pid, ok := h.invites.ResolveTarget(req.Token)
		if !ok {
			respondError(w, errors.New(errors.ErrCodeValidation, "invalid or expired invite"))
			return
		}
		addresseeID = pid
	}

	conn, err := h.connections.Request(userID, addresseeID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

// Act handles accept/reject/cancel/disconnect/block/unblock.
func (h *ConnectionHandler) Act(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	connID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	action := mux.Vars(r)["action"]
	switch action {
	case models.ConnectionActionAccept, models.ConnectionActionReject,
		models.ConnectionActionCancel, models.ConnectionActionDisconnect,
		models.ConnectionActionBlock, models.ConnectionActionUnblock:
	default:
		respondError(w, errors.New(errors.ErrCodeValidation, "unknown action"))
		return
	}

	conn, err := h.connections.Act(connID, userID, action)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// List returns the caller's connections, optionally filtered by status.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.ConnectionStatusPending, models.ConnectionStatusAccepted,
		models.ConnectionStatusRejected, models.ConnectionStatusDisconnected,
		models.ConnectionStatusBlocked:
	default:
		respondError(w, errors.New(errors.ErrCodeValidation, "unknown status filter"))
		return
	}

	conns, err := h.connections.List(userID, status)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connections": conns})
}

// Get returns one connection the caller is party to.
func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	connID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	conn, err := h.connections.Get(connID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}
